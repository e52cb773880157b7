package engine

import (
	"container/heap"
	"time"
)

// queued is a heap entry: the event plus its ordering key.
type queued struct {
	event Event
	at    time.Time
	seq   int64
}

// eventQueue is a min-heap of events ordered by (timestamp, seq).
//
// seq counts pushes, so equal timestamps pop in the order they were pushed.
// Not safe for concurrent use.
type eventQueue struct {
	items eventHeap
	seq   int64
}

func newEventQueue() *eventQueue {
	return &eventQueue{items: make(eventHeap, 0, 64)}
}

// Push adds an event occurring at t.
func (q *eventQueue) Push(e Event, t time.Time) {
	q.seq++
	heap.Push(&q.items, queued{event: e, at: t, seq: q.seq})
}

// Pop removes and returns the earliest event.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) Pop() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	item := heap.Pop(&q.items).(queued)
	return item.event, true
}

// Len returns the number of queued events.
func (q *eventQueue) Len() int {
	return len(q.items)
}

// eventHeap implements heap.Interface.
type eventHeap []queued

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queued))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	// Drop the reference so popped payloads can be collected.
	old[n-1] = queued{}
	*h = old[:n-1]
	return item
}
