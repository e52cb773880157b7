package engine

import "iter"

// Stream is a finite, one-shot sequence of events in chronological order.
// Events are consumed as they are read; a drained stream stays empty.
type Stream struct {
	runID string
	queue *eventQueue
}

func newStream(runID string, q *eventQueue) *Stream {
	if q == nil {
		q = newEventQueue()
	}
	return &Stream{runID: runID, queue: q}
}

// RunID identifies the generation run that produced the stream.
func (s *Stream) RunID() string {
	return s.runID
}

// Next returns the next event, or false once the stream is drained.
func (s *Stream) Next() (Event, bool) {
	return s.queue.Pop()
}

// Len returns the number of events not yet consumed.
func (s *Stream) Len() int {
	return s.queue.Len()
}

// All returns an iterator over the remaining events. Iterating consumes them.
func (s *Stream) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			e, ok := s.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}
