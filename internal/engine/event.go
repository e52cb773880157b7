package engine

import "github.com/pulseops/Autosource/internal/value"

// Event is one generated, validated occurrence of an event spec.
type Event struct {
	Source    string       `json:"source"`
	Event     string       `json:"event"`
	OrgID     string       `json:"org_id"`
	Timestamp string       `json:"timestamp"`
	Data      value.Object `json:"data"`
}

// Key returns "source.event".
func (e Event) Key() string {
	return e.Source + "." + e.Event
}
