package story

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pulseops/Autosource/internal/value"
)

// StoryConfig is a loaded story file.
type StoryConfig struct {
	OrgID     string
	StartDate StartDate
	Includes  []string // as written, relative to the story's directory
	Events    []EventSpec
	Path      string // absolute, cleaned
}

// EventSpec is one entry of a story's events list.
type EventSpec struct {
	Source     string
	Event      string
	OffsetDays int
	Repeat     *int // nil means a single occurrence
	Data       value.Object
}

// Occurrences returns how many events s expands to.
func (s EventSpec) Occurrences() int {
	if s.Repeat == nil {
		return 1
	}
	return *s.Repeat
}

// DayOffset returns the day offset of the i-th occurrence. Repeated specs
// advance one day per repetition.
func (s EventSpec) DayOffset(i int) int {
	if s.Repeat == nil {
		return s.OffsetDays
	}
	return s.OffsetDays + i
}

// StartDate is a story's anchor time.
//
// HasZone records whether the source text carried a UTC offset. Zone-less
// dates are held in UTC and rendered without an offset.
type StartDate struct {
	time.Time
	HasZone bool
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseStartDate parses the accepted ISO-8601 forms. Fractional seconds are
// accepted after the seconds field in every layout.
func ParseStartDate(s string) (StartDate, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Parse may pick time.Local when the offset matches it; pin the
			// offset so day arithmetic never follows host DST rules.
			_, offset := t.Zone()
			return StartDate{Time: t.In(time.FixedZone("", offset)), HasZone: true}, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return StartDate{Time: t}, nil
		}
	}
	return StartDate{}, fmt.Errorf("invalid ISO-8601 date %q", s)
}

// UnmarshalYAML accepts a YAML timestamp or a string in any form accepted by
// ParseStartDate.
func (d *StartDate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return fmt.Errorf("line %d: start_date must be a date string", node.Line)
	}
	parsed, err := ParseStartDate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

// AddDays returns the start date moved by a number of calendar days.
func (d StartDate) AddDays(days int) StartDate {
	return StartDate{Time: d.Time.AddDate(0, 0, days), HasZone: d.HasZone}
}

// String renders the date the way event timestamps are written:
// microsecond fraction only when non-zero, offset only when zoned.
func (d StartDate) String() string {
	layout := "2006-01-02T15:04:05"
	if d.Nanosecond()/int(time.Microsecond) != 0 {
		layout += ".000000"
	}
	if d.HasZone {
		layout += "-07:00"
	}
	return d.Format(layout)
}
