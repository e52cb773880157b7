package story

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseops/Autosource/internal/testutil"
	"github.com/pulseops/Autosource/internal/value"
)

func TestLoad_ValidStory(t *testing.T) {
	path := testutil.WriteStory(t, t.TempDir(), "story.yaml", `
org_id: acme
start_date: "2024-01-01T00:00:00"
includes:
  - child.yaml
events:
  - source: linear
    event: ticket.created
    offset_days: 0
    data:
      title: "static('Bug fix')"
      priority: "random(1, 3)"
  - source: posthog
    event: usage.metrics
    offset_days: 2
    repeat: 3
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", s.OrgID)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, []string{"child.yaml"}, s.Includes)
	assert.False(t, s.StartDate.HasZone)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.StartDate.Time)

	require.Len(t, s.Events, 2)
	first := s.Events[0]
	assert.Equal(t, "linear", first.Source)
	assert.Equal(t, "ticket.created", first.Event)
	assert.Nil(t, first.Repeat)
	assert.Equal(t, value.Object{
		"title":    value.String("static('Bug fix')"),
		"priority": value.String("random(1, 3)"),
	}, first.Data)

	second := s.Events[1]
	require.NotNil(t, second.Repeat)
	assert.Equal(t, 3, *second.Repeat)
	assert.Equal(t, 2, second.OffsetDays)
	assert.Equal(t, value.Object{}, second.Data)
}

func TestLoad_TypedData(t *testing.T) {
	path := testutil.WriteStory(t, t.TempDir(), "story.yaml", `
org_id: acme
start_date: 2024-03-10
events:
  - source: posthog
    event: usage.metrics
    offset_days: 0
    data:
      active_users: 120
      percent_change: 1.5
      flag: true
      nothing: null
      tags: [a, b]
      nested:
        quoted: "42"
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, value.Object{
		"active_users":   value.Int(120),
		"percent_change": value.Float(1.5),
		"flag":           value.Bool(true),
		"nothing":        value.Null{},
		"tags":           value.Array{value.String("a"), value.String("b")},
		"nested":         value.Object{"quoted": value.String("42")},
	}, s.Events[0].Data)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), s.StartDate.Time)
}

func TestLoad_EmptyEventsAllowed(t *testing.T) {
	path := testutil.WriteStory(t, t.TempDir(), "story.yaml", `
org_id: acme
start_date: "2024-01-01"
events: []
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, s.Events)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		message string
	}{
		{
			name:    "missing org_id",
			content: "start_date: \"2024-01-01\"\nevents: []\n",
			field:   "org_id",
		},
		{
			name:    "missing start_date",
			content: "org_id: acme\nevents: []\n",
			field:   "start_date",
		},
		{
			name:    "missing events",
			content: "org_id: acme\nstart_date: \"2024-01-01\"\n",
			field:   "events",
		},
		{
			name:    "bad date",
			content: "org_id: acme\nstart_date: \"next tuesday\"\nevents: []\n",
			message: "invalid ISO-8601 date",
		},
		{
			name:    "unknown key",
			content: "org_id: acme\nstart_date: \"2024-01-01\"\nevents: []\nowner: bob\n",
			message: "field owner not found",
		},
		{
			name: "missing source",
			content: `org_id: acme
start_date: "2024-01-01"
events:
  - event: ticket.created
    offset_days: 0
`,
			field: "events[0].source",
		},
		{
			name: "missing offset_days",
			content: `org_id: acme
start_date: "2024-01-01"
events:
  - source: linear
    event: ticket.created
`,
			field: "events[0].offset_days",
		},
		{
			name: "negative offset",
			content: `org_id: acme
start_date: "2024-01-01"
events:
  - source: linear
    event: ticket.created
    offset_days: -1
`,
			field: "events[0].offset_days",
		},
		{
			name: "negative repeat",
			content: `org_id: acme
start_date: "2024-01-01"
events:
  - source: linear
    event: ticket.created
    offset_days: 0
    repeat: -2
`,
			field: "events[0].repeat",
		},
		{
			name: "data not a mapping",
			content: `org_id: acme
start_date: "2024-01-01"
events:
  - source: linear
    event: ticket.created
    offset_days: 0
    data: [1, 2]
`,
			message: "expected a mapping",
		},
		{
			name:    "not yaml",
			content: "org_id: [unclosed\n",
			message: "failed to parse YAML",
		},
		{
			name:    "empty file",
			content: "",
			message: "story file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteStory(t, t.TempDir(), "story.yaml", tt.content)

			_, err := Load(path)
			require.Error(t, err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			if tt.field != "" {
				assert.Equal(t, tt.field, le.Field)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseStartDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		hasZone bool
		render  string
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false, "2024-01-01T00:00:00"},
		{"2024-01-01T09:30:00", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), false, "2024-01-01T09:30:00"},
		{"2024-01-01 09:30:00", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), false, "2024-01-01T09:30:00"},
		{"2024-01-01T09:30:00.25", time.Date(2024, 1, 1, 9, 30, 0, 250_000_000, time.UTC), false, "2024-01-01T09:30:00.250000"},
		{"2024-01-01T09:30:00Z", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), true, "2024-01-01T09:30:00+00:00"},
		{"2024-01-01T09:30:00+02:00", time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC), true, "2024-01-01T09:30:00+02:00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStartDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
			assert.Equal(t, tt.hasZone, got.HasZone)
			assert.Equal(t, tt.render, got.String())
		})
	}

	_, err := ParseStartDate("01/02/2024")
	assert.Error(t, err)
}

func TestStartDate_AddCalendarDays(t *testing.T) {
	d, err := ParseStartDate("2024-02-28T12:00:00")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29T12:00:00", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01T12:00:00", d.AddDays(2).String())
	assert.Equal(t, "2024-02-28T12:00:00", d.AddDays(0).String())
}

func TestEventSpec_Occurrences(t *testing.T) {
	three, zero := 3, 0

	single := EventSpec{OffsetDays: 2}
	assert.Equal(t, 1, single.Occurrences())
	assert.Equal(t, 2, single.DayOffset(0))

	repeated := EventSpec{OffsetDays: 2, Repeat: &three}
	assert.Equal(t, 3, repeated.Occurrences())
	assert.Equal(t, []int{2, 3, 4}, []int{repeated.DayOffset(0), repeated.DayOffset(1), repeated.DayOffset(2)})

	none := EventSpec{OffsetDays: 2, Repeat: &zero}
	assert.Equal(t, 0, none.Occurrences())
}

func TestStartDate_ZonedIgnoresHostZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	saved := time.Local
	time.Local = ny
	t.Cleanup(func() { time.Local = saved })

	// -05:00 matches New York's offset on the parse date, and DST starts on
	// 2024-03-10. The offset must stay fixed across the transition.
	d, err := ParseStartDate("2024-03-09T12:00:00-05:00")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-09T12:00:00-05:00", d.String())
	assert.Equal(t, "2024-03-10T12:00:00-05:00", d.AddDays(1).String())
	assert.Equal(t, "2024-03-12T12:00:00-05:00", d.AddDays(3).String())
	assert.Equal(t, 24*time.Hour, d.AddDays(1).Sub(d.Time))
}
