package story

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pulseops/Autosource/internal/value"
)

// storyFile mirrors the YAML layout. Pointers distinguish missing keys
// from zero values.
type storyFile struct {
	OrgID     *string     `yaml:"org_id"`
	StartDate *StartDate  `yaml:"start_date"`
	Includes  []string    `yaml:"includes,omitempty"`
	Events    *[]specFile `yaml:"events"`
}

type specFile struct {
	Source     string       `yaml:"source"`
	Event      string       `yaml:"event"`
	OffsetDays *int         `yaml:"offset_days"`
	Repeat     *int         `yaml:"repeat,omitempty"`
	Data       value.Object `yaml:"data,omitempty"`
}

// Load reads and validates a single story file. Includes are not followed;
// see Loader.Flatten.
func Load(path string) (*StoryConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to resolve story path", Err: err}
	}
	abs = resolvePath(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &LoadError{Path: abs, Message: "failed to read story file", Err: err}
	}

	return Parse(abs, data)
}

// Parse decodes story YAML. path is recorded on the result and used to
// resolve includes; it should be absolute.
func Parse(path string, data []byte) (*StoryConfig, error) {
	var raw storyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: path, Message: "story file is empty"}
		}
		return nil, &LoadError{Path: path, Message: "failed to parse YAML", Err: err}
	}

	return validateStory(path, &raw)
}

func validateStory(path string, raw *storyFile) (*StoryConfig, error) {
	if raw.OrgID == nil || *raw.OrgID == "" {
		return nil, fieldError(path, "org_id", "is required")
	}
	if raw.StartDate == nil {
		return nil, fieldError(path, "start_date", "is required")
	}
	if raw.Events == nil {
		return nil, fieldError(path, "events", "is required")
	}

	for i, inc := range raw.Includes {
		if inc == "" {
			return nil, fieldError(path, fmt.Sprintf("includes[%d]", i), "must not be empty")
		}
	}

	story := &StoryConfig{
		OrgID:     *raw.OrgID,
		StartDate: *raw.StartDate,
		Includes:  raw.Includes,
		Events:    make([]EventSpec, 0, len(*raw.Events)),
		Path:      path,
	}
	for i, sf := range *raw.Events {
		spec, err := validateSpec(path, i, sf)
		if err != nil {
			return nil, err
		}
		story.Events = append(story.Events, spec)
	}
	return story, nil
}

func validateSpec(path string, i int, sf specFile) (EventSpec, error) {
	field := func(name string) string {
		return fmt.Sprintf("events[%d].%s", i, name)
	}

	switch {
	case sf.Source == "":
		return EventSpec{}, fieldError(path, field("source"), "is required")
	case sf.Event == "":
		return EventSpec{}, fieldError(path, field("event"), "is required")
	case sf.OffsetDays == nil:
		return EventSpec{}, fieldError(path, field("offset_days"), "is required")
	case *sf.OffsetDays < 0:
		return EventSpec{}, fieldError(path, field("offset_days"), "must be >= 0, got %d", *sf.OffsetDays)
	case sf.Repeat != nil && *sf.Repeat < 0:
		return EventSpec{}, fieldError(path, field("repeat"), "must be >= 0, got %d", *sf.Repeat)
	}

	data := sf.Data
	if data == nil {
		data = value.Object{}
	}
	return EventSpec{
		Source:     sf.Source,
		Event:      sf.Event,
		OffsetDays: *sf.OffsetDays,
		Repeat:     sf.Repeat,
		Data:       data,
	}, nil
}

// resolvePath cleans an absolute path and follows symlinks, so one file
// reached through different links has a single identity. Paths that cannot
// be resolved are returned cleaned; reading them reports the error.
func resolvePath(abs string) string {
	abs = filepath.Clean(abs)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
