package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// LookupError is returned when no schema is registered for a pair.
// It signals a registration gap, not bad data.
type LookupError struct {
	Source string
	Event  string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("no schema registered for event: %s.%s", e.Source, e.Event)
}

// ValidationError is returned when a payload does not satisfy its schema.
type ValidationError struct {
	Source  string
	Event   string
	Field   string // dotted path inside the payload, empty for payload-level errors
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s.%s data: %s: %s", e.Source, e.Event, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s.%s data: %s", e.Source, e.Event, e.Message)
}

// newValidationError extracts the first CUE error with its payload path.
func newValidationError(key Key, err error) *ValidationError {
	ve := &ValidationError{Source: key.Source, Event: key.Event, Message: err.Error()}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return ve
	}
	first := errs[0]

	path := first.Path()
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	ve.Field = strings.Join(path, ".")

	format, args := first.Msg()
	ve.Message = fmt.Sprintf(format, args...)

	if positions := errors.Positions(first); len(positions) > 0 {
		ve.Pos = positions[0]
	}
	return ve
}

// CompileError reports a schema source that failed to compile or a
// registration that points at a missing definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
