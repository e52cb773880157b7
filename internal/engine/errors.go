package engine

import (
	"errors"
	"fmt"

	"github.com/pulseops/Autosource/internal/rule"
	"github.com/pulseops/Autosource/internal/schema"
	"github.com/pulseops/Autosource/internal/story"
)

// GenerateError reports the event occurrence whose generation failed.
// The whole run is abandoned; no events are produced.
type GenerateError struct {
	Source     string
	Event      string
	SpecIndex  int // index into the flattened spec list
	Repetition int
	Err        error
}

// Error implements the error interface.
func (e *GenerateError) Error() string {
	return fmt.Sprintf("generating %s.%s (spec %d, repetition %d): %v",
		e.Source, e.Event, e.SpecIndex, e.Repetition, e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerateError) Unwrap() error {
	return e.Err
}

// ErrorKind categorizes engine failures.
type ErrorKind string

const (
	// KindStructural: the story file is missing, malformed or incomplete.
	KindStructural ErrorKind = "structural"

	// KindRule: a data rule is unknown or has bad arguments.
	KindRule ErrorKind = "rule"

	// KindSchema: a resolved payload does not satisfy its schema.
	KindSchema ErrorKind = "schema"

	// KindLookup: no schema is registered for a (source, event) pair.
	KindLookup ErrorKind = "lookup"

	// KindOther covers everything else.
	KindOther ErrorKind = "other"
)

// Code returns the CLI error code for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case KindStructural:
		return "E201"
	case KindRule:
		return "E202"
	case KindSchema:
		return "E203"
	case KindLookup:
		return "E204"
	default:
		return "E001"
	}
}

// Classify returns the kind of err, looking through wrapping.
// A nil error is KindOther.
func Classify(err error) ErrorKind {
	switch {
	case IsStructuralError(err):
		return KindStructural
	case IsRuleError(err):
		return KindRule
	case IsLookupError(err):
		return KindLookup
	case IsSchemaError(err):
		return KindSchema
	default:
		return KindOther
	}
}

// IsStructuralError returns true if err is (or wraps) a *story.LoadError.
func IsStructuralError(err error) bool {
	var le *story.LoadError
	return errors.As(err, &le)
}

// IsRuleError returns true if err is (or wraps) a *rule.Error.
func IsRuleError(err error) bool {
	var re *rule.Error
	return errors.As(err, &re)
}

// IsSchemaError returns true if err is (or wraps) a *schema.ValidationError.
func IsSchemaError(err error) bool {
	var ve *schema.ValidationError
	return errors.As(err, &ve)
}

// IsLookupError returns true if err is (or wraps) a *schema.LookupError.
func IsLookupError(err error) bool {
	var le *schema.LookupError
	return errors.As(err, &le)
}
