package rule

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes rule errors.
type ErrorKind string

const (
	// ErrUnknownRule indicates the rule names a kind the interpreter does not know.
	ErrUnknownRule ErrorKind = "UNKNOWN_RULE"

	// ErrArity indicates the rule was called with the wrong number of arguments.
	ErrArity ErrorKind = "ARITY"

	// ErrArgument indicates an argument has the wrong type or an invalid value.
	ErrArgument ErrorKind = "ARGUMENT"
)

// Error is returned when a rule string cannot be resolved.
type Error struct {
	Kind    ErrorKind
	Rule    string // rule type, e.g. "random"
	Field   string // data path of the offending field, set by ResolveData
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("rule %s at %s: %s", e.Rule, e.Field, e.Message)
	}
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Message)
}

// IsUnknownRule reports whether err is an unknown-rule error.
func IsUnknownRule(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == ErrUnknownRule
}

// IsArityError reports whether err is a wrong-argument-count error.
func IsArityError(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == ErrArity
}

func arityError(rule string, want, got int) *Error {
	noun := "arguments"
	if want == 1 {
		noun = "argument"
	}
	return &Error{
		Kind:    ErrArity,
		Rule:    rule,
		Message: fmt.Sprintf("requires exactly %d %s, got %d", want, noun, got),
	}
}
