package story

import "fmt"

// LoadError reports a story that cannot be read, parsed or accepted.
type LoadError struct {
	Path    string // story file, empty if unknown
	Field   string // offending key, e.g. "events[2].offset_days"
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

func fieldError(path, field, format string, args ...any) *LoadError {
	return &LoadError{Path: path, Field: field, Message: fmt.Sprintf(format, args...)}
}
