package model

import "fmt"

// SourceError reports a parsing failure at a position in the source text.
// Kind is the sentinel describing the failure.
type SourceError struct {
	Kind   error
	Line   int
	Detail string
}

func (e *SourceError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *SourceError) Unwrap() error {
	return e.Kind
}

// Errorf creates a SourceError for kind at line.
func Errorf(kind error, line int, format string, args ...interface{}) *SourceError {
	return &SourceError{
		Kind:   kind,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}
