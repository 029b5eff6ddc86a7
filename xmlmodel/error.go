package xmlmodel

import (
	"encoding/xml"
	"fmt"
)

// SyntaxError wraps an underlying XML decode failure, exposing the line
// number when the decoder reported one. Unwrap keeps the cause reachable,
// so callers can still errors.As down to the stdlib xml.SyntaxError.
type SyntaxError struct {
	Msg  string
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xml error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("xml error: %s", e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// wrapError normalizes whatever encoding/xml handed back into a
// *SyntaxError, extracting line info when available.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SyntaxError); ok {
		return se
	}
	if se, ok := err.(*xml.SyntaxError); ok {
		return &SyntaxError{Msg: se.Msg, Line: se.Line, Err: err}
	}
	return &SyntaxError{Msg: err.Error(), Err: err}
}
