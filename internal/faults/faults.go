// internal/faults/faults.go
package faults

import (
	"errors"
	"fmt"
)

// Code classifies a pipeline failure.
type Code string

const (
	CodeExtraction     Code = "EXTRACTION_FAILED" // generation service failed; nothing logged
	CodeParse          Code = "PARSE_ERROR"       // extractor output not convertible; nothing written
	CodeWrite          Code = "WRITE_FAILED"      // store rejected the append
	CodeNotFound       Code = "NOT_FOUND"         // identity or profile lookup missed; normal branch
	CodeInvalidRequest Code = "INVALID_REQUEST"   // caller-supplied input rejected before extraction
	CodeInternal       Code = "INTERNAL"
)

// Fault is a classified error. Callers branch on Code, not on the wrapped
// error's concrete type.
type Fault struct {
	Code    Code
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// NewExtraction classifies a generation-service failure.
func NewExtraction(err error) *Fault {
	return &Fault{Code: CodeExtraction, Message: "extraction service failed", Err: err}
}

// NewParse classifies extractor output that cannot be converted to the
// expected typed shape. raw is the offending output.
func NewParse(raw string, err error) *Fault {
	return &Fault{Code: CodeParse, Message: fmt.Sprintf("could not parse extractor output %q", raw), Err: err}
}

// NewWrite classifies a failed store append.
func NewWrite(table string, err error) *Fault {
	return &Fault{Code: CodeWrite, Message: fmt.Sprintf("failed to append to %s", table), Err: err}
}

// NewNotFound reports a missed identity or profile lookup.
func NewNotFound(userID string) *Fault {
	return &Fault{Code: CodeNotFound, Message: fmt.Sprintf("no user with id %q", userID)}
}

// NewInvalidRequest rejects caller input before any extraction happens.
func NewInvalidRequest(msg string) *Fault {
	return &Fault{Code: CodeInvalidRequest, Message: msg}
}

// NewInternal wraps an unexpected error.
func NewInternal(err error) *Fault {
	return &Fault{Code: CodeInternal, Message: "internal error", Err: err}
}

// Is reports whether err is, or wraps, a Fault carrying the given code.
func Is(err error, code Code) bool {
	var f *Fault
	return errors.As(err, &f) && f.Code == code
}
