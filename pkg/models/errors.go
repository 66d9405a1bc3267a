package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies the failures of a download run
type ErrorKind int

const (
	KindUnknown   ErrorKind = iota
	KindTransport           // DNS, connection, TLS or body read failure
	KindStatus              // non-success HTTP status
	KindIO                  // file creation, write or flush failure
	KindRender              // the progress display could not complete
)

var kindNames = map[ErrorKind]string{
	KindUnknown:   "error",
	KindTransport: "transport error",
	KindStatus:    "status error",
	KindIO:        "io error",
	KindRender:    "render error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Error stores a message and optionally wraps the error that caused it.
type Error struct {
	Kind  ErrorKind
	What  string // What went wrong?
	Cause error  // What was the cause of this error, if any?
}

// NewError builds an Error of the given kind
func NewError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		What:  fmt.Sprintf(format, args...),
		Cause: cause,
	}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.What
	}
	return e.What + "\nCaused by: " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// StatusError is the cause of a KindStatus error
type StatusError struct {
	URL        string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("Couldn't download URL: %s. Error: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// NewStatusError wraps a StatusError into the envelope
func NewStatusError(url string, code int) *Error {
	return &Error{
		Kind:  KindStatus,
		What:  fmt.Sprintf("Couldn't download URL: %s. Error: %d %s", url, code, http.StatusText(code)),
		Cause: StatusError{URL: url, StatusCode: code},
	}
}

// IsKind reports whether any Error in err's tree has the given kind
func IsKind(err error, kind ErrorKind) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		return e.Kind == kind || IsKind(e.Cause, kind)
	case interface{ Unwrap() []error }:
		for _, err := range e.Unwrap() {
			if IsKind(err, kind) {
				return true
			}
		}
		return false
	default:
		return IsKind(errors.Unwrap(err), kind)
	}
}

// StatusCode returns the HTTP status carried by err, 0 when there is none
func StatusCode(err error) int {
	var s StatusError
	if errors.As(err, &s) {
		return s.StatusCode
	}
	return 0
}

// Chain returns the messages of err and of all its causes, outermost first.
// Joined errors are flattened.
func Chain(err error) []string {
	var out []string
	var walk func(err error)
	walk = func(err error) {
		for err != nil {
			if j, ok := err.(interface{ Unwrap() []error }); ok {
				for _, e := range j.Unwrap() {
					walk(e)
				}
				return
			}
			if e, ok := err.(*Error); ok {
				out = append(out, e.What)
			} else {
				out = append(out, err.Error())
			}
			err = errors.Unwrap(err)
		}
	}
	walk(err)
	return out
}

// Describe renders err for the user: a single line for a status failure,
// the message followed by its causes otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok && e.Kind == KindStatus {
		return e.What
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		parts := make([]string, 0, len(j.Unwrap()))
		for _, e := range j.Unwrap() {
			parts = append(parts, Describe(e))
		}
		return strings.Join(parts, "\n")
	}
	lines := Chain(err)
	if len(lines) == 0 {
		return err.Error()
	}
	b := strings.Builder{}
	b.WriteString(lines[0])
	for _, l := range lines[1:] {
		b.WriteString("\nCaused by: ")
		b.WriteString(l)
	}
	return b.String()
}
