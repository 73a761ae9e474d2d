package types

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when a Request cannot be turned into
// an HTTP request. It is the only synchronous failure of a checker.
var ErrInvalidRequest = errors.New("invalid request")

// ErrorKind names a CheckError variant in logs and JSON output.
type ErrorKind string

const (
	KindUnknownHost ErrorKind = "unknown_host"
	KindConnection  ErrorKind = "connection_failure"
	KindUnexpected  ErrorKind = "unexpected_failure"
)

// CheckError is the failure of a probe cycle. The set of
// implementations is closed to this package.
type CheckError interface {
	error
	Kind() ErrorKind
	checkError()
}

// UnknownHostError means the probe host could not be resolved.
type UnknownHostError struct {
	Hostname string
}

func (e *UnknownHostError) Error() string   { return fmt.Sprintf("unknown host %q", e.Hostname) }
func (e *UnknownHostError) Kind() ErrorKind { return KindUnknownHost }
func (*UnknownHostError) checkError()       {}

// ConnectionError means a socket could not be opened or was dropped.
type ConnectionError struct{}

func (e *ConnectionError) Error() string   { return "could not connect" }
func (e *ConnectionError) Kind() ErrorKind { return KindConnection }
func (*ConnectionError) checkError()       {}

// UnexpectedError wraps any other failure.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	if e.Err == nil {
		return "unexpected failure"
	}
	return "unexpected failure: " + e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error   { return e.Err }
func (e *UnexpectedError) Kind() ErrorKind { return KindUnexpected }
func (*UnexpectedError) checkError()       {}
