package params

import (
	"errors"
	"fmt"

	"github.com/reqshape/reqshape/pkg/textutil"
)

// ErrorKind names a decoding failure that must reach the caller.
type ErrorKind string

const (
	StructuralConflict  ErrorKind = "StructuralConflict"
	MalformedArrayGroup ErrorKind = "MalformedArrayGroup"
	CoercionFailure     ErrorKind = "CoercionFailure"
)

// Code is the machine-readable form of the kind, e.g. "structural_conflict".
func (k ErrorKind) Code() string {
	return textutil.CamelToUnderscore(string(k))
}

// Error carries the kind and the dotted path of a decoding failure.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Path != "" {
		msg += " at " + fmt.Sprintf("%q", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind ErrorKind, path string, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) && pe != nil {
		return pe.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain holds an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
