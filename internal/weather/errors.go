package weather

import (
	"errors"
	"fmt"
)

// Kind classifies failures of a weather lookup.
type Kind string

const (
	KindInvalidArgument      Kind = "invalid_argument"
	KindNotFound             Kind = "not_found"
	KindAuth                 Kind = "auth_error"
	KindTransientUnavailable Kind = "transient_unavailable"
	KindUpstream             Kind = "upstream_error"
	KindCacheWrite           Kind = "cache_write_failure"
)

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "location not found"}
	ErrAuth                 = &Error{Kind: KindAuth, Message: "invalid credential"}
	ErrTransientUnavailable = &Error{Kind: KindTransientUnavailable, Message: "service temporarily unavailable"}
	ErrUpstream             = &Error{Kind: KindUpstream, Message: "upstream error"}
	ErrCacheWrite           = &Error{Kind: KindCacheWrite, Message: "failed to cache location key"}
)

// Error is a classified weather lookup failure. Status and Body are set for
// failures reported by an upstream HTTP API.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is by comparing kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }

func IsTransientUnavailable(err error) bool { return errors.Is(err, ErrTransientUnavailable) }

func IsUpstream(err error) bool { return errors.Is(err, ErrUpstream) }
