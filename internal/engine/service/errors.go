package service

import (
	"errors"
	"fmt"
)

// Kind classifies terminal business errors so the transport layer can
// map them to response codes without string matching.
type Kind int

const (
	// KindNotFound covers absent entities, and non-membership on read
	// paths where existence must not leak to outsiders.
	KindNotFound Kind = iota + 1
	// KindForbidden covers authenticated actors with an insufficient
	// role, permission or identity binding.
	KindForbidden
	// KindInvalidState covers business-rule violations: already
	// accepted, expired, duplicate membership, owner-removal attempts.
	KindInvalidState
)

// StatusError is a terminal error for the triggering operation; no
// retry, no partial success.
type StatusError struct {
	Kind Kind
	Msg  string
}

func (e *StatusError) Error() string {
	return e.Msg
}

func NotFoundf(format string, args ...any) error {
	return &StatusError{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) error {
	return &StatusError{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...any) error {
	return &StatusError{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func isKind(err error, kind Kind) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Kind == kind
}

func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

func IsForbidden(err error) bool {
	return isKind(err, KindForbidden)
}

func IsInvalidState(err error) bool {
	return isKind(err, KindInvalidState)
}
