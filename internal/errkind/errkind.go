// Package errkind names the error taxonomy every core subsystem reports
// through (spec §7). Kinds are sentinel values wrapped with go-faster/errors
// so callers can test membership with errors.Is / Is.
package errkind

import "github.com/go-faster/errors"

type Kind struct {
	name string
}

func (k Kind) Error() string { return k.name }

var (
	CredentialError  = Kind{"credential_error"}
	AccountMismatch  = Kind{"account_mismatch"}
	PermissionDenied = Kind{"permission_denied"}
	Throttled        = Kind{"throttled"}
	Transient        = Kind{"transient"}
	InvalidPolicy    = Kind{"invalid_policy"}
	CorruptSnapshot  = Kind{"corrupt_snapshot"}
	Cancelled        = Kind{"cancelled"}
	UnexpectedError  = Kind{"unexpected_error"}
)

// Wrap attaches a kind to err, preserving the original error for errors.Is
// and errors.As via go-faster/errors' stack-capturing wrapper.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(&taggedError{kind: kind, cause: err}, msg)
}

// New creates a fresh error of the given kind with no prior cause.
func New(kind Kind, msg string) error {
	return errors.Wrap(&taggedError{kind: kind, cause: errors.New(msg)}, msg)
}

// Is reports whether err (or any error it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if te, ok := err.(*taggedError); ok {
			if te.kind == kind {
				return true
			}
			err = te.cause
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}

type taggedError struct {
	kind  Kind
	cause error
}

func (t *taggedError) Error() string { return t.kind.name + ": " + t.cause.Error() }
func (t *taggedError) Unwrap() error { return t.cause }

// Is lets errors.Is(err, kind) match the kind attached by Wrap or New.
func (t *taggedError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == t.kind
}
