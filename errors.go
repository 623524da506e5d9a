package asgen

import (
	"errors"
	"strings"
)

// Error is the asgen error domain type.
//
// Errors coming from asgen components should be able to be inspected as
// ([errors.As]) an *Error at some point in the error chain.
//
// Implementers of asgen components should create an Error at the system
// boundary (e.g. using a store transaction, an archive, or an HTTP client)
// and intermediate layers should not wrap in another Error except to add
// additional [ErrorKind] information. That is to say, use [fmt.Errorf] with a
// "%w" verb in preference to creating a containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

// Assert this implements all the cool features.
var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	switch e.Kind {
	case ErrConfig,
		ErrBackendUnavailable,
		ErrPackageFatal,
		ErrDownload,
		ErrStore,
		ErrInternal,
		ErrTransient,
		ErrPermanent:
		b.WriteString(string(e.Kind))
	default:
		b.WriteString("???")
	}
	b.WriteString("]: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Message != "" && e.Inner != nil {
		b.WriteString(": ")
	}
	if e.Op == "" && e.Message == "" {
		b.Reset()
	}
	if e.Inner != nil {
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is].
//
// It compares the error kind. Callers should compare against a declared
// [ErrorKind] over a specific error.
func (e *Error) Is(kind error) bool {
	switch kind {
	case ErrVersionDependent:
		return !errors.Is(e, ErrTransient) && !errors.Is(e, ErrPermanent)
	default:
	}
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind represents classes of errors to be checked against, per the
// taxonomy of spec.md §7.
//
// If an error is unsure which kind to use, ErrInternal should be used.
type ErrorKind string

// Defined error kinds.
var (
	// ErrConfig: unreadable or inconsistent configuration; aborts before any
	// writes (spec.md §7).
	ErrConfig = ErrorKind("config")
	// ErrBackendUnavailable: a repository path/URL cannot be enumerated; the
	// affected (suite, section, arch) is skipped with a suite-level hint.
	ErrBackendUnavailable = ErrorKind("backend-unavailable")
	// ErrPackageFatal: archive cannot be opened or is malformed; pkid is
	// skipped, no C1/C2 mutation for it.
	ErrPackageFatal = ErrorKind("package-fatal")
	// ErrDownload: retried up to the configured limit; on persistent failure
	// the originating feature is dropped with a hint.
	ErrDownload = ErrorKind("download")
	// ErrStore: fatal; the run aborts with a non-zero exit and leaves the
	// store in its pre-write state.
	ErrStore = ErrorKind("store")
	// ErrInternal: non-specific internal error.
	ErrInternal = ErrorKind("internal")
	// ErrTransient: may succeed on retry.
	ErrTransient = ErrorKind("transient")
	// ErrPermanent: will never succeed.
	ErrPermanent = ErrorKind("permanent")

	// ErrVersionDependent should only be used for an [Is] comparison.
	// It's true for any error that's not marked as transient or permanent.
	ErrVersionDependent = ErrorKind("version dependent")
)

// Error implements error.
func (e ErrorKind) Error() string {
	return string(e)
}
