package main

import (
	"errors"

	"github.com/asgen-project/asgen"
)

// isUserError reports whether err is a configuration or argument mistake
// (exit code 1) rather than an internal/store failure (exit code 2),
// per spec.md §6.3/§7.
func isUserError(err error) bool {
	var ae *asgen.Error
	if errors.As(err, &ae) {
		return ae.Kind == asgen.ErrConfig
	}
	return errors.Is(err, errBadArgs)
}

var errBadArgs = errors.New("asgen: bad arguments")
