package core

import (
	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/paths"
)

// Preflight verifies the host prerequisites before any file is
// touched. It is the only failure that terminates the run; everything
// downstream is best-effort.
func Preflight() error {
	if paths.UserHome() == "" {
		return errors.New(errors.ErrPreflight,
			"cannot determine the user profile directory; set USERPROFILE (or HOME) and run again")
	}
	return nil
}
