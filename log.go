package mywr

import (
	"os"

	"github.com/rs/zerolog"
)

// pkgLog is the package-level structured logger the hook install/
// remove paths and the patch-set apply/revert paths emit through. Defaults to warn level so a consumer
// that never calls SetDebug sees nothing but genuine problems.
var pkgLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger().
	Level(zerolog.WarnLevel)

// SetLogger replaces the package-level logger, e.g. to route mywr's
// diagnostics into a host application's own zerolog sink.
func SetLogger(l zerolog.Logger) {
	pkgLog = l
}

// SetDebug toggles the debug-level events of the install/remove and
// patch-set paths (one event per operation), the structured equivalent
// of the teacher package's own SetDebug(bool) trace switch.
func SetDebug(enabled bool) {
	if enabled {
		pkgLog = pkgLog.Level(zerolog.DebugLevel)
	} else {
		pkgLog = pkgLog.Level(zerolog.WarnLevel)
	}
}
