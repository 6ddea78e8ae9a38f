//go:build unix

package capability

import (
	"os"

	"golang.org/x/sys/unix"
)

// resumeSignals trigger a capability re-query; a resumed session may be
// attached to a different terminal
var resumeSignals = []os.Signal{unix.SIGCONT}
