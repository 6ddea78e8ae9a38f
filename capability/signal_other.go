//go:build !unix

package capability

import "os"

var resumeSignals []os.Signal
