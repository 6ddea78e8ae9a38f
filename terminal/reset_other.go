//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package terminal

// resetTerminalMode is a no-op where termios ioctls are unavailable
func resetTerminalMode() {}
