//go:build windows

package session

import "os"

// processAlive reports whether a process with the given pid exists.
// On Windows FindProcess opens a real handle, so its error is the
// liveness probe.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
