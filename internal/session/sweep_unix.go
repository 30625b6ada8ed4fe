//go:build !windows

package session

import "syscall"

// processAlive reports whether a process with the given pid exists.
// EPERM still means the process is there, just owned by someone else.
func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}
