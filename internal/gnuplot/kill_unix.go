//go:build !windows

package gnuplot

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcAttr puts the engine in its own process group so a stuck
// engine (and anything it forked) can be killed as a unit.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGTERM then SIGKILL to the engine's process
// group. pgid equals the engine pid because of Setpgid.
func killProcessGroup(pgid int) {
	_ = syscall.Kill(-pgid, syscall.SIGTERM)
	time.Sleep(100 * time.Millisecond)
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
