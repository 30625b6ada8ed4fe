//go:build windows

package gnuplot

import (
	"os"
	"os/exec"
)

func setProcAttr(cmd *exec.Cmd) {}

// killProcessGroup kills just the engine process; Windows has no
// process groups in the POSIX sense.
func killProcessGroup(pid int) {
	if p, err := os.FindProcess(pid); err == nil {
		_ = p.Kill()
	}
}
