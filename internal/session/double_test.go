package session

import (
	"fmt"
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner records every statement a session sends, serves scripted
// replies, and can be told to fail on a specific statement.
type fakeRunner struct {
	stmts   []string
	blocks  []string
	replies map[string]string
	failOn  string
	failErr error

	dead       bool
	terminated int
	exitCode   int
	pid        int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{replies: make(map[string]string)}
}

func (r *fakeRunner) Execute(text string) (string, error) {
	if r.dead {
		return "", fmt.Errorf("engine process is gone")
	}
	r.stmts = append(r.stmts, text)
	if r.failOn != "" && text == r.failOn {
		if r.failErr != nil {
			return "", r.failErr
		}
		return "", fmt.Errorf("engine rejected %q", text)
	}
	return r.replies[text], nil
}

func (r *fakeRunner) ExecuteData(block string) error {
	if r.dead {
		return fmt.Errorf("engine process is gone")
	}
	r.blocks = append(r.blocks, block)
	return nil
}

func (r *fakeRunner) Alive() bool { return !r.dead }

func (r *fakeRunner) Terminate() (int, error) {
	r.dead = true
	r.terminated++
	return r.exitCode, nil
}

func (r *fakeRunner) Pid() int { return r.pid }
