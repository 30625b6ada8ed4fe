// Package gnuplot owns the engine subprocess: spawning, the stream
// reader task, the sentinel capture protocol, and the error-checked
// command executor layered on top.
package gnuplot

import (
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/plotworks/gpdrive/internal/protocol"
)

const (
	// DefaultEnginePath is the binary spawned when no path is configured.
	DefaultEnginePath = "gnuplot"

	// captureBuffer bounds the reply-line channel. The waiter drains it
	// continuously during a transaction, so this only smooths bursts.
	captureBuffer = 256

	// diagBuffer bounds the diagnostic channel. Diagnostics are advisory;
	// the reader drops them rather than block on a slow consumer.
	diagBuffer = 128

	// terminateGrace is how long Terminate waits for the engine to exit
	// after stdin closes before force-killing the process group.
	terminateGrace = 3 * time.Second
)

// Diagnostic is one unsolicited engine line, classified by the reader
// task as outside any capture window. Rendering policy lives with the
// consumer, not the reader.
type Diagnostic struct {
	Line string
}

type captureMsg struct {
	line string
	done bool
}

// Handle owns one engine subprocess and its three pipes, plus the
// reader goroutine that classifies everything the engine prints.
//
// Concurrency contract: at most one SendAndCapture may be in flight per
// handle. The handle serializes its own callers with an internal mutex;
// reply lines on the shared capture channel would otherwise be
// attributed to the wrong caller.
type Handle struct {
	// ID identifies the session this handle belongs to.
	ID string

	path   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	capture chan captureMsg
	diag    chan Diagnostic

	txMu    sync.Mutex // serializes SendAndCapture transactions
	writeMu sync.Mutex // serializes raw stdin writes (sender vs pager ack)

	nextID    atomic.Uint64
	currentID atomic.Uint64
	inFlight  atomic.Bool
	dead      atomic.Bool

	readerDone chan struct{}
	stdoutDone chan struct{}
	waitOnce   sync.Once
	waitErr    error
	exitCode   int

	log *slog.Logger
}

// SpawnOptions configures Spawn.
type SpawnOptions struct {
	// Path is the engine binary. Defaults to DefaultEnginePath.
	Path string
	// MinVersion overrides the default version gate.
	MinVersion string
	// Logger receives protocol-level debug events. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Spawn version-checks the engine binary, starts the interactive
// process with all three streams piped, and starts the reader task.
func Spawn(opts SpawnOptions) (*Handle, error) {
	path := opts.Path
	if path == "" {
		path = DefaultEnginePath
	}
	if err := CheckEngine(path, opts.MinVersion); err != nil {
		return nil, err
	}

	cmd := exec.Command(path)
	setProcAttr(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}

	h := newHandle(uuid.NewString(), stdin, stderr, stdout, opts.Logger)
	h.path = path
	h.cmd = cmd
	return h, nil
}

// newHandle wires a handle around raw streams and starts the reader.
// Spawn uses it with the subprocess pipes; tests use it with in-memory
// pipes (and a nil stdout) to drive the protocol synthetically.
func newHandle(id string, stdin io.WriteCloser, stderr, stdout io.ReadCloser, log *slog.Logger) *Handle {
	if log == nil {
		log = slog.Default()
	}
	h := &Handle{
		ID:         id,
		stdin:      stdin,
		stderr:     stderr,
		stdout:     stdout,
		capture:    make(chan captureMsg, captureBuffer),
		diag:       make(chan Diagnostic, diagBuffer),
		readerDone: make(chan struct{}),
		stdoutDone: make(chan struct{}),
		log:        log,
	}
	go h.readLoop()
	go h.drainStdout()
	// diag has two producers; close it only after both streams finish.
	go func() {
		<-h.readerDone
		<-h.stdoutDone
		close(h.diag)
	}()
	return h
}

// Diag returns the channel of unsolicited engine lines. It is closed
// when the engine's output stream closes.
func (h *Handle) Diag() <-chan Diagnostic { return h.diag }

// Alive reports whether the engine process is still usable.
func (h *Handle) Alive() bool { return !h.dead.Load() }

// SendLine writes one newline-terminated line to the engine's input
// stream. It never blocks waiting for a reply.
func (h *Handle) SendLine(text string) error {
	if h.dead.Load() {
		return &TerminatedError{Session: h.ID}
	}
	return h.writeRaw(text + "\n")
}

// SendAndCapture brackets text between the begin and end sentinels,
// sends it, and blocks until the reader delivers the completion token
// for this transaction. It returns the captured reply lines joined with
// newlines. Multi-line text is written one line at a time, so inline
// data blocks pass through unmangled.
func (h *Handle) SendAndCapture(text string) (string, error) {
	h.txMu.Lock()
	defer h.txMu.Unlock()

	if h.dead.Load() {
		return "", &TerminatedError{Session: h.ID}
	}

	id := h.nextID.Add(1)
	h.currentID.Store(id)
	h.inFlight.Store(true)
	defer h.inFlight.Store(false)

	if err := h.SendLine(protocol.PrintBegin()); err != nil {
		return "", err
	}
	for _, line := range strings.Split(text, "\n") {
		if err := h.SendLine(line); err != nil {
			return "", err
		}
	}
	if err := h.SendLine(protocol.PrintEnd(id)); err != nil {
		return "", err
	}

	var lines []string
	for {
		msg, ok := <-h.capture
		if !ok {
			// Reader exited: the engine is gone. Whatever was captured so
			// far is incomplete.
			return strings.Join(lines, "\n"), &TerminatedError{Session: h.ID}
		}
		if msg.done {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, msg.line)
	}
}

// Terminate closes the engine's input stream, waits for the process to
// exit (force-killing the process group after a grace period), and
// returns its exit status. Safe to call more than once.
func (h *Handle) Terminate() (int, error) {
	h.waitOnce.Do(func() {
		h.dead.Store(true)
		_ = h.stdin.Close()

		select {
		case <-h.readerDone:
		case <-time.After(terminateGrace):
			h.kill()
			<-h.readerDone
		}

		if h.cmd == nil {
			return
		}
		err := h.cmd.Wait()
		if err == nil {
			return
		}
		var xe *exec.ExitError
		if errors.As(err, &xe) {
			h.exitCode = xe.ExitCode()
			return
		}
		h.exitCode = -1
		h.waitErr = err
	})
	return h.exitCode, h.waitErr
}

func (h *Handle) kill() {
	if h.cmd == nil || h.cmd.Process == nil {
		return
	}
	killProcessGroup(h.cmd.Process.Pid)
}

// Pid returns the engine process id, or 0 for a synthetic handle.
func (h *Handle) Pid() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *Handle) writeRaw(s string) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if _, err := io.WriteString(h.stdin, s); err != nil {
		h.dead.Store(true)
		return &TerminatedError{Session: h.ID}
	}
	return nil
}

// drainStdout forwards engine stdout (e.g. dumb-terminal renderings) to
// the diagnostic channel. The capture protocol runs on stderr only.
func (h *Handle) drainStdout() {
	defer close(h.stdoutDone)
	if h.stdout == nil {
		return
	}
	forwardLines(h.stdout, h.forwardDiag)
}
