package gnuplot

import "strings"

// Engine-specific error probes. GPVAL_ERRNO is "0" while the engine is
// healthy; after a failed statement it holds the error code and
// GPVAL_ERRMSG the message. `reset errors` clears both so the session
// can keep accepting input.
const (
	errnoProbe     = "print GPVAL_ERRNO"
	errmsgProbe    = "print GPVAL_ERRMSG"
	clearErrorsCmd = "reset errors"
	noErrorValue   = "0"
)

// Executor layers error checking on top of the handle's capture
// primitive. Every statement the driver sends to the engine, including
// internal bookkeeping like "reset", goes through Execute so a
// malformed statement surfaces immediately instead of silently
// corrupting later state.
type Executor struct {
	handle *Handle
}

// NewExecutor wraps a handle.
func NewExecutor(h *Handle) *Executor {
	return &Executor{handle: h}
}

// Handle returns the underlying process handle.
func (e *Executor) Handle() *Handle { return e.handle }

// Alive reports whether the engine process is still usable.
func (e *Executor) Alive() bool { return e.handle.Alive() }

// Terminate shuts down the engine process and returns its exit status.
func (e *Executor) Terminate() (int, error) { return e.handle.Terminate() }

// Pid returns the engine process id, or 0 for a synthetic handle.
func (e *Executor) Pid() int { return e.handle.Pid() }

// Execute sends one statement (multi-line input is joined with the
// engine's ';' separator first), captures its reply, then probes the
// engine's error state. A reported error is cleared engine-side and
// returned as *EngineError; the session remains usable.
func (e *Executor) Execute(text string) (string, error) {
	return e.run(JoinStatements(text))
}

// ExecuteData sends a multi-line block (an inline dataset) verbatim,
// with the same error check afterwards. Blocks must not be joined with
// ';' because the engine reads their rows line-by-line.
func (e *Executor) ExecuteData(block string) error {
	_, err := e.run(block)
	return err
}

func (e *Executor) run(text string) (string, error) {
	reply, err := e.handle.SendAndCapture(text)
	if err != nil {
		return "", err
	}

	errno, err := e.handle.SendAndCapture(errnoProbe)
	if err != nil {
		return "", err
	}
	errno = strings.TrimSpace(errno)
	if errno == "" || errno == noErrorValue {
		return reply, nil
	}

	msg, err := e.handle.SendAndCapture(errmsgProbe)
	if err != nil {
		return "", err
	}
	if _, err := e.handle.SendAndCapture(clearErrorsCmd); err != nil {
		return "", err
	}
	return "", &EngineError{
		Statement: text,
		Errno:     errno,
		Message:   strings.TrimSpace(msg),
	}
}

// JoinStatements collapses a multi-line command into a single line
// using the engine's statement separator. Blank lines are dropped.
func JoinStatements(text string) string {
	if !strings.Contains(text, "\n") {
		return text
	}
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "; ")
}
