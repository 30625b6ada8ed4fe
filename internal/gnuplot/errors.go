package gnuplot

import "fmt"

// SpawnError means the engine binary is missing, too old, or failed to
// start. The session never becomes usable.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TerminatedError means the engine process exited or its pipe closed
// while a call was outstanding. The session is unusable afterwards.
type TerminatedError struct {
	Session string
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("session %s: engine process terminated", e.Session)
}

// EngineError is a runtime error the engine itself reported for one
// statement. The driver clears the engine's error state before raising
// it, so the session stays usable.
type EngineError struct {
	Statement string
	Errno     string
	Message   string
}

func (e *EngineError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("engine error %s: %s (statement: %s)", e.Errno, e.Message, e.Statement)
	}
	return fmt.Sprintf("engine error %s (statement: %s)", e.Errno, e.Statement)
}
