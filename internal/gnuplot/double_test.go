package gnuplot

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// fakeEngine emulates the engine over in-memory pipes: it echoes
// sentinel prints, answers the error probes from scripted state, and
// replies to known statements. Protocol behavior is exercised without
// a real subprocess.
type fakeEngine struct {
	stdin *io.PipeReader // what the handle writes
	out   *io.PipeWriter // what the engine prints

	mu      sync.Mutex
	replies map[string][]string
	errno   string
	errmsg  string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeEngine wires a synthetic handle to a scripted engine.
func newFakeEngine(t *testing.T) (*Handle, *fakeEngine) {
	t.Helper()
	stdinR, stdinW := io.Pipe()
	outR, outW := io.Pipe()
	e := &fakeEngine{
		stdin:   stdinR,
		out:     outW,
		replies: make(map[string][]string),
		errno:   "0",
	}
	h := newHandle("fake-session", stdinW, outR, nil, discardLogger())
	go e.run()
	t.Cleanup(func() { _, _ = h.Terminate() })
	return h, e
}

// reply scripts the lines printed in response to a statement.
func (e *fakeEngine) reply(stmt string, lines ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replies[stmt] = lines
}

// setError scripts the engine's error state. run also sets it for any
// unrecognized statement, the way a real engine reacts to a bogus
// command.
func (e *fakeEngine) setError(errno, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errno, e.errmsg = errno, msg
}

func (e *fakeEngine) state() (string, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errno, e.errmsg
}

func (e *fakeEngine) run() {
	defer e.out.Close()
	sc := bufio.NewScanner(e.stdin)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			// pager acknowledgement keystroke
		case line == errnoProbe:
			errno, _ := e.state()
			e.println(errno)
		case line == errmsgProbe:
			_, msg := e.state()
			e.println(msg)
		case line == clearErrorsCmd:
			e.setError("0", "")
		case line == "die":
			// Simulates an engine crash: output closes mid-transaction.
			return
		case strings.HasPrefix(line, "print '") && strings.HasSuffix(line, "'"):
			e.println(strings.TrimSuffix(strings.TrimPrefix(line, "print '"), "'"))
		default:
			e.mu.Lock()
			lines, ok := e.replies[line]
			e.mu.Unlock()
			if !ok {
				e.setError("8", "invalid command")
				continue
			}
			for _, l := range lines {
				e.println(l)
			}
		}
	}
}

func (e *fakeEngine) println(s string) {
	_, _ = io.WriteString(e.out, s+"\n")
}
