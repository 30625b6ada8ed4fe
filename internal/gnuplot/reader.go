package gnuplot

import (
	"bufio"
	"io"
	"strings"

	"github.com/plotworks/gpdrive/internal/protocol"
)

// readLoop is the reader task: one long-running goroutine per handle,
// started at spawn, running until the engine's output stream closes.
//
// It reads the stream byte-wise rather than line-wise because the pager
// prompt arrives with no trailing newline; a line scanner would block on
// it forever. Complete lines are classified through the capture state
// machine; everything outside a capture window goes to the diagnostic
// channel.
func (h *Handle) readLoop() {
	defer close(h.readerDone)
	// Closing the capture channel is the completion token of last
	// resort: it unblocks any waiter after the process dies.
	defer close(h.capture)
	defer h.dead.Store(true)

	br := bufio.NewReader(h.stderr)
	var (
		pager protocol.PagerScanner
		line  []byte
		win   *protocol.Capture
	)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				h.log.Debug("engine stream read failed", "session", h.ID, "err", err)
			}
			return
		}

		if pager.Feed(b) {
			// The pager blocked mid-output and may have swallowed our end
			// marker. Answer with a keystroke and re-issue the marker with
			// the same capture id; the original, if it still shows up,
			// classifies as stale and is discarded.
			if win != nil {
				win.PagerInterrupt()
				_ = h.writeRaw("\n")
				_ = h.writeRaw(protocol.PrintEnd(win.ID()) + "\n")
				h.log.Debug("pager interrupt, end marker re-issued",
					"session", h.ID, "capture", win.ID(), "retries", win.PagerRetries())
			} else {
				_ = h.writeRaw("\n")
			}
			line = line[:0]
			continue
		}

		if b != '\n' {
			line = append(line, b)
			continue
		}
		text := strings.TrimSuffix(string(line), "\r")
		line = line[:0]
		win = h.classifyLine(win, text)
	}
}

// classifyLine routes one complete line. It returns the capture window
// that is live after this line (nil when idle).
func (h *Handle) classifyLine(win *protocol.Capture, text string) *protocol.Capture {
	if win == nil {
		// No transaction outstanding. A begin marker only opens a window
		// when a SendAndCapture is actually waiting; anything else on the
		// stream is engine chatter.
		if text == protocol.BeginMarker && h.inFlight.Load() {
			win = protocol.NewCapture(h.currentID.Load())
			win.Observe(text)
			return win
		}
		if id, ok := protocol.ParseEnd(text); ok {
			// Protocol desync: a stale end marker from an earlier pager
			// retry. Harmless, logged, dropped.
			h.log.Debug("stale end marker outside window", "session", h.ID, "id", id)
			return nil
		}
		if text != "" {
			h.forwardDiag(text)
		}
		return nil
	}

	switch win.Observe(text) {
	case protocol.EventPayload:
		h.capture <- captureMsg{line: text}
	case protocol.EventDone:
		h.capture <- captureMsg{done: true}
		return nil
	case protocol.EventStaleEnd:
		h.log.Debug("stale end marker inside window",
			"session", h.ID, "line", text, "want", win.ID())
	case protocol.EventNoise:
		if text != "" {
			h.forwardDiag(text)
		}
	}
	return win
}

// forwardDiag hands a line to the diagnostic channel without ever
// blocking the reader. Diagnostics are advisory; drop on backpressure.
func (h *Handle) forwardDiag(text string) {
	select {
	case h.diag <- Diagnostic{Line: text}:
	default:
	}
}

// forwardLines reads r line-by-line until EOF, passing each non-empty
// line to emit.
func forwardLines(r io.Reader, emit func(string)) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			emit(line)
		}
	}
}
