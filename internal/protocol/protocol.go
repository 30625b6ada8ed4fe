// Package protocol defines the sentinel framing used to delimit one
// command's reply on the engine's otherwise free-form output stream.
//
// The engine has no out-of-band framing: replies, warnings, and pager
// prompts all arrive interleaved on the same text stream. The driver
// brackets each command with two marker lines that it asks the engine to
// print back verbatim. Everything between the markers belongs to that
// command's reply; everything outside is unsolicited diagnostics.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// BeginMarker is the literal line that opens a capture window.
	BeginMarker = "GPDRIVE_BEGIN"

	// endMarkerPrefix opens the closing line. The full end marker carries
	// a capture id ("GPDRIVE_END 7") so a marker re-issued after a pager
	// interruption can be told apart from the original.
	endMarkerPrefix = "GPDRIVE_END"

	// PagerPrompt is the token the engine prints, without a trailing
	// newline, when its built-in pager blocks waiting for a keystroke.
	PagerPrompt = "Press return for more:"
)

// PrintBegin returns the engine statement that echoes the begin marker.
func PrintBegin() string {
	return "print '" + BeginMarker + "'"
}

// PrintEnd returns the engine statement that echoes the end marker for
// the given capture id.
func PrintEnd(id uint64) string {
	return fmt.Sprintf("print '%s %d'", endMarkerPrefix, id)
}

// ParseEnd reports whether line is an end marker and, if so, its capture
// id. A bare end marker with no id (possible after the engine mangles a
// pager retry) parses as id 0, which never matches a live capture.
func ParseEnd(line string) (uint64, bool) {
	if line == endMarkerPrefix {
		return 0, true
	}
	rest, ok := strings.CutPrefix(line, endMarkerPrefix+" ")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
