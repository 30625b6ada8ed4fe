// Package dataset converts in-memory columnar data into the two wire
// forms the engine accepts: an inline named text block, or a binary
// temp file referenced by a descriptor string in the plot statement.
package dataset

import (
	"fmt"
	"strings"
)

// previewRows is how many leading rows a Text dataset keeps for
// inspection and logging.
const previewRows = 4

// DefaultTextThreshold is the element count below which data is sent
// inline as text rather than written to a binary temp file.
const DefaultTextThreshold = 10_000

// Dataset is the tagged union of the two encodings.
type Dataset interface {
	isDataset()
}

// Text is a small or non-numeric dataset sent inline.
type Text struct {
	// Preview holds the first few rendered rows.
	Preview []string
	// Body holds all rendered rows, newline separated, without the
	// heredoc wrapper.
	Body string
}

func (*Text) isDataset() {}

// Block renders the named inline data block:
//
//	$name << EOD
//	<rows>
//	EOD
func (t *Text) Block(name string) string {
	return "$" + name + " << EOD\n" + t.Body + "\nEOD"
}

// Binary is a large numeric dataset written once to a temp file.
// The file is exclusively owned by the session that created it and is
// deleted on session reset, quit, or crash cleanup.
type Binary struct {
	// Path is the temp file holding little-endian float64 records.
	Path string
	// Descriptor is the source term embedded in the plot statement; it
	// carries the count/shape/format so the engine can parse the file
	// without a header.
	Descriptor string
}

func (*Binary) isDataset() {}

// Source returns the plot-statement source term for a dataset staged
// under name: the named block for text, the file descriptor for binary.
func Source(d Dataset, name string) string {
	switch v := d.(type) {
	case *Text:
		return "$" + name
	case *Binary:
		return v.Descriptor
	default:
		return ""
	}
}

// ShapeError means the supplied columns have incompatible shapes. It is
// raised before any bytes are sent to the engine.
type ShapeError struct {
	Lengths []int
}

func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Lengths))
	for i, n := range e.Lengths {
		parts[i] = fmt.Sprint(n)
	}
	return "column lengths do not match: " + strings.Join(parts, ", ")
}
