package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Options controls the encoding decision.
type Options struct {
	// PreferText forces the inline text form regardless of size.
	PreferText bool
	// TextThreshold overrides DefaultTextThreshold when positive.
	TextThreshold int
	// TempDir is where binary temp files are written. Defaults to the
	// OS temp directory.
	TempDir string
}

func (o Options) threshold() int {
	if o.TextThreshold > 0 {
		return o.TextThreshold
	}
	return DefaultTextThreshold
}

// Encode converts columns into a Dataset. Accepted column types:
// []float64, []int, []string, and a single [][]float64 matrix.
//
// Policy: text when explicitly preferred, or when the data is small and
// not a lone numeric matrix; binary otherwise. A binary attempt over
// non-numeric columns falls back to text instead of failing.
func Encode(opts Options, cols ...any) (Dataset, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns supplied")
	}

	if m, ok := matrixInput(cols); ok {
		return encodeMatrix(opts, m)
	}

	rows, err := checkColumns(cols)
	if err != nil {
		return nil, err
	}

	elements := rows * len(cols)
	if opts.PreferText || elements < opts.threshold() || !allNumeric(cols) {
		return encodeText(cols, rows)
	}
	return encodeBinaryColumns(opts, cols, rows)
}

// matrixInput reports whether the input is exactly one 2-D numeric
// matrix.
func matrixInput(cols []any) ([][]float64, bool) {
	if len(cols) != 1 {
		return nil, false
	}
	m, ok := cols[0].([][]float64)
	return m, ok
}

// checkColumns validates column types and the co-indexing rule: every
// column must have the same number of rows.
func checkColumns(cols []any) (int, error) {
	lengths := make([]int, len(cols))
	for i, c := range cols {
		switch v := c.(type) {
		case []float64:
			lengths[i] = len(v)
		case []int:
			lengths[i] = len(v)
		case []string:
			lengths[i] = len(v)
		default:
			return 0, fmt.Errorf("unsupported column type %T", c)
		}
	}
	for _, n := range lengths[1:] {
		if n != lengths[0] {
			return 0, &ShapeError{Lengths: lengths}
		}
	}
	return lengths[0], nil
}

func allNumeric(cols []any) bool {
	for _, c := range cols {
		switch c.(type) {
		case []float64, []int:
		default:
			return false
		}
	}
	return true
}

// encodeText renders co-indexed columns row-major, one row per line.
// Floats keep full precision, strings are quoted, NaN renders as the
// engine's missing-value token.
func encodeText(cols []any, rows int) (*Text, error) {
	var b strings.Builder
	var preview []string
	for i := 0; i < rows; i++ {
		fields := make([]string, len(cols))
		for j, c := range cols {
			switch v := c.(type) {
			case []float64:
				fields[j] = formatFloat(v[i])
			case []int:
				fields[j] = strconv.Itoa(v[i])
			case []string:
				fields[j] = strconv.Quote(v[i])
			}
		}
		row := strings.Join(fields, " ")
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(row)
		if i < previewRows {
			preview = append(preview, row)
		}
	}
	return &Text{Preview: preview, Body: b.String()}, nil
}

// encodeMatrix handles the single 2-D matrix case: text grid form with
// a blank separator line whenever the outer index advances, or a binary
// array file for large matrices.
func encodeMatrix(opts Options, m [][]float64) (Dataset, error) {
	rows := len(m)
	if rows == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	cols := len(m[0])
	lengths := make([]int, rows)
	for i, r := range m {
		lengths[i] = len(r)
		if len(r) != cols {
			return nil, &ShapeError{Lengths: lengths[:i+1]}
		}
	}

	if opts.PreferText {
		return matrixText(m), nil
	}
	return encodeBinaryMatrix(opts, m, rows, cols)
}

// matrixText renders grid data: one element per line, scanlines
// separated by a blank line so the engine recognizes grid boundaries
// for surface and image plotting.
func matrixText(m [][]float64) *Text {
	var b strings.Builder
	var preview []string
	for i, row := range m {
		if i > 0 {
			b.WriteString("\n\n")
		}
		for j, v := range row {
			if j > 0 {
				b.WriteByte('\n')
			}
			s := formatFloat(v)
			b.WriteString(s)
			if len(preview) < previewRows {
				preview = append(preview, s)
			}
		}
	}
	return &Text{Preview: preview, Body: b.String()}
}

// encodeBinaryColumns writes co-indexed numeric columns as row-major
// little-endian float64 records.
func encodeBinaryColumns(opts Options, cols []any, rows int) (Dataset, error) {
	record := make([]float64, len(cols))
	path, err := writeBinary(opts, rows, func(w func(float64) error, i int) error {
		for j, c := range cols {
			switch v := c.(type) {
			case []float64:
				record[j] = v[i]
			case []int:
				record[j] = float64(v[i])
			default:
				// Mixed non-numeric input in what looked like a matrix;
				// callers catch this and fall back to text.
				return fmt.Errorf("non-numeric column %T", c)
			}
		}
		for _, f := range record {
			if err := w(f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return encodeText(cols, rows)
	}
	descriptor := fmt.Sprintf("'%s' binary record=%d format='%s' endian=little",
		path, rows, strings.Repeat("%double", len(cols)))
	return &Binary{Path: path, Descriptor: descriptor}, nil
}

// encodeBinaryMatrix writes a matrix row-major as a headerless binary
// array; the descriptor carries the shape.
func encodeBinaryMatrix(opts Options, m [][]float64, rows, cols int) (Dataset, error) {
	path, err := writeBinary(opts, rows, func(w func(float64) error, i int) error {
		for _, f := range m[i] {
			if err := w(f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return matrixText(m), nil
	}
	descriptor := fmt.Sprintf("'%s' binary array=(%d,%d) format='%%double' endian=little",
		path, cols, rows)
	return &Binary{Path: path, Descriptor: descriptor}, nil
}

// writeBinary streams rows of float64 values into a fresh temp file.
// On any error the partial file is removed.
func writeBinary(opts Options, rows int, emitRow func(w func(float64) error, i int) error) (string, error) {
	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "gpdrive-"+uuid.NewString()+".bin")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	bw := bufio.NewWriter(f)

	buf := make([]byte, 8)
	write := func(v float64) error {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		_, werr := bw.Write(buf)
		return werr
	}
	for i := 0; i < rows; i++ {
		if err := emitRow(write, i); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// formatFloat renders full precision; NaN becomes the engine's
// missing-value token.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
