package protocol

// PagerScanner detects the pager prompt on the raw character stream.
// The prompt has no trailing newline, so line-at-a-time reading would
// block forever waiting for one; the scanner watches the bytes of the
// current partial line instead.
type PagerScanner struct {
	line []byte
}

// Feed consumes one byte and reports whether the partial line now ends
// with the pager prompt. On a hit the partial-line buffer resets so the
// same prompt is not reported twice.
func (s *PagerScanner) Feed(b byte) bool {
	if b == '\n' {
		s.line = s.line[:0]
		return false
	}
	s.line = append(s.line, b)
	if hasSuffix(s.line, PagerPrompt) {
		s.line = s.line[:0]
		return true
	}
	return false
}

func hasSuffix(b []byte, suffix string) bool {
	if len(b) < len(suffix) {
		return false
	}
	return string(b[len(b)-len(suffix):]) == suffix
}
