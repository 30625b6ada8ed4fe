package session

import (
	"os"
	"strings"
)

// writeScript writes the assembled statement sequence as a replayable
// gnuplot script. The sequence already excludes process-only
// bookkeeping (sentinel prints, error probes live below this layer).
func (s *Session) writeScript(path string, stmts []Statement) error {
	var b strings.Builder
	b.WriteString("# gnuplot script generated by gpdrive\n")
	b.WriteString("# session: " + s.Name + "\n\n")
	for _, st := range stmts {
		b.WriteString(st.Text)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Export writes the current staged entries to a script file without
// sending anything to the engine.
func (s *Session) Export(path string, opts DumpOptions) error {
	return s.writeScript(path, s.Assemble(opts))
}
