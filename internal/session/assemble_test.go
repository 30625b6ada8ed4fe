package session

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/plotworks/gpdrive/internal/dataset"
)

func texts(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, st := range stmts {
		out[i] = st.Text
	}
	return out
}

func stage(t *testing.T, s *Session, entries ...Entry) {
	t.Helper()
	for _, e := range entries {
		if err := s.Stage(e); err != nil {
			t.Fatalf("Stage(%v): %v", e, err)
		}
	}
}

func TestAssembleMultiplot(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s,
		Command{Text: "set multiplot layout 1,2"},
		Command{Slot: 1, Text: "set title 'left'"},
		PlotWithData{Slot: 1, Data: &dataset.Text{Body: "1 1\n2 4"}, Text: "with lines"},
		PlotClause{Slot: 2, Text: "sin(x)"},
	)

	got := texts(s.Assemble(DumpOptions{}))
	want := []string{
		"set multiplot layout 1,2",
		"set title 'left'",
		"$gpdrive_d0 << EOD\n1 1\n2 4\nEOD",
		"plot $gpdrive_d0 with lines",
		"plot sin(x)",
		"unset multiplot",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestAssembleSkipsEmptySlots(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s,
		PlotClause{Slot: 1, Text: "sin(x)"},
		PlotClause{Slot: 3, Text: "cos(x)"},
	)

	got := texts(s.Assemble(DumpOptions{}))
	want := []string{
		"plot sin(x)",
		"set multiplot next",
		"plot cos(x)",
		"unset multiplot",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestAssembleSingleSlotHasNoMultiplotBookkeeping(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s, PlotClause{Slot: 1, Text: "sin(x)"})

	got := texts(s.Assemble(DumpOptions{}))
	want := []string{"plot sin(x)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestAssembleJoinsClausesIntoOnePlot(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s,
		PlotClause{Slot: 1, Text: "sin(x) title 'sine'"},
		PlotClause{Slot: 1, Text: "cos(x) title 'cosine'"},
	)

	got := texts(s.Assemble(DumpOptions{}))
	want := []string{"plot sin(x) title 'sine', cos(x) title 'cosine'"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestAssembleSplot(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s,
		PlotClause{Slot: 1, Text: "x*y"},
		PlotClause{Slot: 1, ThreeD: true, Text: "x**2+y**2"},
	)

	got := texts(s.Assemble(DumpOptions{}))
	if len(got) != 1 || !strings.HasPrefix(got[0], "splot ") {
		t.Fatalf("statements = %q, want one splot", got)
	}
}

func TestAssembleBinaryDescriptorInline(t *testing.T) {
	s := newTestSession(t, nil)
	bin := &dataset.Binary{
		Path:       "/tmp/x.bin",
		Descriptor: "'/tmp/x.bin' binary record=2 format='%double%double' endian=little",
	}
	stage(t, s, PlotWithData{Slot: 1, Data: bin, Text: "with points"})

	got := texts(s.Assemble(DumpOptions{}))
	want := []string{"plot " + bin.Descriptor + " with points"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestAssembleNamedDatasetsComeFirst(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s,
		PlotClause{Slot: 1, Text: "$pts with lines"},
		NamedDataset{Name: "pts", Data: &dataset.Text{Body: "1 2"}},
	)

	got := texts(s.Assemble(DumpOptions{}))
	want := []string{
		"$pts << EOD\n1 2\nEOD",
		"plot $pts with lines",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestAssembleTerminalBracketing(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s, PlotClause{Slot: 1, Text: "sin(x)"})

	got := texts(s.Assemble(DumpOptions{Terminal: "pngcairo size 800,600", Output: "out.png"}))
	want := []string{
		"set term push",
		"set terminal pngcairo size 800,600",
		"set output 'out.png'",
		"plot sin(x)",
		"set output",
		"set term pop",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
}

func TestDumpExecutesAssembledSequence(t *testing.T) {
	r := newFakeRunner()
	s := newTestSession(t, r)
	stage(t, s,
		NamedDataset{Name: "pts", Data: &dataset.Text{Body: "1 2"}},
		PlotClause{Slot: 1, Text: "$pts with lines"},
	)

	r.stmts, r.blocks = nil, nil
	if err := s.Dump(DumpOptions{}); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if len(r.blocks) != 1 || !strings.HasPrefix(r.blocks[0], "$pts << EOD") {
		t.Fatalf("data blocks = %q", r.blocks)
	}
	if len(r.stmts) != 1 || r.stmts[0] != "plot $pts with lines" {
		t.Fatalf("statements = %q", r.stmts)
	}
}

func TestDumpAbortsOnFailingStatement(t *testing.T) {
	r := newFakeRunner()
	s := newTestSession(t, r)
	stage(t, s,
		PlotClause{Slot: 1, Text: "bogus("},
		PlotClause{Slot: 2, Text: "sin(x)"},
	)
	r.failOn = "plot bogus("

	if err := s.Dump(DumpOptions{}); err == nil {
		t.Fatal("expected dump error")
	}
	for _, st := range r.stmts {
		if st == "plot sin(x)" {
			t.Fatal("dump continued past failing statement")
		}
	}
	// Entries survive a failed dump for inspection and export.
	if len(s.Entries()) != 2 {
		t.Fatalf("entries = %d, want 2", len(s.Entries()))
	}
}

func TestDumpDrySessionNeedsScriptPath(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s, PlotClause{Slot: 1, Text: "sin(x)"})

	if err := s.Dump(DumpOptions{}); err == nil {
		t.Fatal("dry dump without script path should fail")
	}

	path := filepath.Join(t.TempDir(), "out.gp")
	if err := s.Dump(DumpOptions{ScriptPath: path}); err != nil {
		t.Fatalf("dry dump to script: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(raw), "plot sin(x)") {
		t.Fatalf("script = %q", raw)
	}
}

func TestExportWritesReplayableScript(t *testing.T) {
	s := newTestSession(t, nil)
	stage(t, s,
		Command{Text: "set grid"},
		PlotClause{Slot: 1, Text: "sin(x)"},
	)

	path := filepath.Join(t.TempDir(), "plot.gp")
	if err := s.Export(path, DumpOptions{}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	lines := strings.Split(string(raw), "\n")
	if !strings.HasPrefix(lines[0], "# gnuplot script generated by gpdrive") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(string(raw), "set grid\nplot sin(x)\n") {
		t.Fatalf("script = %q", raw)
	}
}
