package session

import (
	"fmt"
	"strings"

	"github.com/plotworks/gpdrive/internal/dataset"
)

// Statement is one element of the flattened dump sequence.
type Statement struct {
	Text string
	// Data marks an inline data block: sent verbatim line-by-line,
	// never joined with the statement separator.
	Data bool
}

// DumpOptions controls final assembly.
type DumpOptions struct {
	// Terminal and Output, when set, bracket the whole sequence with
	// terminal/output setup and teardown.
	Terminal string
	Output   string
	// ScriptPath additionally writes the assembled sequence to a file
	// for later replay. Required when dumping a dry session.
	ScriptPath string
}

// Assemble flattens the staged entries, in insertion order grouped by
// multiplot slot ascending, into the final statement sequence. It is
// pure: nothing is sent and no state changes, so a dump that fails
// mid-way can be re-assembled and inspected.
func (s *Session) Assemble(opts DumpOptions) []Statement {
	var stmts []Statement
	add := func(t string) { stmts = append(stmts, Statement{Text: t}) }

	if opts.Terminal != "" {
		add("set term push")
		add("set terminal " + opts.Terminal)
	}
	if opts.Output != "" {
		add(fmt.Sprintf("set output '%s'", opts.Output))
	}

	// Named datasets go first so every slot can reference them. Binary
	// datasets already live on disk; their descriptor appears inline in
	// the plot clauses that use them.
	for _, e := range s.entries {
		if nd, ok := e.(NamedDataset); ok {
			if t, ok := nd.Data.(*dataset.Text); ok {
				stmts = append(stmts, Statement{Text: t.Block(nd.Name), Data: true})
			}
		}
	}

	maxSlot := 0
	for _, e := range s.entries {
		if e.slot() > maxSlot {
			maxSlot = e.slot()
		}
	}
	// A single plot slot needs no multiplot bookkeeping.
	multi := maxSlot > 1

	dataSeq := 0
	emit := func(slot int) {
		for _, e := range s.entries {
			if c, ok := e.(Command); ok && c.Slot == slot {
				add(c.Text)
			}
		}
		blocks, plotStmt := s.buildPlot(slot, &dataSeq)
		if plotStmt == "" {
			if slot > 0 && multi {
				// Keep slot numbering aligned for indices with no plot.
				add("set multiplot next")
			}
			return
		}
		stmts = append(stmts, blocks...)
		add(plotStmt)
	}

	emit(0)
	for slot := 1; slot <= maxSlot; slot++ {
		emit(slot)
	}
	if multi {
		add("unset multiplot")
	}

	if opts.Output != "" {
		add("set output")
	}
	if opts.Terminal != "" {
		add("set term pop")
	}
	return stmts
}

// buildPlot joins the plot fragments staged for one slot into a single
// plot (or splot, if any fragment wants 3-D) statement. It returns the
// inline data blocks that must precede the statement.
func (s *Session) buildPlot(slot int, dataSeq *int) ([]Statement, string) {
	var (
		blocks []Statement
		frags  []string
		threeD bool
	)
	for _, e := range s.entries {
		switch c := e.(type) {
		case PlotClause:
			if c.Slot != slot {
				continue
			}
			frags = append(frags, c.Text)
			threeD = threeD || c.ThreeD
		case PlotWithData:
			if c.Slot != slot {
				continue
			}
			var src string
			switch d := c.Data.(type) {
			case *dataset.Text:
				name := fmt.Sprintf("gpdrive_d%d", *dataSeq)
				*dataSeq++
				blocks = append(blocks, Statement{Text: d.Block(name), Data: true})
				src = "$" + name
			case *dataset.Binary:
				src = d.Descriptor
			}
			frags = append(frags, strings.TrimSpace(src+" "+c.Text))
			threeD = threeD || c.ThreeD
		}
	}
	if len(frags) == 0 {
		return nil, ""
	}
	keyword := "plot"
	if threeD {
		keyword = "splot"
	}
	return blocks, keyword + " " + strings.Join(frags, ", ")
}

// Dump assembles the staged entries and executes them statement by
// statement, checking the engine's error state after each. A failing
// statement aborts the remainder; staged entries are preserved for
// inspection and export. When ScriptPath is set the sequence is also
// written out; a dry session can only be dumped to a script.
func (s *Session) Dump(opts DumpOptions) error {
	stmts := s.Assemble(opts)

	if opts.ScriptPath != "" {
		if err := s.writeScript(opts.ScriptPath, stmts); err != nil {
			return err
		}
	}
	if !s.Live() {
		if opts.ScriptPath == "" {
			return fmt.Errorf("session %s has no engine process: dump needs a script path", s.Name)
		}
		return nil
	}

	for _, st := range stmts {
		if st.Data {
			if err := s.runner.ExecuteData(st.Text); err != nil {
				return err
			}
			continue
		}
		if _, err := s.runner.Execute(st.Text); err != nil {
			return err
		}
	}
	return nil
}
