package session

import "github.com/plotworks/gpdrive/internal/dataset"

// Entry is one staged item in a session. Entries preserve insertion
// order; that order is the only ordering guarantee final assembly
// gives.
//
// Slot is the multiplot index. Slots are positive; slot 0 means the
// entry applies immediately, outside any multiplot slot.
type Entry interface {
	entry()
	slot() int
}

// Command is a verbatim engine statement.
type Command struct {
	Slot int
	Text string
}

func (Command) entry() {}

func (c Command) slot() int { return c.Slot }

// NamedDataset is data the caller addressed by an explicit "$name",
// independent of any multiplot slot.
type NamedDataset struct {
	Name string
	Data dataset.Dataset
}

func (NamedDataset) entry() {}

func (NamedDataset) slot() int { return 0 }

// PlotClause is a plot fragment with no attached data; it refers to a
// prior named dataset or a built-in function.
type PlotClause struct {
	Slot   int
	ThreeD bool
	Text   string
}

func (PlotClause) entry() {}

func (c PlotClause) slot() int { return c.Slot }

// PlotWithData is a plot fragment together with its own unnamed
// dataset. The assembler names the dataset when the plot statement is
// built.
type PlotWithData struct {
	Slot   int
	ThreeD bool
	Data   dataset.Dataset
	Text   string
}

func (PlotWithData) entry() {}

func (c PlotWithData) slot() int { return c.Slot }
