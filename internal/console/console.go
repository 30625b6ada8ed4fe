// Package console renders the engine's unsolicited diagnostic lines.
// The reader task only classifies and forwards; all rendering policy
// (color, verbosity, drop) lives here, in a consumer running on its own
// goroutine.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/plotworks/gpdrive/internal/gnuplot"
)

// Color palette
var (
	colorMuted = lipgloss.Color("242") // gray
	colorError = lipgloss.Color("196") // bright red
)

var (
	chatterStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// Printer consumes a handle's diagnostic channel and echoes lines to a
// writer. With Verbose off everything is dropped; protocol correctness
// never depends on anyone consuming diagnostics.
type Printer struct {
	Out     io.Writer
	Verbose bool

	color bool
	wg    sync.WaitGroup
}

// NewPrinter returns a printer writing to out (stderr when nil), with
// color enabled only when out is a terminal.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	if out == nil {
		out = os.Stderr
	}
	p := &Printer{Out: out, Verbose: verbose}
	if f, ok := out.(*os.File); ok {
		p.color = term.IsTerminal(int(f.Fd())) &&
			termenv.NewOutput(f).ColorProfile() != termenv.Ascii
	}
	return p
}

// Watch consumes diagnostics from ch until it closes.
func (p *Printer) Watch(ch <-chan gnuplot.Diagnostic) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for d := range ch {
			p.echo(d.Line)
		}
	}()
}

// Wait blocks until every watched channel has closed.
func (p *Printer) Wait() { p.wg.Wait() }

func (p *Printer) echo(line string) {
	if !p.Verbose {
		return
	}
	if !p.color {
		fmt.Fprintln(p.Out, line)
		return
	}
	style := chatterStyle
	lower := strings.ToLower(line)
	if strings.Contains(lower, "error") || strings.Contains(lower, "warning") {
		style = errorStyle
	}
	fmt.Fprintln(p.Out, style.Render(line))
}
