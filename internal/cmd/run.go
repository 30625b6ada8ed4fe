package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plotworks/gpdrive/internal/dataset"
	"github.com/plotworks/gpdrive/internal/gnuplot"
	"github.com/plotworks/gpdrive/internal/session"
)

var (
	runSession string
	runExport  string
	runDry     bool
	runTerm    string
	runOutput  string
)

var runCmd = &cobra.Command{
	Use:   "run <script.gp>",
	Short: "Execute a gnuplot script through the driver",
	Long: `Run sends a gnuplot script through the driver statement by statement,
checking the engine's error state after each one. Inline data blocks
($name << EOD ... EOD) are staged as named datasets. A failing statement
aborts the run and reports its line number.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		reg := newRegistry(runDry)
		defer func() { _ = reg.QuitAll() }()

		sess, err := reg.Get(runSession)
		if err != nil {
			return err
		}

		for _, it := range parseScript(string(src)) {
			var stageErr error
			if it.dataName != "" {
				stageErr = sess.Stage(session.NamedDataset{
					Name: it.dataName,
					Data: &dataset.Text{Body: it.text},
				})
			} else {
				stageErr = sess.Stage(session.Command{Text: it.text})
			}
			if stageErr != nil {
				var ee *gnuplot.EngineError
				if errors.As(stageErr, &ee) {
					return fmt.Errorf("%s:%d: %s", args[0], it.line, ee.Message)
				}
				return stageErr
			}
		}

		if runExport != "" {
			return sess.Export(runExport, session.DumpOptions{
				Terminal: runTerm,
				Output:   runOutput,
			})
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runSession, "session", "s", "main", "session name")
	runCmd.Flags().StringVar(&runExport, "export", "", "also write the staged script to this path")
	runCmd.Flags().BoolVar(&runDry, "dry", false, "stage without spawning an engine process")
	runCmd.Flags().StringVar(&runTerm, "terminal", "", "bracket output with this terminal")
	runCmd.Flags().StringVar(&runOutput, "output", "", "bracket output with this destination file")
	rootCmd.AddCommand(runCmd)
}

// scriptItem is one parsed statement or inline data block.
type scriptItem struct {
	line     int
	text     string
	dataName string // non-empty marks a data block; text holds the rows
}

// parseScript splits a gnuplot script into statements and inline data
// blocks. Comments and blank lines are dropped.
func parseScript(src string) []scriptItem {
	var items []scriptItem
	lines := strings.Split(src, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(strings.TrimRight(lines[i], "\r"))
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, ok := parseHeredoc(trimmed); ok {
			start := i + 1
			var rows []string
			for i++; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "EOD" {
					break
				}
				rows = append(rows, strings.TrimRight(lines[i], "\r"))
			}
			items = append(items, scriptItem{
				line:     start,
				text:     strings.Join(rows, "\n"),
				dataName: name,
			})
			continue
		}
		items = append(items, scriptItem{line: i + 1, text: trimmed})
	}
	return items
}

// parseHeredoc matches the "$name << EOD" block opener.
func parseHeredoc(line string) (string, bool) {
	if !strings.HasPrefix(line, "$") {
		return "", false
	}
	fields := strings.Fields(strings.TrimPrefix(line, "$"))
	if len(fields) == 3 && fields[1] == "<<" && fields[2] == "EOD" {
		return fields[0], true
	}
	return "", false
}
