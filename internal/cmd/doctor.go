package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plotworks/gpdrive/internal/gnuplot"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the engine installation and driver environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := false

		path, err := exec.LookPath(cfg.Engine.Path)
		if err != nil {
			fmt.Fprintf(out, "FAIL engine binary: %s not found in PATH\n", cfg.Engine.Path)
			return fmt.Errorf("engine binary missing")
		}
		fmt.Fprintf(out, "ok   engine binary: %s\n", path)

		version, err := gnuplot.EngineVersion(cfg.Engine.Path)
		if err != nil {
			fmt.Fprintf(out, "FAIL engine version: %v\n", err)
			failed = true
		} else {
			fmt.Fprintf(out, "ok   engine version: %s\n", version)
		}

		if err := gnuplot.CheckEngine(cfg.Engine.Path, cfg.Engine.MinVersion); err != nil {
			fmt.Fprintf(out, "FAIL version gate: %v\n", err)
			failed = true
		} else {
			min := cfg.Engine.MinVersion
			if min == "" {
				min = gnuplot.MinEngineVersion
			}
			fmt.Fprintf(out, "ok   version gate: >= %s\n", min)
		}

		tempRoot := cfg.Data.TempDir
		if tempRoot == "" {
			tempRoot = filepath.Join(os.TempDir(), "gpdrive")
		}
		if dirs, err := os.ReadDir(tempRoot); err == nil {
			n := 0
			for _, d := range dirs {
				if d.IsDir() {
					n++
				}
			}
			fmt.Fprintf(out, "ok   temp root: %s (%d session dirs)\n", tempRoot, n)
		} else {
			fmt.Fprintf(out, "ok   temp root: %s (empty)\n", tempRoot)
		}

		if failed {
			return fmt.Errorf("doctor found problems")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
