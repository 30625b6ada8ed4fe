package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotworks/gpdrive/internal/gnuplot"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print driver and engine versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "gpdrive %s\n", Version)
		if v, err := gnuplot.EngineVersion(cfg.Engine.Path); err == nil {
			fmt.Fprintf(out, "%s %s\n", cfg.Engine.Path, v)
		} else {
			fmt.Fprintf(out, "%s: not available (%v)\n", cfg.Engine.Path, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
