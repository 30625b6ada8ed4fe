package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotworks/gpdrive/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List session temp directories and their engine state",
	Long: `Sessions lists the per-session temp directories under the driver's temp
root: each holds a session's binary dataset files and, for sessions with
a live engine, a pid file. Directories whose engine has died are removed
automatically by the orphan sweep on the next invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := session.Scan(cfg.Data.TempDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			fmt.Fprintln(out, "no sessions")
			return nil
		}
		for _, in := range infos {
			switch {
			case in.Pid == 0:
				fmt.Fprintf(out, "%s  dry\n", in.ID)
			case in.Alive:
				fmt.Fprintf(out, "%s  engine pid %d\n", in.ID, in.Pid)
			default:
				fmt.Fprintf(out, "%s  engine pid %d (dead, pending sweep)\n", in.ID, in.Pid)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
