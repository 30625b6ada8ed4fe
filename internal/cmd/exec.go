package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <statement>...",
	Short: "Execute one statement and print its reply",
	Long: `Exec spawns an engine process, executes the given statements in order,
prints each reply, and shuts the engine down. Engine-reported errors
stop the sequence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry(false)
		defer func() { _ = reg.QuitAll() }()

		sess, err := reg.Get("exec")
		if err != nil {
			return err
		}
		for _, stmt := range args {
			reply, err := sess.Execute(stmt)
			if err != nil {
				return err
			}
			if reply != "" {
				fmt.Fprintln(cmd.OutOrStdout(), reply)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
