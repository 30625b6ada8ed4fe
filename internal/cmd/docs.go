package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed protocol.md
var protocolDoc string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Explain the sentinel protocol and data encodings",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			// Fall back to the raw markdown.
			fmt.Fprint(cmd.OutOrStdout(), protocolDoc)
			return nil
		}
		out, err := r.Render(protocolDoc)
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), protocolDoc)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
