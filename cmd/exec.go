package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

var execCmd = &cobra.Command{
	Use:   "exec <sql>",
	Short: "Run one statement and print the formatted result",
	Long: `exec runs a statement against the configured database exactly as written and
prints the result the way the chat renders it. Nothing is filtered: write statements
are executed too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDatabase(); err != nil {
			return err
		}
		c := newComponents()
		st := withDatabase(session.NewState(defaultOptions()))
		pterm.Println(c.service.Execute(cmd.Context(), st, strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
