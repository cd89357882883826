package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

var errNoDatabase = errors.New("no database selected: set DB_HOST, DB_USER and DB_NAME or pass --host, --user and --database")

var schemaRich bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema of the configured database",
	Long: `schema prints the compact schema text handed to the model. With --rich it prints
the markdown structure view with one table per database table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDatabase(); err != nil {
			return err
		}
		c := newComponents()
		st := session.NewState(defaultOptions())
		if schemaRich {
			pterm.Println(c.service.Structure(cmd.Context(), withDatabase(st)))
			return nil
		}
		_, text := c.service.SelectDatabase(cmd.Context(), st, cfg.Database)
		pterm.Println(text)
		return nil
	},
}

func withDatabase(st session.State) session.State {
	st.Database = cfg.Database
	return st
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaRich, "rich", false, "Render the markdown structure view")
	rootCmd.AddCommand(schemaCmd)
}
