package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
)

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List the databases visible to the configured credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := newComponents().service.ListDatabases(cmd.Context(), cfg.Database)
		if list.Error != "" {
			return errors.New(list.Error)
		}
		if len(list.Names) == 0 {
			pterm.Warning.Println("Aucune base de données trouvée")
			return nil
		}

		items := make([]pterm.BulletListItem, 0, len(list.Names))
		for _, name := range list.Names {
			items = append(items, pterm.BulletListItem{Level: 0, Text: name})
		}
		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the selectable models",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := pterm.TableData{{"Modèle", ""}}
		for _, name := range llm.Models {
			marker := ""
			if name == cfg.LLM.Model {
				marker = "actif"
			}
			data = append(data, []string{name, marker})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(databasesCmd)
	rootCmd.AddCommand(modelsCmd)
}
