package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winglish-nk/Winglish-bot/internal/content"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage drill items",
}

var itemsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import words and questions from a JSON or YAML file",
	Long: "Import items from a JSON or YAML file holding a list of items (or an\n" +
		"object with an \"items\" list). Existing items with the same id are\n" +
		"replaced. Items without a kind are vocabulary cards.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		items, err := content.Decode(f, content.FormatOf(args[0]))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		n, err := e.store.ItemRepo().Upsert(ctx, items)
		if err != nil {
			return fmt.Errorf("import items: %w", err)
		}
		fmt.Printf("Imported %d items.\n", n)

		if notebook, _ := cmd.Flags().GetString("notebook"); notebook != "" {
			ids := make([]string, len(items))
			for i, it := range items {
				ids[i] = it.ID
			}
			if err := e.store.NotebookRepo().Add(ctx, notebook, ids...); err != nil {
				return fmt.Errorf("add to notebook: %w", err)
			}
			fmt.Printf("Added to notebook %s.\n", notebook)
		}
		return nil
	},
}

var itemsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count stored items by kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		for _, k := range []content.Kind{content.KindCard, content.KindChoice, content.KindFreeText} {
			n, err := e.store.ItemRepo().Count(cmd.Context(), k)
			if err != nil {
				return fmt.Errorf("count items: %w", err)
			}
			fmt.Printf("%-10s %d\n", k, n)
		}
		return nil
	},
}

func init() {
	itemsImportCmd.Flags().String("notebook", "", "Also add the imported items to this notebook id")

	itemsCmd.AddCommand(itemsImportCmd)
	itemsCmd.AddCommand(itemsCountCmd)
}
