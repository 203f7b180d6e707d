package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Manage word notebooks",
}

var notebookCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a notebook (or show the existing one with that name)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		desc, _ := cmd.Flags().GetString("description")
		nb, err := e.store.NotebookRepo().Create(cmd.Context(), e.cfg.User, args[0], desc)
		if err != nil {
			return fmt.Errorf("create notebook: %w", err)
		}
		fmt.Printf("%s  %s\n", nb.ID, nb.Name)
		return nil
	},
}

var notebookAddCmd = &cobra.Command{
	Use:   "add <notebook-id> <item-id>...",
	Short: "Add items to a notebook",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.NotebookRepo().Add(cmd.Context(), args[0], args[1:]...); err != nil {
			return fmt.Errorf("add to notebook: %w", err)
		}
		fmt.Printf("Added %d items.\n", len(args)-1)
		return nil
	},
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notebooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		nbs, err := e.store.NotebookRepo().List(cmd.Context(), e.cfg.User)
		if err != nil {
			return fmt.Errorf("list notebooks: %w", err)
		}
		if len(nbs) == 0 {
			fmt.Println("No notebooks yet.")
			return nil
		}
		fmt.Printf("%-24s  %-20s  %5s  %s\n", "ID", "Name", "Words", "Created")
		for _, nb := range nbs {
			fmt.Printf("%-24s  %-20s  %5d  %s\n", nb.ID, truncate(nb.Name, 20), nb.Size,
				nb.CreatedAt.In(e.loc).Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	notebookCreateCmd.Flags().String("description", "", "Notebook description")

	notebookCmd.AddCommand(notebookCreateCmd)
	notebookCmd.AddCommand(notebookAddCmd)
	notebookCmd.AddCommand(notebookListCmd)
}
