package cmd

import (
	"github.com/spf13/cobra"

	"github.com/winglish-nk/Winglish-bot/internal/app"
	"github.com/winglish-nk/Winglish-bot/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the drill menu in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().String("notebook", "", "Draw new-word drills from this notebook id only")
}

// runPlay opens the store, builds the controllers and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	notebook, _ := cmd.Flags().GetString("notebook")
	drills := e.drill()
	opts := app.Options{
		Options: home.Options{
			Drill:      drills,
			Reading:    e.reading(cmd.Context(), drills),
			UserID:     e.cfg.User,
			NotebookID: notebook,
		},
		Log: e.log,
	}

	e.log.Info("starting terminal ui", "user_id", e.cfg.User)
	return app.Run(opts)
}
