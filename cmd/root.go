package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "winglish",
	Short: "English vocabulary and reading drills",
	Long: "Winglish runs spaced-repetition vocabulary drills and two-question reading\n" +
		"exercises in the terminal. Run without a subcommand to start playing.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	pf.String("db", "", "Database file for sqlite, connection URL for postgres (env WINGLISH_DB_DSN)")
	pf.String("db-driver", "", "Database driver: sqlite or postgres (env WINGLISH_DB_DRIVER)")
	pf.StringP("user", "u", "", "Learner id (env WINGLISH_USER)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	for key, flag := range map[string]string{
		"db.dsn":    "db",
		"db.driver": "db-driver",
		"user":      "user",
		"log.level": "log-level",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(notebookCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(weakCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
