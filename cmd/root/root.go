// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ethicheck/societal-debt/internal/config"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "societal-debt",
		Short: "Score financial transactions for ethical impact.",
		Long: `societal-debt classifies financial transactions against named
practices (factory farming, high emissions, ...) using an external AI
classifier and computes the signed societal-debt contribution of each one.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
		},
	}
)
