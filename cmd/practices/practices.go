// Package practices implements the practices command: list the practice
// taxonomy the classifier prompt is built from.
package practices

import (
	"fmt"

	"github.com/spf13/cobra"

	"ethicheck/societal-debt/cmd/root"
	"ethicheck/societal-debt/internal/config"
	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/store"
)

// Cmd is the practices command
var Cmd = &cobra.Command{
	Use:   "practices",
	Short: "List the known practice taxonomy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.InitializeConfig()
		if err != nil {
			return err
		}
		log := logging.NewLogrusAdapterFromLogger(root.Log)

		practices, err := store.LoadPractices(cfg.Data.PracticesFile, log)
		if err != nil {
			return err
		}
		if len(practices) == 0 {
			fmt.Println("No practices configured; the classifier will use free-form practice names.")
			return nil
		}

		for _, p := range practices {
			fmt.Printf("%-30s %-10s %s\n", p.Name, p.Kind, p.Category)
		}
		return nil
	},
}
