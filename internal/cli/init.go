package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .taskdeck.yaml to the data directory",
	Long: `Write a starter .taskdeck.yaml with the default four-stage workflow
(Not Started, In Progress, Test, Done) and the file provider. Fails if
a config file already exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault(BasePath)
		if err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
