package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd, cliLogger())
		path := cfg.Files.History

		err := os.Remove(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			color.New(color.FgYellow).Printf("No saved conversation at %s\n", path)
			return nil
		case err != nil:
			return fmt.Errorf("delete history: %w", err)
		}
		color.New(color.FgGreen).Printf("Deleted %s\n", path)
		return nil
	},
}
