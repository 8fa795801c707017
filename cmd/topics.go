package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/conversation"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the conversation topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd, cliLogger())

		catalog := conversation.DefaultCatalog()
		source := "built-in"
		if f := cfg.Practice.TopicsFile; f != "" {
			c, err := conversation.LoadCatalog(f)
			if err != nil {
				return err
			}
			catalog, source = c, f
		}

		fmt.Printf("%-4s  %s\n", "#", "Topic")
		fmt.Println(strings.Repeat("─", 48))
		for i, t := range catalog.Topics() {
			fmt.Printf("%-4d  %s\n", i+1, t)
		}
		fmt.Printf("\n%d topics (%s)\n", catalog.Len(), source)
		return nil
	},
}
