package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/conversation"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the saved conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = loadConfig(cmd, cliLogger()).Files.History
		}

		msgs, err := conversation.LoadHistory(path)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Println("No saved conversation.")
			return nil
		}

		user := color.New(color.FgCyan, color.Bold)
		assistant := color.New(color.FgGreen, color.Bold)
		system := color.New(color.FgYellow)

		for _, m := range msgs {
			switch m.Role {
			case conversation.RoleUser:
				user.Print("You: ")
			case conversation.RoleAssistant:
				assistant.Print("Assistant: ")
			default:
				system.Printf("%s: ", m.Role)
			}
			fmt.Println(m.Content)
			fmt.Println()
		}
		fmt.Printf("%d messages\n", len(msgs))
		return nil
	},
}

func init() {
	historyCmd.Flags().StringP("file", "f", "", "History file to read (defaults to files.history from the config)")
}
