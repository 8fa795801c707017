package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.SessionRepo().ListSessions(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No practice sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-8s  %-19s  %-9s  %-13s  %-10s  %5s  %8s\n",
			"ID", "Started", "Duration", "Level", "Provider", "Turns", "Messages")
		fmt.Println(strings.Repeat("─", 86))

		for _, ps := range sessions {
			fmt.Printf("%-8s  %-19s  %-9s  %-13s  %-10s  %5d  %8d\n",
				truncate(ps.ID, 8),
				ps.StartedAt.Local().Format("2006-01-02 15:04:05"),
				sessionDuration(ps),
				ps.Difficulty,
				truncate(ps.Provider, 10),
				ps.Turns,
				ps.Messages,
			)
		}
		return nil
	},
}

// sessionDuration formats how long a session ran. Sessions without an
// end time were interrupted.
func sessionDuration(ps store.PracticeSession) string {
	if ps.EndedAt.IsZero() {
		return "-"
	}
	return ps.EndedAt.Sub(ps.StartedAt).Round(time.Second).String()
}

func init() {
	sessionsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
