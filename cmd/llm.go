package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded model calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts store.QueryOpts
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.Session, _ = cmd.Flags().GetString("session")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), opts)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No model calls recorded.")
			return nil
		}

		failed := color.New(color.FgRed)
		fmt.Printf("%-5s  %-19s  %-8s  %-24s  %6s  %6s  %6s\n",
			"ID", "Time", "Session", "Model", "In", "Out", "Ms")
		fmt.Println(strings.Repeat("─", 86))

		for _, e := range events {
			line := fmt.Sprintf("%-5d  %-19s  %-8s  %-24s  %6d  %6d  %6d",
				e.ID,
				e.Timestamp.Local().Format(timeLayout),
				truncate(e.SessionID, 8),
				truncate(e.Model, 24),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
			)
			if !e.Success {
				failed.Println(line + "  failed")
				continue
			}
			fmt.Println(line)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the request and response of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("model call %d not found", id)
		}

		label := color.New(color.Bold)
		field := func(name, value string) {
			label.Printf("%-10s", name+":")
			fmt.Println(value)
		}
		field("Time", e.Timestamp.Local().Format(timeLayout))
		field("Session", e.SessionID)
		field("Provider", e.Provider)
		field("Model", e.Model)
		field("Purpose", e.Purpose)
		field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
		field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
		if !e.Success {
			field("Error", color.RedString(e.ErrorMessage))
		}

		printBody("Request", e.RequestBody)
		printBody("Response", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return err
		}
		if len(byPurpose) == 0 {
			fmt.Println("No model calls recorded.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return err
		}

		heading := color.New(color.Bold)
		rule := strings.Repeat("─", 72)

		heading.Println("Usage by purpose")
		fmt.Printf("%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
		fmt.Println(rule)
		for _, u := range byPurpose {
			fmt.Printf("%-16s  %6d  %10d  %10d  %8d\n",
				truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		}

		fmt.Println()
		heading.Println("Estimated cost (USD)")
		fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(rule)

		var total float64
		var unpriced []string
		for _, u := range byModel {
			cost := "?"
			if p := llm.LookupCost(u.Model); p != nil {
				c := p.Cost(u.InputTokens, u.OutputTokens)
				total += c
				cost = formatCost(c)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
				truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
		}
		fmt.Println(rule)
		fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Total", "", "", "", formatCost(total))

		if len(unpriced) > 0 {
			color.Yellow("\nNo pricing for: %s", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// openStore opens the event store named by --db or the default path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func printBody(title, body string) {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println(title)
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(body)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (e.g. conversation)")
	llmListCmd.Flags().StringP("session", "s", "", "Only show calls from this practice session")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
