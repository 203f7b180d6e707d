package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/winglish-nk/Winglish-bot/internal/llm"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM requests made for reading drills",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query llm requests: %w", err)
		}

		shown := 0
		for _, ev := range list {
			if failedOnly && ev.Success {
				continue
			}
			if shown == 0 {
				fmt.Printf("%5s  %-19s  %-14s  %-28s  %11s  %6s\n", "ID", "Time", "Purpose", "Model", "Tokens", "Ms")
				rule(92)
			}
			mark := ""
			if !ev.Success {
				mark = "  failed: " + truncate(ev.ErrorMessage, 40)
			}
			fmt.Printf("%5d  %-19s  %-14s  %-28s  %5d/%-5d  %6d%s\n",
				ev.ID, ev.Timestamp.In(e.loc).Format(timeLayout), ev.Purpose,
				truncate(ev.Model, 28), ev.InputTokens, ev.OutputTokens, ev.LatencyMs, mark)
			shown++
		}
		if shown == 0 {
			fmt.Println("No LLM requests recorded.")
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the stored request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get llm request: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("llm request %d not found", id)
		}

		status := "ok"
		if !ev.Success {
			status = "failed: " + ev.ErrorMessage
		}
		fmt.Printf("#%d  %s  %s/%s  purpose=%s\n", ev.ID,
			ev.Timestamp.In(e.loc).Format(timeLayout), ev.Provider, ev.Model, ev.Purpose)
		fmt.Printf("tokens %d in, %d out  latency %dms  %s\n",
			ev.InputTokens, ev.OutputTokens, ev.LatencyMs, status)
		if c := llm.LookupCost(ev.Model); c != nil {
			fmt.Printf("estimated cost %s\n", formatCost(c.Cost(ev.InputTokens, ev.OutputTokens)))
		}

		section("request", ev.RequestBody)
		section("response", ev.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events := e.store.EventRepo()
		ctx := cmd.Context()
		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
		rule(58)
		var calls, in, out int
		for _, u := range byPurpose {
			fmt.Printf("%-16s  %6d  %10d  %10d  %8d\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		rule(58)
		fmt.Printf("%-16s  %6d  %10d  %10d\n\n", "total", calls, in, out)

		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}

		var total float64
		var unpriced []string
		fmt.Printf("%-32s  %6s  %10s\n", "Model", "Calls", "Cost (USD)")
		rule(52)
		for _, u := range byModel {
			price := llm.LookupCost(u.Model)
			if price == nil {
				unpriced = append(unpriced, u.Model)
				fmt.Printf("%-32s  %6d  %10s\n", truncate(u.Model, 32), u.Calls, "?")
				continue
			}
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			fmt.Printf("%-32s  %6d  %10s\n", truncate(u.Model, 32), u.Calls, formatCost(c))
		}
		rule(52)
		fmt.Printf("%-32s  %6s  %10s\n", "total", "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Printf("\nNo pricing for %s; total is a lower bound.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func rule(n int) {
	fmt.Println(strings.Repeat("─", n))
}

func section(name, body string) {
	fmt.Printf("\n-- %s --\n", name)
	if body == "" {
		body = "(not captured)"
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
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (reading-gen, reading-grade)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
