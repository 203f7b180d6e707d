package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/winglish-nk/Winglish-bot/internal/drill"
	"github.com/winglish-nk/Winglish-bot/internal/reading"
	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show word, due and weak counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.drill().Stats(cmd.Context(), e.cfg.User)
		if err != nil {
			return err
		}

		fmt.Printf("Words:     %d\n", st.Items)
		fmt.Printf("Studied:   %d\n", st.Reviewed)
		fmt.Printf("Due today: %d\n", st.Due)
		fmt.Printf("Weak:      %d\n", st.Weak)
		if st.Reviewed > 0 {
			fmt.Println()
			for _, s := range []spacedrep.ReviewStatus{spacedrep.ReviewLearning, spacedrep.ReviewDue, spacedrep.ReviewOverdue} {
				fmt.Printf("  %-9s %d\n", s, st.Statuses[s])
			}
		}
		return nil
	},
}

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "List your weakest words",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		weak, err := e.drill().WeakItems(cmd.Context(), e.cfg.User)
		if err != nil {
			return err
		}
		if len(weak) == 0 {
			fmt.Println("No weak words.")
			return nil
		}

		now := time.Now().In(e.loc)
		fmt.Printf("%-20s  %-24s  %6s  %5s  %s\n", "Word", "Meaning", "Streak", "EF", "Next review")
		fmt.Println(strings.Repeat("─", 76))
		for _, w := range weak {
			fmt.Printf("%-20s  %-24s  %6d  %5.2f  %s (%s)\n",
				truncate(w.Item.Prompt, 20),
				truncate(w.Item.Meaning, 24),
				w.State.ConsecutiveCorrect,
				w.State.Easiness,
				w.State.NextReviewDate.Format("2006-01-02"),
				w.State.Status(now),
			)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent drill batches",
	Long: "List recent drill batches, newest first. With --back N, show the items\n" +
		"of the batch started N batches ago (0 is the latest).",
	RunE: func(cmd *cobra.Command, args []string) error {
		module, _ := cmd.Flags().GetString("module")
		limit, _ := cmd.Flags().GetInt("limit")
		back, _ := cmd.Flags().GetInt("back")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		batches := e.store.BatchRepo()

		if back < 0 {
			recs, err := batches.Recent(ctx, e.cfg.User, module, limit, 0)
			if err != nil {
				return fmt.Errorf("query batches: %w", err)
			}
			if len(recs) == 0 {
				fmt.Println("No batches yet.")
				return nil
			}
			fmt.Printf("%-4s  %-36s  %-16s  %s\n", "Back", "Batch", "Started", "Items")
			for i, r := range recs {
				fmt.Printf("%-4d  %-36s  %-16s  %d\n", i, r.BatchID,
					r.CreatedAt.In(e.loc).Format("2006-01-02 15:04"), len(r.ItemIDs))
			}
			return nil
		}

		recs, err := batches.Recent(ctx, e.cfg.User, module, 1, back)
		if err != nil {
			return fmt.Errorf("query batches: %w", err)
		}
		if len(recs) == 0 {
			return fmt.Errorf("%w: %d batches back in %s", drill.ErrNoHistory, back, module)
		}
		return printBatch(cmd, e, recs[0])
	},
}

func printBatch(cmd *cobra.Command, e *env, rec store.BatchRecord) error {
	items, err := e.store.ItemRepo().FetchByIDs(cmd.Context(), rec.ItemIDs)
	if err != nil {
		return fmt.Errorf("load batch items: %w", err)
	}
	fmt.Printf("Batch %s (%s, %s)\n\n", rec.BatchID, rec.Module, rec.CreatedAt.In(e.loc).Format("2006-01-02 15:04"))
	for i, it := range items {
		detail := it.Meaning
		if detail == "" {
			detail = it.Reference
		}
		fmt.Printf("%2d. %-20s  %s\n", i+1, truncate(it.Prompt, 20), detail)
	}
	if missing := len(rec.ItemIDs) - len(items); missing > 0 {
		fmt.Printf("\n%d items no longer exist.\n", missing)
	}
	return nil
}

var historyReadingCmd = &cobra.Command{
	Use:   "reading",
	Short: "Show graded reading exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		logs, err := e.store.EventRepo().QueryStudyLogs(cmd.Context(), e.cfg.User, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query study logs: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No reading exercises yet.")
			return nil
		}
		for _, l := range logs {
			if l.Module != reading.Module {
				continue
			}
			var res reading.Result
			if err := json.Unmarshal(l.Result, &res); err != nil {
				e.log.Warn("decoding study log", "id", l.ID, "error", err)
				continue
			}
			fmt.Printf("%s  score %d/%d  answers %s  expected %s\n",
				l.Timestamp.In(e.loc).Format("2006-01-02 15:04"), res.Score, reading.Questions,
				strings.Join(res.Answers[:], ","), strings.Join(res.Expected[:], ","))
		}
		return nil
	},
}

func init() {
	historyReadingCmd.Flags().Int("limit", 20, "Number of exercises to show")
	historyCmd.AddCommand(historyReadingCmd)

	historyCmd.Flags().String("module", drill.ModuleVocab, "Drill module: vocab, quiz, weak or review")
	historyCmd.Flags().Int("limit", 10, "Number of batches to list")
	historyCmd.Flags().Int("back", -1, "Show the items of the batch this many batches ago")
}
