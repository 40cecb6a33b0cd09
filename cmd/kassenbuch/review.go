package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/kassenbuch/internal/cli"
	"github.com/Veraticus/kassenbuch/internal/service"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively categorize uncategorized transactions",
		Long: `Walk through uncategorized transactions newest first. Each booking shows
its ranked suggestions; pick one by number, enter your own category, or skip.
Suggestions for the next booking are computed while you decide.`,
		RunE: runReview,
	}

	cmd.Flags().Int("limit", 50, "maximum number of transactions to review")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	ctx := cli.NewInterruptHandler(out).HandleInterrupts(cmd.Context())

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pending, err := store.GetTransactions(ctx, service.TransactionFilter{
		Uncategorized: true,
		Limit:         limit,
	})
	if err != nil {
		return fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(out, cli.FormatSuccess("Alle Buchungen sind kategorisiert"))
		return nil
	}

	engine, opts, err := buildEngine(store)
	if err != nil {
		return err
	}
	defer engine.Wait()

	reviewer := cli.NewReviewer(cmd.InOrStdin(), out)
	reviewer.SetTotal(len(pending))
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d Buchungen ohne Kategorie", len(pending))))

	engine.PrecomputeSuggestions(ctx, pending[0], opts)
	for i, txn := range pending {
		if i+1 < len(pending) {
			engine.PrecomputeSuggestions(ctx, pending[i+1], opts)
		}

		decision, err := reviewer.Review(ctx, txn, engine.GetSuggestions(ctx, txn, opts))
		if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, cli.ErrInputTerminated) || ctx.Err() != nil {
			break
		}
		if err != nil {
			return err
		}
		if decision.Skipped {
			continue
		}

		if err := applyCategory(ctx, store, engine, txn, decision.Selected, decision.Rejected); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(err.Error()))
		}
	}

	reviewer.ShowCompletion()
	return nil
}
