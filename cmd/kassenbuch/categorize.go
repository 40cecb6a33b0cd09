package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/kassenbuch/internal/cli"
	"github.com/Veraticus/kassenbuch/internal/common"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/storage"
	"github.com/Veraticus/kassenbuch/internal/suggest"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <transaction-id> <category>",
		Short: "Assign a category and learn from the choice",
		Long: `Assign a category to a stored transaction. The choice is recorded as
feedback and updates the learned category preferences.

Example:
  kassenbuch categorize DE001:20240115001 Lebensmittel --reject Shopping`,
		Args: cobra.ExactArgs(2),
		RunE: runCategorize,
	}

	cmd.Flags().StringSlice("reject", nil, "categories that were suggested but rejected")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rejected, _ := cmd.Flags().GetStringSlice("reject")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txn, err := store.GetTransactionByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load transaction: %w", err)
	}

	engine, _, err := buildEngine(store)
	if err != nil {
		return err
	}

	if err := applyCategory(ctx, store, engine, *txn, args[1], rejected); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s → %s", txn.Recipient, args[1])))
	return nil
}

// applyCategory stores the category, creating it on first use, and feeds
// the decision back into the engine.
func applyCategory(ctx context.Context, store *storage.SQLiteStorage, engine *suggest.Engine, txn model.Transaction, category string, rejected []string) error {
	if err := ensureCategory(ctx, store, category); err != nil {
		return err
	}
	if err := store.UpdateTransactionCategory(ctx, txn.ID, category); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if err := engine.LearnFromFeedback(ctx, txn, category, rejected); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

func ensureCategory(ctx context.Context, store *storage.SQLiteStorage, name string) error {
	_, err := store.GetCategoryByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to look up category: %w", err)
	}

	_, color := suggest.StyleFor(name)
	if _, err := store.CreateCategory(ctx, name, color); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}
