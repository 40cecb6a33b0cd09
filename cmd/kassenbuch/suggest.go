package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/kassenbuch/internal/cli"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/suggest"
)

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [transaction-id]",
		Short: "Suggest categories for a transaction",
		Long: `Show ranked category suggestions for a stored transaction, or for an
ad-hoc booking described with flags.

Examples:
  kassenbuch suggest DE001:20240115001
  kassenbuch suggest --recipient "Netflix International B.V." --amount -15.99 --date 2024-06-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSuggest,
	}

	cmd.Flags().String("recipient", "", "recipient of an ad-hoc transaction")
	cmd.Flags().String("description", "", "description of an ad-hoc transaction")
	cmd.Flags().Float64("amount", 0, "signed amount of an ad-hoc transaction")
	cmd.Flags().String("date", "", "booking date YYYY-MM-DD (default: today)")
	cmd.Flags().Int("max", 0, "maximum number of suggestions (default from config)")
	cmd.Flags().Float64("min-confidence", -1, "minimum confidence (default from config)")
	cmd.Flags().Bool("no-reasons", false, "omit per-suggestion reasons")
	cmd.Flags().Bool("json", false, "print suggestions as JSON")

	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txn, err := suggestTarget(cmd, args, store)
	if err != nil {
		return err
	}

	engine, opts, err := buildEngine(store)
	if err != nil {
		return err
	}
	opts = applyOptionFlags(cmd, opts)

	suggestions := engine.GetSuggestions(ctx, txn, opts)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	_, err = fmt.Fprintln(out, cli.RenderSuggestions(txn, suggestions))
	return err
}

type transactionGetter interface {
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
}

// suggestTarget loads the stored transaction named by args or builds an
// unsaved one from the ad-hoc flags.
func suggestTarget(cmd *cobra.Command, args []string, store transactionGetter) (model.Transaction, error) {
	if len(args) == 1 {
		txn, err := store.GetTransactionByID(cmd.Context(), args[0])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("failed to load transaction: %w", err)
		}
		return *txn, nil
	}

	recipient, _ := cmd.Flags().GetString("recipient")
	description, _ := cmd.Flags().GetString("description")
	amount, _ := cmd.Flags().GetFloat64("amount")
	dateStr, _ := cmd.Flags().GetString("date")

	if recipient == "" && description == "" {
		return model.Transaction{}, fmt.Errorf("either a transaction ID or --recipient/--description is required")
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		parsed, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid --date %q: %w", dateStr, err)
		}
		date = parsed
	}

	return model.Transaction{
		Date:        date,
		Recipient:   recipient,
		Description: description,
		Amount:      amount,
	}, nil
}

func applyOptionFlags(cmd *cobra.Command, opts suggest.Options) suggest.Options {
	if maxSuggestions, _ := cmd.Flags().GetInt("max"); maxSuggestions > 0 {
		opts.MaxSuggestions = maxSuggestions
	}
	if minConfidence, _ := cmd.Flags().GetFloat64("min-confidence"); minConfidence >= 0 {
		opts.MinConfidence = minConfidence
	}
	if noReasons, _ := cmd.Flags().GetBool("no-reasons"); noReasons {
		opts.IncludeReasons = false
	}
	return opts
}
