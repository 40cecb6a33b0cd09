package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/kassenbuch/internal/cli"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX statements",
		Long: `Import bookings from OFX or QFX files exported from your bank.

Examples:
  # Import a single statement
  kassenbuch import ~/Downloads/girokonto_2024-01.ofx

  # Import every statement in a directory
  kassenbuch import ~/Downloads/Kontoauszuege/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("Importing statements", "file_count", len(files), "dry_run", dryRun)

	transactions := parseFiles(ctx, ofx.NewParser(), files)
	if len(transactions) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("Keine Buchungen gefunden"))
		return nil
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d Buchungen gefunden (Testlauf, nichts gespeichert)", len(transactions))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	inserted, err := store.SaveTransactions(ctx, transactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d neue Buchungen importiert, %d bereits vorhanden",
		inserted, len(transactions)-inserted)))
	return nil
}

// expandFiles resolves glob patterns; plain paths that exist are kept as-is.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	return files, nil
}

// parseFiles parses every file and drops bookings already seen in an earlier
// file. Unreadable files are logged and skipped.
func parseFiles(ctx context.Context, parser *ofx.Parser, files []string) []model.Transaction {
	seen := make(map[string]bool)
	var all []model.Transaction

	for _, path := range files {
		transactions, err := parseFile(ctx, parser, path)
		if err != nil {
			slog.Error("Failed to parse statement", "file", path, "error", err)
			continue
		}

		added := 0
		for _, txn := range transactions {
			if seen[txn.Hash] {
				continue
			}
			seen[txn.Hash] = true
			all = append(all, txn)
			added++
		}

		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(transactions),
			"added", added,
			"duplicates", len(transactions)-added)
	}

	return all
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied statement path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}
