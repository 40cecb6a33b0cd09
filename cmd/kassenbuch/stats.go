package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/kassenbuch/internal/cli"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/suggest"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show suggestion engine configuration and state",
		RunE:  runStats,
	}

	cmd.Flags().Bool("json", false, "print stats as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine, _, err := buildEngine(store)
	if err != nil {
		return err
	}

	stats := engine.Stats()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	count, err := store.GetTransactionCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	prefs, err := engine.LoadUserPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	_, err = fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Vorschlags-Engine", formatStats(stats, prefs, count)))
	return err
}

func formatStats(stats suggest.Stats, prefs *model.UserPreferences, transactions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Buchungen:          %d\n", transactions)
	fmt.Fprintf(&b, "Merge-Strategie:    %s\n", stats.MergeStrategy)
	fmt.Fprintf(&b, "Historienlimit:     %d\n", stats.HistoryLimit)
	fmt.Fprintf(&b, "Quellen:            %s\n", joinSources(stats))
	fmt.Fprintf(&b, "Gewichte:           Ähnlichkeit %.2f, Muster %.2f, Regeln %.2f, Verhalten %.2f\n",
		stats.Weights.Similarity, stats.Weights.Patterns, stats.Weights.Rules, stats.Weights.UserBehavior)

	levels := make([]string, 0, len(stats.Thresholds))
	for level, threshold := range stats.Thresholds {
		levels = append(levels, fmt.Sprintf("%s ≥ %.2f", level, threshold))
	}
	sort.Strings(levels)
	fmt.Fprintf(&b, "Schwellen:          %s\n", strings.Join(levels, ", "))
	fmt.Fprintf(&b, "Bevorzugt:          %s\n", strings.Join(prefs.PreferredCategories, ", "))
	fmt.Fprintf(&b, "Vermieden:          %s", strings.Join(prefs.AvoidedCategories, ", "))
	return b.String()
}

func joinSources(stats suggest.Stats) string {
	names := make([]string, len(stats.Sources))
	for i, src := range stats.Sources {
		names[i] = string(src)
	}
	return strings.Join(names, ", ")
}
