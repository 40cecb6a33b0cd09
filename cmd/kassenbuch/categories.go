package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/kassenbuch/internal/cli"
	"github.com/Veraticus/kassenbuch/internal/suggest"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with their usage",
		RunE:  runCategoriesList,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoriesAdd,
	})

	return cmd
}

func runCategoriesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categories, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("Noch keine Kategorien angelegt"))
		return nil
	}

	for _, cat := range categories {
		count, err := store.CountTransactionsByCategory(ctx, cat.Name)
		if err != nil {
			return fmt.Errorf("failed to count transactions for %s: %w", cat.Name, err)
		}
		icon, _ := suggest.StyleFor(cat.Name)
		fmt.Fprintf(out, "%s %-20s %s\n", icon, cat.Name, cli.SubtleStyle.Render(fmt.Sprintf("%d Buchungen", count)))
	}
	return nil
}

func runCategoriesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := ensureCategory(ctx, store, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Kategorie angelegt: "+args[0]))
	return nil
}
