package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/suggest"
	"github.com/Veraticus/kassenbuch/internal/testutil"
)

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"jan.ofx", "feb.ofx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	files, err := expandFiles([]string{
		filepath.Join(dir, "*.ofx"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing.ofx"),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "feb.ofx"),
		filepath.Join(dir, "jan.ofx"),
		filepath.Join(dir, "notes.txt"),
	}, files)

	_, err = expandFiles([]string{"[invalid"})
	assert.Error(t, err)
}

func TestSuggestTarget(t *testing.T) {
	db := testutil.SetupTestDB(t, testutil.WithTransactions(
		testutil.NewTxn("DE001:1").To("REWE Markt Berlin").On(2024, 3, 2).Amount(-23.45).Build(),
	))

	tests := []struct {
		flags   map[string]string
		name    string
		want    model.Transaction
		args    []string
		wantErr bool
	}{
		{
			name: "stored transaction",
			args: []string{"DE001:1"},
			want: model.Transaction{ID: "DE001:1", Recipient: "REWE Markt Berlin", Amount: -23.45},
		},
		{
			name: "ad-hoc transaction",
			flags: map[string]string{
				"recipient": "Netflix International B.V.",
				"amount":    "-15.99",
				"date":      "2024-06-15",
			},
			want: model.Transaction{
				Date:      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
				Recipient: "Netflix International B.V.",
				Amount:    -15.99,
			},
		},
		{
			name:    "unknown id",
			args:    []string{"missing"},
			wantErr: true,
		},
		{
			name:    "no recipient or description",
			flags:   map[string]string{"amount": "-5"},
			wantErr: true,
		},
		{
			name:    "bad date",
			flags:   map[string]string{"recipient": "Aral", "date": "15.06.2024"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := suggestCmd()
			cmd.SetContext(context.Background())
			for k, v := range tt.flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}

			got, err := suggestTarget(cmd, tt.args, db.Storage)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Recipient, got.Recipient)
			assert.InDelta(t, tt.want.Amount, got.Amount, 1e-9)
			if !tt.want.Date.IsZero() {
				assert.True(t, tt.want.Date.Equal(got.Date))
			}
		})
	}
}

func TestApplyOptionFlags(t *testing.T) {
	cmd := suggestCmd()
	opts := applyOptionFlags(cmd, suggest.DefaultOptions())
	assert.Equal(t, suggest.DefaultOptions(), opts)

	require.NoError(t, cmd.Flags().Set("max", "2"))
	require.NoError(t, cmd.Flags().Set("min-confidence", "0"))
	require.NoError(t, cmd.Flags().Set("no-reasons", "true"))

	opts = applyOptionFlags(cmd, suggest.DefaultOptions())
	assert.Equal(t, 2, opts.MaxSuggestions)
	assert.Zero(t, opts.MinConfidence)
	assert.False(t, opts.IncludeReasons)
}

func TestApplyCategory(t *testing.T) {
	db := testutil.SetupTestDB(t,
		testutil.WithCategories("Lebensmittel"),
		testutil.WithTransactions(
			testutil.NewTxn("tx-1").To("dm-drogerie markt").On(2024, 4, 5).Amount(-12.80).Build(),
		),
	)
	ctx := context.Background()

	engine, err := suggest.NewDefaultEngine(db.Storage, suggest.DefaultConfig(), 0)
	require.NoError(t, err)

	txn := db.MustGetTransaction("tx-1")
	require.NoError(t, applyCategory(ctx, db.Storage, engine, txn, "Drogerie", []string{"Lebensmittel"}))

	assert.Equal(t, "Drogerie", db.MustGetTransaction("tx-1").Category)

	cat, err := db.Storage.GetCategoryByName(ctx, "Drogerie")
	require.NoError(t, err)
	_, color := suggest.StyleFor("Drogerie")
	assert.Equal(t, color, cat.Color)

	feedback, err := db.Storage.GetFeedback(ctx, 5)
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, []string{"Lebensmittel"}, feedback[0].RejectedCategories)

	// Existing categories are reused.
	require.NoError(t, ensureCategory(ctx, db.Storage, "Lebensmittel"))
	cats, err := db.Storage.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestFormatStats(t *testing.T) {
	stats := suggest.Stats{
		MergeStrategy: suggest.MergeWeighted,
		HistoryLimit:  1000,
		Sources:       model.AllSources,
		Weights:       suggest.DefaultWeights(),
		Thresholds: map[model.ConfidenceLevel]float64{
			model.ConfidenceHigh:   0.85,
			model.ConfidenceMedium: 0.70,
		},
	}
	prefs := &model.UserPreferences{PreferredCategories: []string{"Lebensmittel", "Wohnen"}}

	out := formatStats(stats, prefs, 42)
	assert.Contains(t, out, "Buchungen:          42")
	assert.Contains(t, out, "weighted")
	assert.Contains(t, out, "HIGH ≥ 0.85, MEDIUM ≥ 0.70")
	assert.Contains(t, out, "Lebensmittel, Wohnen")
}
