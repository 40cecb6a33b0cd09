package cli

import (
	"testing"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		want   string
		amount float64
	}{
		{amount: -15.99, want: "-15,99 €"},
		{amount: 3200, want: "3200,00 €"},
		{amount: 0, want: "0,00 €"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

func TestFormatSuggestion(t *testing.T) {
	s := model.Suggestion{
		Category:        "Lebensmittel",
		Confidence:      0.874,
		ConfidenceLevel: model.ConfidenceHigh,
		Icon:            "🛒",
		Color:           "#4CAF50",
		Reasoning:       "Regel Supermarkt",
		UsageCount:      12,
	}

	out := FormatSuggestion(1, s)
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "🛒")
	assert.Contains(t, out, "Lebensmittel")
	assert.Contains(t, out, "87%")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "Regel Supermarkt")
	assert.Contains(t, out, "12× verwendet")

	bare := FormatSuggestion(2, model.Suggestion{Category: "Sonstiges", Confidence: 0.5})
	assert.Contains(t, bare, "📁")
	assert.NotContains(t, bare, "verwendet")
}

func TestRenderSuggestions(t *testing.T) {
	txn := model.Transaction{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Kartenzahlung",
		Amount:      -23.45,
	}

	out := RenderSuggestions(txn, []model.Suggestion{{Category: "Lebensmittel", Confidence: 0.9}})
	assert.Contains(t, out, "Kategorie-Vorschläge")
	assert.Contains(t, out, "Kartenzahlung")
	assert.Contains(t, out, "15.01.2024")
	assert.Contains(t, out, "-23,45 €")
	assert.Contains(t, out, "Lebensmittel")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "REWE", displayName(model.Transaction{Recipient: "REWE", Description: "Einkauf"}))
	assert.Equal(t, "Einkauf", displayName(model.Transaction{Description: "Einkauf"}))
	assert.Equal(t, "Unbekannte Buchung", displayName(model.Transaction{}))
}

func TestLevelStyle(t *testing.T) {
	assert.True(t, LevelStyle(model.ConfidenceHigh).GetBold())
	assert.False(t, LevelStyle(model.ConfidenceVeryLow).GetBold())
}
