package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/kassenbuch/internal/model"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       model.ConfidenceLevel
	}{
		{0.99, model.ConfidenceHigh},
		{0.85, model.ConfidenceHigh},
		{0.84, model.ConfidenceMedium},
		{0.70, model.ConfidenceMedium},
		{0.69, model.ConfidenceLow},
		{0.50, model.ConfidenceLow},
		{0.49, model.ConfidenceVeryLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.confidence), "confidence %.2f", tt.confidence)
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       model.SuggestedAction
	}{
		{0.95, model.ActionAutoApply},
		{0.90, model.ActionAutoApply},
		{0.80, model.ActionSuggestStrongly},
		{0.60, model.ActionSuggest},
		{0.59, model.ActionShowOption},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ActionFor(tt.confidence), "confidence %.2f", tt.confidence)
	}
}

func TestStyleFor(t *testing.T) {
	icon, color := StyleFor("Lebensmittel")
	assert.Equal(t, "🛒", icon)
	assert.Equal(t, "#4CAF50", color)

	icon, color = StyleFor("Haustiere")
	assert.Equal(t, "📁", icon)
	assert.Equal(t, "#9E9E9E", color)
}

func TestCombinedReasoning(t *testing.T) {
	assert.Empty(t, CombinedReasoning(nil))
	assert.Equal(t, "Supermarkt erkannt", CombinedReasoning([]string{"Supermarkt erkannt"}))
	assert.Equal(t, "Supermarkt erkannt (+2 weitere Indikatoren)",
		CombinedReasoning([]string{"Supermarkt erkannt", "a", "b"}))
}

func TestRank(t *testing.T) {
	suggestions := []model.Suggestion{
		{Category: "B", Confidence: 0.6},
		{Category: "A", Confidence: 0.9},
		{Category: "C", Confidence: 0.6},
		{Category: "D", Confidence: 0.72},
	}

	rank(suggestions, true)
	assert.Equal(t, []string{"A", "D", "B", "C"}, model.Suggestions(suggestions).Categories())

	rank(suggestions, false)
	assert.Equal(t, []string{"A", "D", "B", "C"}, model.Suggestions(suggestions).Categories())
}
