package suggest

import (
	"context"
	"fmt"
	"sort"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// Confidence tier thresholds.
const (
	HighThreshold   = 0.85
	MediumThreshold = 0.70
	LowThreshold    = 0.50
)

// Suggested action thresholds.
const (
	AutoApplyThreshold       = 0.90
	SuggestStronglyThreshold = 0.75
	SuggestThreshold         = 0.60
)

type categoryStyle struct {
	icon  string
	color string
}

var defaultStyle = categoryStyle{icon: "📁", color: "#9E9E9E"}

var categoryStyles = map[string]categoryStyle{
	"Lebensmittel": {icon: "🛒", color: "#4CAF50"},
	"Restaurant":   {icon: "🍽️", color: "#FF9800"},
	"Transport":    {icon: "🚌", color: "#2196F3"},
	"Auto":         {icon: "⛽", color: "#607D8B"},
	"Unterhaltung": {icon: "🎬", color: "#9C27B0"},
	"Shopping":     {icon: "🛍️", color: "#E91E63"},
	"Wohnen":       {icon: "🏠", color: "#795548"},
	"Nebenkosten":  {icon: "💡", color: "#FFC107"},
	"Versicherung": {icon: "🛡️", color: "#3F51B5"},
	"Gesundheit":   {icon: "💊", color: "#F44336"},
	"Gehalt":       {icon: "💰", color: "#8BC34A"},
	"Drogerie":     {icon: "🧴", color: "#00BCD4"},
}

// LevelFor maps a confidence to its display tier.
func LevelFor(confidence float64) model.ConfidenceLevel {
	switch {
	case confidence >= HighThreshold:
		return model.ConfidenceHigh
	case confidence >= MediumThreshold:
		return model.ConfidenceMedium
	case confidence >= LowThreshold:
		return model.ConfidenceLow
	default:
		return model.ConfidenceVeryLow
	}
}

// ActionFor maps a confidence to the suggested UI action.
func ActionFor(confidence float64) model.SuggestedAction {
	switch {
	case confidence >= AutoApplyThreshold:
		return model.ActionAutoApply
	case confidence >= SuggestStronglyThreshold:
		return model.ActionSuggestStrongly
	case confidence >= SuggestThreshold:
		return model.ActionSuggest
	default:
		return model.ActionShowOption
	}
}

// StyleFor returns the display icon and color of a category.
func StyleFor(category string) (icon, color string) {
	style, ok := categoryStyles[category]
	if !ok {
		style = defaultStyle
	}
	return style.icon, style.color
}

// CombinedReasoning summarizes reasons as one sentence.
func CombinedReasoning(reasons []string) string {
	switch len(reasons) {
	case 0:
		return ""
	case 1:
		return reasons[0]
	default:
		return fmt.Sprintf("%s (+%d weitere Indikatoren)", reasons[0], len(reasons)-1)
	}
}

// rank orders suggestions in place. With preferTier the confidence tier is
// the primary key.
func rank(suggestions []model.Suggestion, preferTier bool) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := &suggestions[i], &suggestions[j]
		if preferTier {
			if ra, rb := LevelFor(a.Confidence).Rank(), LevelFor(b.Confidence).Rank(); ra != rb {
				return ra > rb
			}
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Category < b.Category
	})
}

// enrich attaches display data and usage statistics from the store.
func (e *Engine) enrich(ctx context.Context, s *model.Suggestion, includeReasons bool) error {
	s.ConfidenceLevel = LevelFor(s.Confidence)
	s.SuggestedAction = ActionFor(s.Confidence)
	s.Icon, s.Color = StyleFor(s.Category)

	count, err := e.store.CountTransactionsByCategory(ctx, s.Category)
	if err != nil {
		return fmt.Errorf("failed to count transactions for %s: %w", s.Category, err)
	}
	s.UsageCount = count

	lastUsed, err := e.store.GetLastTransactionDateByCategory(ctx, s.Category)
	if err != nil {
		return fmt.Errorf("failed to get last use of %s: %w", s.Category, err)
	}
	s.LastUsed = lastUsed

	if includeReasons {
		s.Reasoning = CombinedReasoning(s.Reasons)
	} else {
		s.Reasons = nil
	}
	return nil
}
