package suggest

import (
	"fmt"
	"math"

	"github.com/Veraticus/kassenbuch/internal/model"
)

const (
	userBehaviorCategories = 5
	userBehaviorCap        = 0.9
	amountNearbyTolerance  = 0.25
)

// userBehaviorContributions proposes the user's most used categories,
// favoring those whose average amount is close to the transaction's.
func userBehaviorContributions(txn model.Transaction, prefs *model.UserPreferences) []model.Contribution {
	if prefs == nil {
		return nil
	}

	abs := txn.AbsAmount()
	var contributions []model.Contribution
	for i, usage := range prefs.TopCategories {
		if i >= userBehaviorCategories {
			break
		}

		confidence := usage.Frequency / 100
		nearby := usage.AvgAmount > 0 && math.Abs(abs-usage.AvgAmount)/usage.AvgAmount <= amountNearbyTolerance
		if nearby {
			confidence += 0.2
		}
		preferred := prefs.IsPreferred(usage.Category)
		if preferred {
			confidence += 0.1
		}

		reasoning := fmt.Sprintf("Häufig verwendete Kategorie (%.0f%% deiner Buchungen)", usage.Frequency)
		if nearby {
			reasoning = fmt.Sprintf("Häufig verwendete Kategorie mit ähnlichem Durchschnittsbetrag (%.2f €)", usage.AvgAmount)
		}

		contributions = append(contributions, model.Contribution{
			Source:     model.SourceUserBehavior,
			Category:   usage.Category,
			Confidence: math.Min(confidence, userBehaviorCap),
			Reasoning:  reasoning,
			Evidence: model.UserEvidence{
				Frequency:    usage.Frequency,
				AvgAmount:    usage.AvgAmount,
				Count:        usage.Count,
				Preferred:    preferred,
				AmountNearby: nearby,
			},
		})
	}
	return contributions
}
