package similarity

import (
	"math"
	"strings"
	"time"

	"github.com/Veraticus/kassenbuch/internal/features"
	"github.com/Veraticus/kassenbuch/internal/model"
)

// Score is one axis of a comparison. Reason is empty when the axis is too
// weak to explain a match.
type Score struct {
	Reason string
	Value  float64
}

// AmountSimilarity compares two signed amounts.
func AmountSimilarity(a, b float64) Score {
	absA, absB := math.Abs(a), math.Abs(b)
	diff := math.Abs(absA - absB)

	var score Score
	switch rel := relativeDiff(absA, absB); {
	case diff < 1:
		score = Score{Value: 1.0, Reason: "Gleicher Betrag"}
	case rel <= 0.10:
		score = Score{Value: 0.9, Reason: "Sehr ähnlicher Betrag"}
	case rel <= 0.25:
		score = Score{Value: 0.7, Reason: "Ähnlicher Betrag"}
	default:
		score = Score{Value: math.Max(0, 0.7*(1-(rel-0.25)/0.75))}
	}

	if a*b < 0 {
		score.Value /= 2
		score.Reason = ""
	}
	return score
}

func relativeDiff(a, b float64) float64 {
	denom := math.Max(a, b)
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}

// TemporalSimilarity compares two booking dates. Unknown dates score zero.
func TemporalSimilarity(a, b time.Time) Score {
	if a.IsZero() || b.IsZero() {
		return Score{}
	}

	days := daysBetween(a, b)
	switch {
	case days == 0:
		return Score{Value: 1.0, Reason: "Gleicher Tag"}
	case a.Weekday() == b.Weekday() && days <= 7:
		return Score{Value: 0.9, Reason: "Gleicher Wochentag"}
	case a.Day() == b.Day():
		return Score{Value: 0.8, Reason: "Gleicher Tag im Monat"}
	case days <= 7:
		return Score{Value: 0.7, Reason: "Innerhalb einer Woche"}
	case days <= 30:
		return Score{Value: 0.5, Reason: "Innerhalb eines Monats"}
	case days <= 90:
		return Score{Value: 0.3}
	case days <= 365:
		return Score{Value: 0.2 * (1 - float64(days-90)/275)}
	default:
		return Score{}
	}
}

func daysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	dayA := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	dayB := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	days := int(math.Round(dayA.Sub(dayB).Hours() / 24))
	if days < 0 {
		return -days
	}
	return days
}

// TextSimilarity is the larger of token Jaccard over recipient and description
// and the merchant overlap score.
func TextSimilarity(a, b model.Transaction) Score {
	jaccard := features.Jaccard(
		features.Tokenize(a.Recipient+" "+a.Description),
		features.Tokenize(b.Recipient+" "+b.Description),
	)
	merchant := merchantScore(a.Recipient, b.Recipient)

	switch {
	case merchant >= 1:
		return Score{Value: merchant, Reason: "Gleicher Empfänger"}
	case merchant >= jaccard && merchant >= 0.5:
		return Score{Value: merchant, Reason: "Ähnlicher Empfänger"}
	case jaccard >= 0.5:
		return Score{Value: jaccard, Reason: "Ähnliche Beschreibung"}
	default:
		return Score{Value: math.Max(merchant, jaccard)}
	}
}

func merchantScore(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return 1.0
	case strings.Contains(a, b) || strings.Contains(b, a):
		return 0.8
	default:
		return features.RecipientOverlap(a, b) * 0.7
	}
}
