package patterns

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Veraticus/kassenbuch/internal/features"
	"github.com/Veraticus/kassenbuch/internal/model"
)

// Interval types of recurring payments.
const (
	IntervalWeekly    = "weekly"
	IntervalBiweekly  = "biweekly"
	IntervalMonthly   = "monthly"
	IntervalQuarterly = "quarterly"
	IntervalYearly    = "yearly"
	IntervalCustom    = "custom"
)

var intervalLabels = map[string]string{
	IntervalWeekly:    "Wöchentliche",
	IntervalBiweekly:  "Zweiwöchentliche",
	IntervalMonthly:   "Monatliche",
	IntervalQuarterly: "Vierteljährliche",
	IntervalYearly:    "Jährliche",
	IntervalCustom:    "Regelmäßige",
}

// RecurringResult reports whether a transaction continues a recurring payment.
type RecurringResult struct {
	NextExpected      *time.Time
	SuggestedCategory string
	IntervalType      string
	Reasoning         string
	Occurrences       int
	AvgIntervalDays   float64
	StdDevDays        float64
	AvgAmount         float64
	Confidence        float64
	IsRecurring       bool
}

// RecurringDetector finds payments to the same merchant at a stable interval.
type RecurringDetector struct {
	MinOccurrences  int
	AmountTolerance float64 // Relative
	MaxStdDevDays   float64
}

// NewRecurringDetector returns a detector with the default thresholds.
func NewRecurringDetector() *RecurringDetector {
	return &RecurringDetector{
		MinOccurrences:  3,
		AmountTolerance: 0.05,
		MaxStdDevDays:   5,
	}
}

// Detect checks txn against history.
func (d *RecurringDetector) Detect(txn model.Transaction, history []model.Transaction) RecurringResult {
	if txn.Recipient == "" {
		return RecurringResult{}
	}

	matches := filter(history, func(h *model.Transaction) bool {
		return dated(h) &&
			features.FuzzyRecipientMatch(txn.Recipient, h.Recipient) &&
			amountWithin(txn.Amount, h.Amount, d.AmountTolerance)
	})
	if len(matches) < d.MinOccurrences {
		return RecurringResult{Occurrences: len(matches)}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})

	intervals := make([]float64, 0, len(matches)-1)
	var totalAmount float64
	for i := range matches {
		totalAmount += matches[i].AbsAmount()
		if i > 0 {
			intervals = append(intervals, matches[i].Date.Sub(matches[i-1].Date).Hours()/24)
		}
	}

	mean, stdDev := meanStdDev(intervals)
	result := RecurringResult{
		Occurrences:     len(matches),
		AvgIntervalDays: mean,
		StdDevDays:      stdDev,
		AvgAmount:       totalAmount / float64(len(matches)),
	}
	if stdDev > d.MaxStdDevDays || mean < 1 {
		return result
	}

	n := float64(len(matches))
	result.IsRecurring = true
	result.IntervalType = classifyInterval(mean)
	result.Confidence = math.Min(0.98,
		0.5+math.Min(0.3, 0.06*n)+math.Min(0.2, 0.2*(1-stdDev/d.MaxStdDevDays)))
	result.SuggestedCategory = dominantCategory(matches).Category

	next := matches[len(matches)-1].Date.AddDate(0, 0, int(math.Round(mean)))
	result.NextExpected = &next

	result.Reasoning = fmt.Sprintf("%s Zahlung an %s (%d× im Abstand von ca. %.0f Tagen)",
		intervalLabels[result.IntervalType], txn.Recipient, result.Occurrences, mean)
	return result
}

// Contribution converts the result into a category proposal.
func (r RecurringResult) Contribution() (model.Contribution, bool) {
	if !r.IsRecurring || r.SuggestedCategory == "" {
		return model.Contribution{}, false
	}
	return model.Contribution{
		Source:     model.SourcePatterns,
		Category:   r.SuggestedCategory,
		Confidence: r.Confidence,
		Reasoning:  r.Reasoning,
		Evidence: model.PatternEvidence{
			Kind:            model.PatternRecurring,
			IntervalType:    r.IntervalType,
			Occurrences:     r.Occurrences,
			AvgIntervalDays: r.AvgIntervalDays,
			StdDevDays:      r.StdDevDays,
			AvgAmount:       r.AvgAmount,
			NextExpected:    r.NextExpected,
		},
	}, true
}

func classifyInterval(days float64) string {
	switch {
	case days >= 6 && days <= 8:
		return IntervalWeekly
	case days >= 13 && days <= 16:
		return IntervalBiweekly
	case days >= 27 && days <= 33:
		return IntervalMonthly
	case days >= 85 && days <= 95:
		return IntervalQuarterly
	case days >= 355 && days <= 375:
		return IntervalYearly
	default:
		return IntervalCustom
	}
}

func amountWithin(a, b, tolerance float64) bool {
	absA, absB := math.Abs(a), math.Abs(b)
	denom := math.Max(absA, absB)
	if denom == 0 {
		return true
	}
	return math.Abs(absA-absB)/denom <= tolerance
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var squares float64
	for _, v := range values {
		squares += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(squares / float64(len(values)))
}
