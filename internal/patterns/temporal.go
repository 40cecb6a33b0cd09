package patterns

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// Temporal windows in order of precedence.
const (
	WindowEndOfMonth       = "end_of_month"
	WindowBeginningOfMonth = "beginning_of_month"
	WindowPayday           = "payday"
)

var windowLabels = map[string]string{
	WindowEndOfMonth:       "am Monatsende",
	WindowBeginningOfMonth: "am Monatsanfang",
	WindowPayday:           "um den Zahltag",
}

// TemporalResult reports whether a category dominates the transaction's
// calendar window.
type TemporalResult struct {
	Window            string
	SuggestedCategory string
	Reasoning         string
	Count             int
	Total             int
	Share             float64
	Confidence        float64
	HasPattern        bool
}

// TemporalDetector checks end-of-month, beginning-of-month and payday windows.
type TemporalDetector struct {
	MinCount int
	MinShare float64 // Exclusive
}

// NewTemporalDetector returns a detector with the default thresholds.
func NewTemporalDetector() *TemporalDetector {
	return &TemporalDetector{MinCount: 2, MinShare: 0.4}
}

// WindowOf returns the window a date falls in, or "" for none. Days that
// satisfy several windows resolve to the first in precedence order.
func WindowOf(t time.Time) string {
	day := t.Day()
	switch {
	case day >= 28 || day == lastDayOfMonth(t):
		return WindowEndOfMonth
	case day <= 3:
		return WindowBeginningOfMonth
	case day >= 13 && day <= 17:
		return WindowPayday
	default:
		return ""
	}
}

func inWindow(window string, t time.Time) bool {
	day := t.Day()
	switch window {
	case WindowEndOfMonth:
		return day >= 28 || day == lastDayOfMonth(t)
	case WindowBeginningOfMonth:
		return day <= 3
	case WindowPayday:
		return (day >= 13 && day <= 17) || day >= 28
	default:
		return false
	}
}

// Detect checks txn against history.
func (d *TemporalDetector) Detect(txn model.Transaction, history []model.Transaction) TemporalResult {
	if txn.Date.IsZero() {
		return TemporalResult{}
	}
	window := WindowOf(txn.Date)
	if window == "" {
		return TemporalResult{}
	}

	sameWindow := filter(history, func(h *model.Transaction) bool {
		return dated(h) && inWindow(window, h.Date)
	})

	dom := dominantCategory(sameWindow)
	result := TemporalResult{
		Window: window,
		Count:  dom.Count,
		Total:  dom.Total,
		Share:  dom.Share,
	}
	if dom.Count < d.MinCount || dom.Share <= d.MinShare {
		return result
	}

	result.HasPattern = true
	result.SuggestedCategory = dom.Category
	result.Confidence = math.Min(0.8, dom.Share+0.1)
	result.Reasoning = fmt.Sprintf("%d%% der Transaktionen %s sind %s",
		percent(dom.Share), windowLabels[window], dom.Category)
	return result
}

// Contribution converts the result into a category proposal.
func (r TemporalResult) Contribution() (model.Contribution, bool) {
	if !r.HasPattern {
		return model.Contribution{}, false
	}
	return model.Contribution{
		Source:     model.SourcePatterns,
		Category:   r.SuggestedCategory,
		Confidence: r.Confidence,
		Reasoning:  r.Reasoning,
		Evidence: model.PatternEvidence{
			Kind:        model.PatternTemporal,
			Bucket:      r.Window,
			Occurrences: r.Count,
			Total:       r.Total,
			Share:       r.Share,
		},
	}, true
}
