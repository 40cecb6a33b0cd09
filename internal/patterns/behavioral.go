package patterns

import (
	"fmt"
	"math"

	"github.com/Veraticus/kassenbuch/internal/model"
)

var weekdayNames = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

// Time-of-month buckets.
const (
	MonthBeginning = "beginning"
	MonthMiddle    = "middle"
	MonthEnd       = "end"
)

var monthPartLabels = map[string]string{
	MonthBeginning: "am Monatsanfang",
	MonthMiddle:    "zur Monatsmitte",
	MonthEnd:       "am Monatsende",
}

// BehavioralPattern is one qualifying behavioral sub-check.
type BehavioralPattern struct {
	Kind       model.PatternKind
	Bucket     string
	Category   string
	Reasoning  string
	Count      int
	Total      int
	Share      float64
	Confidence float64
}

// BehavioralResult lists every sub-check that found a dominant category.
type BehavioralResult struct {
	Patterns []BehavioralPattern
}

// HasPattern reports whether any sub-check qualified.
func (r BehavioralResult) HasPattern() bool {
	return len(r.Patterns) > 0
}

// Contributions converts every qualifying sub-check into a category proposal.
func (r BehavioralResult) Contributions() []model.Contribution {
	contributions := make([]model.Contribution, 0, len(r.Patterns))
	for _, p := range r.Patterns {
		contributions = append(contributions, model.Contribution{
			Source:     model.SourcePatterns,
			Category:   p.Category,
			Confidence: p.Confidence,
			Reasoning:  p.Reasoning,
			Evidence: model.PatternEvidence{
				Kind:        p.Kind,
				Bucket:      p.Bucket,
				Occurrences: p.Count,
				Total:       p.Total,
				Share:       p.Share,
			},
		})
	}
	return contributions
}

// behaviorCheck is a threshold set for one sub-check.
type behaviorCheck struct {
	minCount  int
	minShare  float64
	inclusive bool // share must be >= minShare rather than > minShare
	bonus     float64
	cap       float64
}

func (c behaviorCheck) evaluate(kind model.PatternKind, bucket string, txns []model.Transaction) (BehavioralPattern, bool) {
	dom := dominantCategory(txns)
	if dom.Total < c.minCount || dom.Category == "" {
		return BehavioralPattern{}, false
	}
	if c.inclusive && dom.Share < c.minShare || !c.inclusive && dom.Share <= c.minShare {
		return BehavioralPattern{}, false
	}
	return BehavioralPattern{
		Kind:       kind,
		Bucket:     bucket,
		Category:   dom.Category,
		Count:      dom.Count,
		Total:      dom.Total,
		Share:      dom.Share,
		Confidence: math.Min(c.cap, dom.Share+c.bonus),
	}, true
}

// BehavioralDetector looks for categories that dominate the transaction's
// weekday, time of month or amount band.
type BehavioralDetector struct {
	weekday     behaviorCheck
	timeOfMonth behaviorCheck
	amountBand  behaviorCheck
}

// NewBehavioralDetector returns a detector with the default thresholds.
func NewBehavioralDetector() *BehavioralDetector {
	return &BehavioralDetector{
		weekday:     behaviorCheck{minCount: 3, minShare: 0.6, inclusive: true, bonus: 0.1, cap: 0.85},
		timeOfMonth: behaviorCheck{minCount: 5, minShare: 0.4, bonus: 0.15, cap: 0.8},
		amountBand:  behaviorCheck{minCount: 5, minShare: 0.3, bonus: 0.1, cap: 0.75},
	}
}

// Detect checks txn against history.
func (d *BehavioralDetector) Detect(txn model.Transaction, history []model.Transaction) BehavioralResult {
	var result BehavioralResult

	if !txn.Date.IsZero() {
		weekday := txn.Date.Weekday()
		sameDay := filter(history, func(h *model.Transaction) bool {
			return dated(h) && h.Date.Weekday() == weekday
		})
		if p, ok := d.weekday.evaluate(model.PatternBehaviorWeekday, weekday.String(), sameDay); ok {
			p.Reasoning = fmt.Sprintf("%d%% der Transaktionen am %s sind %s",
				percent(p.Share), weekdayNames[weekday], p.Category)
			result.Patterns = append(result.Patterns, p)
		}

		part := MonthPart(txn.Date.Day())
		samePart := filter(history, func(h *model.Transaction) bool {
			return dated(h) && MonthPart(h.Date.Day()) == part
		})
		if p, ok := d.timeOfMonth.evaluate(model.PatternBehaviorMonthDay, part, samePart); ok {
			p.Reasoning = fmt.Sprintf("%d%% der Transaktionen %s sind %s",
				percent(p.Share), monthPartLabels[part], p.Category)
			result.Patterns = append(result.Patterns, p)
		}
	}

	band := AmountBand(txn.AbsAmount())
	sameBand := filter(history, func(h *model.Transaction) bool {
		return AmountBand(h.AbsAmount()) == band
	})
	if p, ok := d.amountBand.evaluate(model.PatternBehaviorAmount, band, sameBand); ok {
		p.Reasoning = fmt.Sprintf("%d%% der Beträge im Bereich %s € sind %s",
			percent(p.Share), band, p.Category)
		result.Patterns = append(result.Patterns, p)
	}

	return result
}

// MonthPart buckets a day of month into beginning (<=5), end (>25) or middle.
func MonthPart(day int) string {
	switch {
	case day <= 5:
		return MonthBeginning
	case day > 25:
		return MonthEnd
	default:
		return MonthMiddle
	}
}

// AmountBand buckets an unsigned amount.
func AmountBand(amount float64) string {
	switch {
	case amount < 10:
		return "0-10"
	case amount < 100:
		return "10-100"
	case amount < 500:
		return "100-500"
	default:
		return "500+"
	}
}
