// Package patterns mines transaction history for recurring, seasonal,
// behavioral and calendar regularities tied to categories.
//
// Every detector is a pure function of the query transaction and the
// history. Below its evidence threshold a detector reports no pattern
// instead of a low-confidence guess.
package patterns

import (
	"sort"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// Options controls Suggestions.
type Options struct {
	TopN          int
	MinConfidence float64
}

// DefaultOptions returns the default suggestion options.
func DefaultOptions() Options {
	return Options{TopN: 3, MinConfidence: 0.6}
}

// Analysis bundles the output of every detector.
type Analysis struct {
	Recurring  RecurringResult
	Seasonal   SeasonalResult
	Behavioral BehavioralResult
	Temporal   TemporalResult
}

// Contributions flattens every detected pattern into category proposals.
func (a Analysis) Contributions() []model.Contribution {
	var contributions []model.Contribution
	if c, ok := a.Recurring.Contribution(); ok {
		contributions = append(contributions, c)
	}
	if c, ok := a.Seasonal.Contribution(); ok {
		contributions = append(contributions, c)
	}
	contributions = append(contributions, a.Behavioral.Contributions()...)
	if c, ok := a.Temporal.Contribution(); ok {
		contributions = append(contributions, c)
	}
	return contributions
}

// Detector runs all pattern detectors.
type Detector struct {
	recurring  *RecurringDetector
	seasonal   *SeasonalDetector
	behavioral *BehavioralDetector
	temporal   *TemporalDetector
}

// NewDetector creates a detector with default thresholds.
func NewDetector() *Detector {
	return &Detector{
		recurring:  NewRecurringDetector(),
		seasonal:   NewSeasonalDetector(),
		behavioral: NewBehavioralDetector(),
		temporal:   NewTemporalDetector(),
	}
}

// Analyze runs every detector against history.
func (d *Detector) Analyze(txn model.Transaction, history []model.Transaction) Analysis {
	return Analysis{
		Recurring:  d.recurring.Detect(txn, history),
		Seasonal:   d.seasonal.Detect(txn, history),
		Behavioral: d.behavioral.Detect(txn, history),
		Temporal:   d.temporal.Detect(txn, history),
	}
}

// Suggestions returns the strongest pattern-based proposals, best first.
func (d *Detector) Suggestions(txn model.Transaction, history []model.Transaction, opts Options) []model.Contribution {
	defaults := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = defaults.TopN
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = defaults.MinConfidence
	}

	var contributions []model.Contribution
	for _, c := range d.Analyze(txn, history).Contributions() {
		if c.Confidence >= opts.MinConfidence {
			contributions = append(contributions, c)
		}
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Confidence > contributions[j].Confidence
	})

	if len(contributions) > opts.TopN {
		contributions = contributions[:opts.TopN]
	}
	return contributions
}
