package suggest

import (
	"math"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// UncorroboratedCeiling caps a category that no similarity or rule
// contribution supports. Pattern and user-behavior signals alone never lift
// a suggestion beyond a plain suggest.
const UncorroboratedCeiling = 0.65

// candidate accumulates every contribution for one category.
type candidate struct {
	evidence map[model.Source][]model.Evidence
	best     map[model.Source]float64 // Highest raw confidence per source
	category string
	sources  []model.Source
	reasons  []string

	// Running state of the legacy strategy.
	legacyConfidence float64
	legacyWeight     float64
	legacyStarted    bool
}

// merger groups contributions by category in arrival order.
type merger struct {
	byCategory map[string]*candidate
	weights    Weights
	strategy   MergeStrategy
	order      []string
}

func newMerger(strategy MergeStrategy, weights Weights) *merger {
	return &merger{
		byCategory: make(map[string]*candidate),
		weights:    weights,
		strategy:   strategy,
	}
}

func (m *merger) add(c model.Contribution) {
	weight := m.weights.For(c.Source)
	if weight <= 0 || c.Category == "" {
		return
	}

	cand, ok := m.byCategory[c.Category]
	if !ok {
		cand = &candidate{
			category: c.Category,
			best:     make(map[model.Source]float64),
			evidence: make(map[model.Source][]model.Evidence),
		}
		m.byCategory[c.Category] = cand
		m.order = append(m.order, c.Category)
	}

	if prev, seen := cand.best[c.Source]; !seen {
		cand.sources = append(cand.sources, c.Source)
		cand.best[c.Source] = c.Confidence
	} else if c.Confidence > prev {
		cand.best[c.Source] = c.Confidence
	}

	if c.Reasoning != "" && !containsString(cand.reasons, c.Reasoning) {
		cand.reasons = append(cand.reasons, c.Reasoning)
	}
	if c.Evidence != nil {
		cand.evidence[c.Source] = append(cand.evidence[c.Source], c.Evidence)
	}

	weighted := c.Confidence * weight
	if !cand.legacyStarted {
		cand.legacyConfidence = weighted
		cand.legacyWeight = weight
		cand.legacyStarted = true
		return
	}
	cand.legacyConfidence = mergeRunning(cand.legacyConfidence, cand.legacyWeight, weighted)
	cand.legacyWeight += weighted
}

// mergeRunning folds next into a running average in which next is its own weight.
func mergeRunning(existing, existingWeight, next float64) float64 {
	if existingWeight+next == 0 {
		return existing
	}
	return (existing*existingWeight + next*next) / (existingWeight + next)
}

// confidence returns the merged confidence of cand, capped at MaxConfidence.
func (m *merger) confidence(cand *candidate) float64 {
	var merged float64
	switch m.strategy {
	case MergeLegacy:
		merged = cand.legacyConfidence
	default:
		var sum, total float64
		for _, src := range cand.sources {
			w := m.weights.For(src)
			sum += cand.best[src] * w
			total += w
		}
		if total > 0 {
			merged = sum / total
		}
	}
	return math.Min(merged, model.MaxConfidence)
}

// suggestions returns one unenriched suggestion per category in arrival order.
func (m *merger) suggestions() []model.Suggestion {
	out := make([]model.Suggestion, 0, len(m.order))
	for _, category := range m.order {
		cand := m.byCategory[category]
		out = append(out, model.Suggestion{
			Category:   cand.category,
			Confidence: m.confidence(cand),
			Sources:    sortSources(cand.sources),
			Reasons:    cand.reasons,
			Evidence:   cand.evidence,
		})
	}
	return out
}

// personalize boosts preferred and dampens avoided categories.
func personalize(confidence float64, category string, prefs *model.UserPreferences) float64 {
	if prefs == nil {
		return confidence
	}
	if prefs.IsPreferred(category) {
		confidence *= 1.1
	}
	if prefs.IsAvoided(category) {
		confidence *= 0.8
	}
	return math.Min(confidence, model.MaxConfidence)
}

// capUncorroborated applies UncorroboratedCeiling unless sources contain a
// similarity or rule contribution.
func capUncorroborated(confidence float64, sources []model.Source) float64 {
	for _, src := range sources {
		if src == model.SourceSimilarity || src == model.SourceRules {
			return confidence
		}
	}
	return math.Min(confidence, UncorroboratedCeiling)
}

func sortSources(sources []model.Source) []model.Source {
	sorted := make([]model.Source, 0, len(sources))
	for _, src := range model.AllSources {
		for _, s := range sources {
			if s == src {
				sorted = append(sorted, src)
				break
			}
		}
	}
	return sorted
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
