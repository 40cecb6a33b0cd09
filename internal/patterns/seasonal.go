package patterns

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/kassenbuch/internal/features"
	"github.com/Veraticus/kassenbuch/internal/model"
)

// Season is a fixed three-month bucket.
type Season string

// Seasons.
const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

var seasonLabels = map[Season]string{
	Winter: "Winter",
	Spring: "Frühling",
	Summer: "Sommer",
	Autumn: "Herbst",
}

// SeasonOf maps a month to its season. December belongs to winter.
func SeasonOf(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// SeasonalResult reports whether similar transactions cluster in the
// transaction's season.
type SeasonalResult struct {
	Season             Season
	SuggestedCategory  string
	Reasoning          string
	SeasonalCount      int
	ContextCount       int
	SeasonalShare      float64
	Confidence         float64
	HasSeasonalPattern bool
}

// SeasonalDetector compares the season of a transaction with the seasons of
// past transactions sharing a recipient token.
type SeasonalDetector struct {
	MinShare       float64
	MinOccurrences int
}

// NewSeasonalDetector returns a detector with the default thresholds.
func NewSeasonalDetector() *SeasonalDetector {
	return &SeasonalDetector{MinShare: 0.6, MinOccurrences: 2}
}

// Detect checks txn against history.
func (d *SeasonalDetector) Detect(txn model.Transaction, history []model.Transaction) SeasonalResult {
	if txn.Date.IsZero() {
		return SeasonalResult{}
	}

	tokens := features.Tokenize(txn.Recipient)
	if len(tokens) == 0 {
		return SeasonalResult{}
	}

	related := filter(history, func(h *model.Transaction) bool {
		return dated(h) && sharesToken(tokens, features.Tokenize(h.Recipient))
	})
	if len(related) == 0 {
		return SeasonalResult{}
	}

	season := SeasonOf(txn.Date.Month())
	sameSeason := filter(related, func(h *model.Transaction) bool {
		return SeasonOf(h.Date.Month()) == season
	})

	share := float64(len(sameSeason)) / float64(len(related))
	result := SeasonalResult{
		Season:        season,
		SeasonalCount: len(sameSeason),
		ContextCount:  len(related),
		SeasonalShare: share,
	}
	if share < d.MinShare || len(sameSeason) < d.MinOccurrences {
		return result
	}

	result.HasSeasonalPattern = true
	result.Confidence = math.Min(0.95, share+0.2)
	result.SuggestedCategory = dominantCategory(sameSeason).Category
	result.Reasoning = fmt.Sprintf("%d%% ähnlicher Transaktionen fallen in den %s",
		percent(share), seasonLabels[season])
	return result
}

// Contribution converts the result into a category proposal.
func (r SeasonalResult) Contribution() (model.Contribution, bool) {
	if !r.HasSeasonalPattern || r.SuggestedCategory == "" {
		return model.Contribution{}, false
	}
	return model.Contribution{
		Source:     model.SourcePatterns,
		Category:   r.SuggestedCategory,
		Confidence: r.Confidence,
		Reasoning:  r.Reasoning,
		Evidence: model.PatternEvidence{
			Kind:        model.PatternSeasonal,
			Bucket:      string(r.Season),
			Occurrences: r.SeasonalCount,
			Total:       r.ContextCount,
			Share:       r.SeasonalShare,
		},
	}, true
}

func sharesToken(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
