// Package similarity finds categorized past transactions that resemble a new
// one and turns those matches into category proposals.
package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/kassenbuch/internal/cache"
	"github.com/Veraticus/kassenbuch/internal/features"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/service"
)

// Composite weights per axis.
const (
	textWeight     = 0.40
	amountWeight   = 0.30
	temporalWeight = 0.15
	featureWeight  = 0.15
)

const (
	// HistoryLimit is how many recent transactions FindSimilarTransactions scans.
	HistoryLimit = 500

	// DefaultCacheSize bounds the pair cache.
	DefaultCacheSize = 10000

	reasonBoost        = 1.15
	reasonBoostMinimum = 3
)

// HistorySource provides recent transactions, newest first.
type HistorySource interface {
	GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error)
}

// Options controls FindSimilarTransactions and Rank.
type Options struct {
	Limit           int
	MinSimilarity   float64
	TimeWindowDays  int // 0 disables the window
	IncludeFeatures bool
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		Limit:         10,
		MinSimilarity: 0.6,
	}
}

// SuggestOptions controls category suggestions derived from matches.
type SuggestOptions struct {
	TopN                       int
	MinSimilarityForSuggestion float64
	IncludeFeatures            bool
}

// DefaultSuggestOptions returns the default suggestion options.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		TopN:                       3,
		MinSimilarityForSuggestion: 0.6,
	}
}

// Result is one historical transaction that resembles the query.
type Result struct {
	Transaction model.Transaction
	Reasons     []string
	Similarity  float64
	Confidence  float64
}

type weightedScore struct {
	score  Score
	weight float64
}

type pairScore struct {
	reasons    []string
	similarity float64
	confidence float64
}

// Matcher compares transactions and memoizes the text, amount and temporal
// scores of each pair.
type Matcher struct {
	store HistorySource
	pairs *cache.LRU[[]weightedScore]
}

// NewMatcher creates a matcher. store may be nil when only the pure
// operations (Rank, SuggestFromHistory) are used.
func NewMatcher(store HistorySource, cacheSize int) *Matcher {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Matcher{
		store: store,
		pairs: cache.New[[]weightedScore](cacheSize, 0),
	}
}

// FindSimilarTransactions loads recent categorized history from the store and ranks it.
func (m *Matcher) FindSimilarTransactions(ctx context.Context, txn model.Transaction, opts Options) ([]Result, error) {
	history, err := m.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	return m.Rank(txn, history, opts), nil
}

// SuggestCategoriesBySimilarity loads recent history and proposes categories from it.
func (m *Matcher) SuggestCategoriesBySimilarity(ctx context.Context, txn model.Transaction, opts SuggestOptions) ([]model.Contribution, error) {
	history, err := m.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	return m.SuggestFromHistory(txn, history, opts), nil
}

func (m *Matcher) loadHistory(ctx context.Context) ([]model.Transaction, error) {
	if m.store == nil {
		return nil, fmt.Errorf("similarity matcher has no history source")
	}
	history, err := m.store.GetTransactions(ctx, service.TransactionFilter{
		Limit:           HistoryLimit,
		CategorizedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return history, nil
}

// Rank scores every categorized candidate in history against txn and returns
// those at or above MinSimilarity, best first, truncated to Limit.
func (m *Matcher) Rank(txn model.Transaction, history []model.Transaction, opts Options) []Result {
	defaults := DefaultOptions()
	if opts.Limit <= 0 {
		opts.Limit = defaults.Limit
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = defaults.MinSimilarity
	}

	var index *featureIndex
	if opts.IncludeFeatures {
		index = newFeatureIndex(txn, history)
	}

	queryAmount := txn.AbsAmount()
	results := make([]Result, 0)

	for i := range history {
		candidate := history[i]
		if !candidate.IsCategorized() {
			continue
		}
		if opts.TimeWindowDays > 0 && !txn.Date.IsZero() && daysBetween(txn.Date, candidate.Date) > opts.TimeWindowDays {
			continue
		}
		if queryAmount > 0 {
			abs := candidate.AbsAmount()
			if abs < queryAmount*0.1 || abs > queryAmount*10 {
				continue
			}
		}

		var feature *Score
		if index != nil {
			f := index.score(candidate)
			feature = &f
		}

		score := m.compare(txn, candidate, feature)
		if score.similarity < opts.MinSimilarity {
			continue
		}
		results = append(results, Result{
			Transaction: candidate,
			Similarity:  score.similarity,
			Confidence:  score.confidence,
			Reasons:     append([]string(nil), score.reasons...),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// Compare scores a single pair of transactions. Feature bags are built
// without history.
func (m *Matcher) Compare(a, b model.Transaction, includeFeatures bool) Result {
	var feature *Score
	if includeFeatures {
		f := featureScore(features.Extract(a, nil), features.Extract(b, nil))
		feature = &f
	}

	score := m.compare(a, b, feature)
	return Result{
		Transaction: b,
		Similarity:  score.similarity,
		Confidence:  score.confidence,
		Reasons:     append([]string(nil), score.reasons...),
	}
}

// compare combines the memoized base axes with the optional feature axis.
func (m *Matcher) compare(a, b model.Transaction, feature *Score) pairScore {
	axes := m.baseAxes(a, b)
	if feature != nil {
		axes = append(axes[:len(axes):len(axes)], weightedScore{*feature, featureWeight})
	}

	var weighted, totalWeight float64
	var reasons []string
	for _, axis := range axes {
		weighted += axis.score.Value * axis.weight
		totalWeight += axis.weight
		if axis.score.Reason != "" {
			reasons = append(reasons, axis.score.Reason)
		}
	}

	similarity := weighted / totalWeight
	confidence := similarity
	if len(reasons) >= reasonBoostMinimum {
		confidence *= reasonBoost
	}

	return pairScore{
		similarity: similarity,
		confidence: math.Min(confidence, model.MaxConfidence),
		reasons:    reasons,
	}
}

func (m *Matcher) baseAxes(a, b model.Transaction) []weightedScore {
	key := model.PairKey(a, b)
	if cached, ok := m.pairs.Get(key); ok {
		return cached
	}

	axes := []weightedScore{
		{TextSimilarity(a, b), textWeight},
		{AmountSimilarity(a.Amount, b.Amount), amountWeight},
		{TemporalSimilarity(a.Date, b.Date), temporalWeight},
	}
	m.pairs.Set(key, axes)
	return axes
}

func featureScore(a, b features.FeatureBag) Score {
	value := features.Similarity(a, b)
	score := Score{Value: value}
	if value >= 0.8 {
		score.Reason = "Ähnliche Merkmale"
	}
	return score
}

// featureIndex builds history-aware feature bags for one Rank call. The
// merchant block is computed once per distinct recipient.
type featureIndex struct {
	merchants map[string]*features.HistoricalFeatures
	query     features.FeatureBag
	history   []model.Transaction
}

func newFeatureIndex(txn model.Transaction, history []model.Transaction) *featureIndex {
	return &featureIndex{
		merchants: make(map[string]*features.HistoricalFeatures),
		query:     features.Extract(txn, history),
		history:   history,
	}
}

func (ix *featureIndex) score(candidate model.Transaction) Score {
	bag := features.Extract(candidate, nil)

	key := strings.ToLower(strings.TrimSpace(candidate.Recipient))
	hf, ok := ix.merchants[key]
	if !ok {
		hf = features.Historical(candidate.Recipient, ix.history)
		ix.merchants[key] = hf
	}
	bag.History = hf

	return featureScore(ix.query, bag)
}

// SuggestFromHistory groups similar transactions by category and proposes
// the best TopN categories.
func (m *Matcher) SuggestFromHistory(txn model.Transaction, history []model.Transaction, opts SuggestOptions) []model.Contribution {
	defaults := DefaultSuggestOptions()
	if opts.TopN <= 0 {
		opts.TopN = defaults.TopN
	}
	if opts.MinSimilarityForSuggestion <= 0 {
		opts.MinSimilarityForSuggestion = defaults.MinSimilarityForSuggestion
	}

	results := m.Rank(txn, history, Options{
		Limit:           len(history),
		MinSimilarity:   opts.MinSimilarityForSuggestion,
		IncludeFeatures: opts.IncludeFeatures,
	})
	if len(results) == 0 {
		return nil
	}

	type group struct {
		best  Result
		mass  float64
		count int
	}
	groups := make(map[string]*group)
	for _, r := range results {
		g, ok := groups[r.Transaction.Category]
		if !ok {
			g = &group{best: r}
			groups[r.Transaction.Category] = g
		}
		g.mass += r.Similarity * r.Confidence
		g.count++
		if r.Similarity > g.best.Similarity {
			g.best = r
		}
	}

	contributions := make([]model.Contribution, 0, len(groups))
	for category, g := range groups {
		score := g.mass / float64(g.count)
		contributions = append(contributions, model.Contribution{
			Source:     model.SourceSimilarity,
			Category:   category,
			Confidence: math.Min(score, model.MaxConfidence),
			Reasoning:  similarityReasoning(g.count, g.best),
			Evidence: model.SimilarityEvidence{
				BestMatch:      g.best.Transaction,
				MatchCount:     g.count,
				BestSimilarity: g.best.Similarity,
				Score:          score,
			},
		})
	}

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Confidence != contributions[j].Confidence {
			return contributions[i].Confidence > contributions[j].Confidence
		}
		return contributions[i].Category < contributions[j].Category
	})

	if len(contributions) > opts.TopN {
		contributions = contributions[:opts.TopN]
	}
	return contributions
}

func similarityReasoning(count int, best Result) string {
	noun := "ähnliche Transaktionen"
	if count == 1 {
		noun = "ähnliche Transaktion"
	}
	example := best.Transaction.Recipient
	if example == "" {
		example = best.Transaction.Description
	}
	return fmt.Sprintf("%d %s gefunden (z.B. %s, %.2f €, %d%% Ähnlichkeit)",
		count, noun, example, best.Transaction.AbsAmount(), int(math.Round(best.Similarity*100)))
}

// ClearCache drops all memoized pair scores.
func (m *Matcher) ClearCache() {
	m.pairs.Clear()
}

// CacheSize returns the number of memoized pair scores.
func (m *Matcher) CacheSize() int {
	return m.pairs.Len()
}
