// Package suggest combines similarity, pattern, rule and user-behavior
// signals into ranked category suggestions for a transaction.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/kassenbuch/internal/cache"
	"github.com/Veraticus/kassenbuch/internal/common"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/patterns"
	"github.com/Veraticus/kassenbuch/internal/rules"
	"github.com/Veraticus/kassenbuch/internal/service"
	"github.com/Veraticus/kassenbuch/internal/similarity"
)

// SimilaritySource proposes categories from similar past transactions.
type SimilaritySource interface {
	SuggestFromHistory(txn model.Transaction, history []model.Transaction, opts similarity.SuggestOptions) []model.Contribution
}

// PatternSource proposes categories from detected history patterns.
type PatternSource interface {
	Suggestions(txn model.Transaction, history []model.Transaction, opts patterns.Options) []model.Contribution
}

// RuleSource proposes categories from keyword rules.
type RuleSource interface {
	Suggestions(txn model.Transaction) []model.Contribution
}

// Engine produces ranked category suggestions.
type Engine struct {
	store      service.SuggestionStore
	similarity SimilaritySource
	patterns   PatternSource
	rules      RuleSource
	cache      *cache.LRU[[]model.Suggestion]
	prefs      *model.UserPreferences
	now        func() time.Time
	cfg        Config
	warmups    sync.WaitGroup
	mu         sync.Mutex
}

// NewEngine wires an engine from its collaborators.
func NewEngine(store service.SuggestionStore, matcher SimilaritySource, detector PatternSource, ruleEngine RuleSource, cfg Config) (*Engine, error) {
	if store == nil || matcher == nil || detector == nil || ruleEngine == nil {
		return nil, fmt.Errorf("suggestion engine requires a store, matcher, detector and rule engine")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		store:      store,
		similarity: matcher,
		patterns:   detector,
		rules:      ruleEngine,
		cache:      cache.New[[]model.Suggestion](cfg.CacheSize, cfg.CacheTTL),
		now:        time.Now,
		cfg:        cfg,
	}, nil
}

// NewDefaultEngine creates an engine with the built-in matcher, detectors and rules.
func NewDefaultEngine(store service.SuggestionStore, cfg Config, similarityCacheSize int) (*Engine, error) {
	ruleEngine, err := rules.NewDefaultEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to build rule engine: %w", err)
	}
	return NewEngine(store, similarity.NewMatcher(store, similarityCacheSize), patterns.NewDetector(), ruleEngine, cfg)
}

// GetSuggestions returns ranked suggestions for txn. Failures are logged and
// yield an empty list; an empty list is a normal outcome.
func (e *Engine) GetSuggestions(ctx context.Context, txn model.Transaction, opts Options) []model.Suggestion {
	opts = opts.withDefaults()
	key := cacheKey(txn, opts)

	if cached, ok := e.cache.Get(key); ok {
		return cloneSuggestions(cached)
	}

	suggestions, err := e.compute(ctx, txn, opts)
	if err != nil {
		common.LogError(ctx, err, "Failed to compute suggestions", common.Fields{
			"transaction_id": txn.ID,
			"recipient":      txn.Recipient,
		})
		return []model.Suggestion{}
	}

	if len(suggestions) > 0 {
		e.cache.Set(key, cloneSuggestions(suggestions))
	}
	return suggestions
}

func (e *Engine) compute(ctx context.Context, txn model.Transaction, opts Options) ([]model.Suggestion, error) {
	suggestions, err := e.computeSuggestions(ctx, txn, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSuggestionsFailed, err)
	}
	return suggestions, nil
}

func (e *Engine) computeSuggestions(ctx context.Context, txn model.Transaction, opts Options) ([]model.Suggestion, error) {
	prefs, err := e.preferences(ctx)
	if err != nil {
		return nil, err
	}

	history, err := e.store.GetTransactions(ctx, service.TransactionFilter{Limit: e.cfg.HistoryLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	history = excludeTransaction(history, txn)

	contributions, err := e.collect(ctx, txn, history, prefs)
	if err != nil {
		return nil, err
	}

	m := newMerger(e.cfg.MergeStrategy, e.cfg.Weights)
	for _, batch := range contributions {
		for _, c := range batch {
			m.add(c)
		}
	}

	merged := m.suggestions()
	suggestions := make([]model.Suggestion, 0, len(merged))
	for i := range merged {
		confidence := personalize(merged[i].Confidence, merged[i].Category, prefs)
		merged[i].Confidence = capUncorroborated(confidence, merged[i].Sources)
		if merged[i].Confidence >= opts.MinConfidence {
			suggestions = append(suggestions, merged[i])
		}
	}

	rank(suggestions, opts.PreferHighConfidence)
	if len(suggestions) > opts.MaxSuggestions {
		suggestions = suggestions[:opts.MaxSuggestions]
	}

	for i := range suggestions {
		if err := e.enrich(ctx, &suggestions[i], opts.IncludeReasons); err != nil {
			return nil, err
		}
	}

	common.LogDebug(ctx, "Computed suggestions", common.Fields{
		"recipient":   txn.Recipient,
		"history":     len(history),
		"candidates":  len(merged),
		"suggestions": len(suggestions),
	})
	return suggestions, nil
}

// collect runs every enabled source concurrently. Each source writes only
// its own slot, in model.AllSources order.
func (e *Engine) collect(ctx context.Context, txn model.Transaction, history []model.Transaction, prefs *model.UserPreferences) ([][]model.Contribution, error) {
	results := make([][]model.Contribution, len(model.AllSources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range model.AllSources {
		if e.cfg.Weights.For(src) <= 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.run(src, txn, history, prefs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("suggestion sources failed: %w", err)
	}
	return results, nil
}

func (e *Engine) run(src model.Source, txn model.Transaction, history []model.Transaction, prefs *model.UserPreferences) []model.Contribution {
	switch src {
	case model.SourceSimilarity:
		opts := similarity.DefaultSuggestOptions()
		opts.IncludeFeatures = e.cfg.IncludeFeatures
		return e.similarity.SuggestFromHistory(txn, recent(history, similarity.HistoryLimit), opts)
	case model.SourcePatterns:
		return e.patterns.Suggestions(txn, history, patterns.DefaultOptions())
	case model.SourceRules:
		return e.rules.Suggestions(txn)
	case model.SourceUserBehavior:
		return userBehaviorContributions(txn, prefs)
	default:
		return nil
	}
}

// LearnFromFeedback records the user's choice and updates the preferences.
func (e *Engine) LearnFromFeedback(ctx context.Context, txn model.Transaction, selected string, rejected []string) error {
	if selected == "" {
		return fmt.Errorf("selected category is required")
	}

	hash := txn.Hash
	if hash == "" {
		hash = txn.GenerateHash()
	}

	feedback := &model.Feedback{
		ID:                 uuid.NewString(),
		CreatedAt:          e.now(),
		Date:               txn.Date,
		TransactionHash:    hash,
		Fingerprint:        txn.Fingerprint(),
		Recipient:          txn.Recipient,
		Amount:             txn.Amount,
		SelectedCategory:   selected,
		RejectedCategories: append([]string{}, rejected...),
	}
	if err := e.store.SaveFeedback(ctx, feedback); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	if err := e.UpdateUserPreferences(ctx, selected, rejected); err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	common.LogDebug(ctx, "Learned from feedback", common.Fields{
		"selected": selected,
		"rejected": rejected,
	})
	return nil
}

// Refresh clears the suggestion cache and reloads preferences on next use.
func (e *Engine) Refresh() {
	e.cache.Clear()

	e.mu.Lock()
	e.prefs = nil
	e.mu.Unlock()
}

// PrecomputeSuggestions warms the cache for txn in the background. Already
// cached transactions are skipped and empty results are not cached.
func (e *Engine) PrecomputeSuggestions(ctx context.Context, txn model.Transaction, opts Options) {
	opts = opts.withDefaults()
	key := cacheKey(txn, opts)
	if e.cache.Contains(key) {
		return
	}

	e.warmups.Add(1)
	go func() {
		defer e.warmups.Done()

		suggestions, err := e.compute(ctx, txn, opts)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				common.LogError(ctx, err, "Failed to precompute suggestions", common.Fields{
					"transaction_id": txn.ID,
				})
			}
			return
		}
		if len(suggestions) > 0 {
			e.cache.Set(key, cloneSuggestions(suggestions))
		}
	}()
}

// Wait blocks until every background warm-up has finished.
func (e *Engine) Wait() {
	e.warmups.Wait()
}

func cacheKey(txn model.Transaction, opts Options) string {
	return txn.Fingerprint() + "#" + opts.digest()
}

// excludeTransaction drops txn itself from history when it is already stored.
func excludeTransaction(history []model.Transaction, txn model.Transaction) []model.Transaction {
	if txn.ID == "" {
		return history
	}
	filtered := make([]model.Transaction, 0, len(history))
	for i := range history {
		if history[i].ID != txn.ID {
			filtered = append(filtered, history[i])
		}
	}
	return filtered
}

// recent returns the newest n transactions of a newest-first history.
func recent(history []model.Transaction, n int) []model.Transaction {
	if len(history) > n {
		return history[:n]
	}
	return history
}

func cloneSuggestions(in []model.Suggestion) []model.Suggestion {
	out := make([]model.Suggestion, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
