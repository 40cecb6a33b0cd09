package suggest

import (
	"fmt"
	"time"

	"github.com/Veraticus/kassenbuch/internal/common"
	"github.com/Veraticus/kassenbuch/internal/model"
)

// MergeStrategy selects how contributions for the same category are combined.
type MergeStrategy string

const (
	// MergeWeighted averages each source's best confidence by source weight.
	MergeWeighted MergeStrategy = "weighted"
	// MergeLegacy pre-multiplies confidences by source weight and folds them
	// into a running average where the new confidence doubles as its weight.
	MergeLegacy MergeStrategy = "legacy"
)

// Weights are the per-source merge weights. A zero weight disables the source.
type Weights struct {
	Similarity   float64
	Patterns     float64
	Rules        float64
	UserBehavior float64
}

// DefaultWeights returns the default source weights.
func DefaultWeights() Weights {
	return Weights{
		Similarity:   0.35,
		Patterns:     0.30,
		Rules:        0.25,
		UserBehavior: 0.10,
	}
}

// For returns the weight of src.
func (w Weights) For(src model.Source) float64 {
	switch src {
	case model.SourceSimilarity:
		return w.Similarity
	case model.SourcePatterns:
		return w.Patterns
	case model.SourceRules:
		return w.Rules
	case model.SourceUserBehavior:
		return w.UserBehavior
	default:
		return 0
	}
}

// Config configures an Engine.
type Config struct {
	MergeStrategy          MergeStrategy
	Weights                Weights
	HistoryLimit           int           // Transactions fetched per suggestion request
	PreferenceHistoryLimit int           // Categorized transactions mined for preferences
	CacheSize              int           // Suggestion cache entries
	CacheTTL               time.Duration // 0 keeps entries until Refresh
	IncludeFeatures        bool          // Adds the feature-bag axis to similarity scores
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MergeStrategy:          MergeWeighted,
		Weights:                DefaultWeights(),
		HistoryLimit:           1000,
		PreferenceHistoryLimit: 500,
		CacheSize:              1000,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.MergeStrategy {
	case MergeWeighted, MergeLegacy:
	default:
		return fmt.Errorf("%w: unknown merge strategy %q", common.ErrInvalidConfig, c.MergeStrategy)
	}

	total := 0.0
	for _, src := range model.AllSources {
		w := c.Weights.For(src)
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %s must be between 0 and 1, got %.2f", common.ErrInvalidConfig, src, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: at least one source weight must be positive", common.ErrInvalidConfig)
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: history limit must be positive", common.ErrInvalidConfig)
	}
	if c.PreferenceHistoryLimit <= 0 {
		return fmt.Errorf("%w: preference history limit must be positive", common.ErrInvalidConfig)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: cache size must be positive", common.ErrInvalidConfig)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: cache ttl must not be negative", common.ErrInvalidConfig)
	}
	return nil
}

// Options controls a single GetSuggestions call.
// MinConfidence zero keeps every candidate; a negative value selects the default.
type Options struct {
	MaxSuggestions       int
	MinConfidence        float64
	IncludeReasons       bool
	PreferHighConfidence bool
}

// DefaultOptions returns the default request options.
func DefaultOptions() Options {
	return Options{
		MaxSuggestions:       5,
		MinConfidence:        0.5,
		IncludeReasons:       true,
		PreferHighConfidence: true,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = DefaultOptions().MaxSuggestions
	}
	if o.MinConfidence < 0 {
		o.MinConfidence = DefaultOptions().MinConfidence
	}
	return o
}

func (o Options) digest() string {
	return fmt.Sprintf("%d|%.4f|%t|%t", o.MaxSuggestions, o.MinConfidence, o.IncludeReasons, o.PreferHighConfidence)
}
