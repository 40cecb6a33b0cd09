package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/kassenbuch/internal/common"
	"github.com/Veraticus/kassenbuch/internal/similarity"
	"github.com/Veraticus/kassenbuch/internal/suggest"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/kassenbuch/kassenbuch.db"

// SuggestSettings is the resolved configuration of the suggestion engine.
type SuggestSettings struct {
	Options             suggest.Options
	Engine              suggest.Config
	SimilarityCacheSize int
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	engine := suggest.DefaultConfig()
	opts := suggest.DefaultOptions()

	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("suggest.max_suggestions", opts.MaxSuggestions)
	v.SetDefault("suggest.min_confidence", opts.MinConfidence)
	v.SetDefault("suggest.merge_strategy", string(engine.MergeStrategy))
	v.SetDefault("suggest.history_limit", engine.HistoryLimit)
	v.SetDefault("suggest.preference_history_limit", engine.PreferenceHistoryLimit)
	v.SetDefault("suggest.cache_size", engine.CacheSize)
	v.SetDefault("suggest.cache_ttl", engine.CacheTTL)
	v.SetDefault("suggest.similarity_cache_size", similarity.DefaultCacheSize)
	v.SetDefault("suggest.include_features", engine.IncludeFeatures)

	v.SetDefault("suggest.weights.similarity", engine.Weights.Similarity)
	v.SetDefault("suggest.weights.patterns", engine.Weights.Patterns)
	v.SetDefault("suggest.weights.rules", engine.Weights.Rules)
	v.SetDefault("suggest.weights.user_behavior", engine.Weights.UserBehavior)
}

// DatabasePath returns the configured database path with ~ and variables expanded.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// LoadSuggestConfig reads and validates the suggestion settings.
func LoadSuggestConfig(v *viper.Viper) (*SuggestSettings, error) {
	settings := &SuggestSettings{
		Engine: suggest.Config{
			MergeStrategy:          suggest.MergeStrategy(v.GetString("suggest.merge_strategy")),
			HistoryLimit:           v.GetInt("suggest.history_limit"),
			PreferenceHistoryLimit: v.GetInt("suggest.preference_history_limit"),
			CacheSize:              v.GetInt("suggest.cache_size"),
			CacheTTL:               v.GetDuration("suggest.cache_ttl"),
			IncludeFeatures:        v.GetBool("suggest.include_features"),
			Weights: suggest.Weights{
				Similarity:   v.GetFloat64("suggest.weights.similarity"),
				Patterns:     v.GetFloat64("suggest.weights.patterns"),
				Rules:        v.GetFloat64("suggest.weights.rules"),
				UserBehavior: v.GetFloat64("suggest.weights.user_behavior"),
			},
		},
		Options: suggest.Options{
			MaxSuggestions:       v.GetInt("suggest.max_suggestions"),
			MinConfidence:        v.GetFloat64("suggest.min_confidence"),
			IncludeReasons:       true,
			PreferHighConfidence: true,
		},
		SimilarityCacheSize: v.GetInt("suggest.similarity_cache_size"),
	}

	if err := settings.Engine.Validate(); err != nil {
		return nil, err
	}
	if settings.Options.MaxSuggestions <= 0 {
		return nil, fmt.Errorf("%w: suggest.max_suggestions must be positive", common.ErrInvalidConfig)
	}
	if settings.Options.MinConfidence < 0 || settings.Options.MinConfidence > 1 {
		return nil, fmt.Errorf("%w: suggest.min_confidence must be between 0 and 1", common.ErrInvalidConfig)
	}
	if settings.SimilarityCacheSize <= 0 {
		return nil, fmt.Errorf("%w: suggest.similarity_cache_size must be positive", common.ErrInvalidConfig)
	}

	return settings, nil
}
