package suggest

import "github.com/Veraticus/kassenbuch/internal/model"

// Stats is a diagnostic snapshot of an engine.
type Stats struct {
	Thresholds          map[model.ConfidenceLevel]float64 `json:"thresholds"`
	MergeStrategy       MergeStrategy                     `json:"merge_strategy"`
	Sources             []model.Source                    `json:"sources"`
	Weights             Weights                           `json:"weights"`
	CacheSize           int                               `json:"cache_size"`
	SimilarityCacheSize int                               `json:"similarity_cache_size"`
	HistoryLimit        int                               `json:"history_limit"`
	PreferencesLoaded   bool                              `json:"preferences_loaded"`
}

// Stats returns a snapshot of the engine state.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	loaded := e.prefs != nil
	e.mu.Unlock()

	stats := Stats{
		CacheSize:         e.cache.Len(),
		PreferencesLoaded: loaded,
		MergeStrategy:     e.cfg.MergeStrategy,
		Weights:           e.cfg.Weights,
		HistoryLimit:      e.cfg.HistoryLimit,
		Thresholds: map[model.ConfidenceLevel]float64{
			model.ConfidenceHigh:   HighThreshold,
			model.ConfidenceMedium: MediumThreshold,
			model.ConfidenceLow:    LowThreshold,
		},
	}

	for _, src := range model.AllSources {
		if e.cfg.Weights.For(src) > 0 {
			stats.Sources = append(stats.Sources, src)
		}
	}

	if sized, ok := e.similarity.(interface{ CacheSize() int }); ok {
		stats.SimilarityCacheSize = sized.CacheSize()
	}
	return stats
}
