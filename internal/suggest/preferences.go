package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/kassenbuch/internal/common"
	"github.com/Veraticus/kassenbuch/internal/features"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/service"
)

// PreferencesKey is the settings key holding the JSON encoded preferences.
const PreferencesKey = "suggestion_user_preferences"

const (
	minedTopCategories  = 10
	minedPreferredCount = 5
)

// LoadUserPreferences reads the stored preferences. When none are stored yet
// they are mined from the categorized history and persisted.
func (e *Engine) LoadUserPreferences(ctx context.Context) (*model.UserPreferences, error) {
	raw, err := e.store.GetSetting(ctx, PreferencesKey)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return e.minePreferences(ctx)
	case err != nil:
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs, err := decodePreferences(raw)
	if errors.Is(err, common.ErrPreferencesCorrupt) {
		common.LogError(ctx, err, "Stored preferences are unreadable, mining them again", common.Fields{
			"key": PreferencesKey,
		})
		return e.minePreferences(ctx)
	}
	return prefs, err
}

func decodePreferences(raw string) (*model.UserPreferences, error) {
	var prefs model.UserPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPreferencesCorrupt, err)
	}
	return &prefs, nil
}

func (e *Engine) minePreferences(ctx context.Context) (*model.UserPreferences, error) {
	history, err := e.store.GetTransactions(ctx, service.TransactionFilter{
		Limit:           e.cfg.PreferenceHistoryLimit,
		CategorizedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history for preferences: %w", err)
	}

	prefs := MinePreferences(history)
	prefs.LastUpdated = e.now()

	if err := e.savePreferences(ctx, prefs); err != nil {
		return nil, err
	}

	common.LogDebug(ctx, "Mined user preferences", common.Fields{
		"transactions": len(history),
		"categories":   len(prefs.TopCategories),
	})
	return prefs, nil
}

// MinePreferences derives preferences from categorized history: the ten most
// used categories, the top five of which become preferred.
func MinePreferences(history []model.Transaction) *model.UserPreferences {
	counts := make(map[string]int)
	totals := make(map[string]float64)
	categorized := 0
	for i := range history {
		if !history[i].IsCategorized() {
			continue
		}
		counts[history[i].Category]++
		totals[history[i].Category] += history[i].AbsAmount()
		categorized++
	}

	prefs := &model.UserPreferences{
		TopCategories:       features.TopCategories(counts, totals, categorized, minedTopCategories),
		PreferredCategories: []string{},
		AvoidedCategories:   []string{},
	}
	for i, usage := range prefs.TopCategories {
		if i >= minedPreferredCount {
			break
		}
		prefs.PreferredCategories = append(prefs.PreferredCategories, usage.Category)
	}
	return prefs
}

func (e *Engine) savePreferences(ctx context.Context, prefs *model.UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := e.store.PutSetting(ctx, PreferencesKey, string(data)); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// preferences returns the cached preferences, loading them on first use.
func (e *Engine) preferences(ctx context.Context) (*model.UserPreferences, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preferencesLocked(ctx)
}

// preferencesLocked expects e.mu to be held.
func (e *Engine) preferencesLocked(ctx context.Context) (*model.UserPreferences, error) {
	if e.prefs != nil {
		return e.prefs, nil
	}

	prefs, err := e.LoadUserPreferences(ctx)
	if err != nil {
		return nil, err
	}
	e.prefs = prefs
	return prefs, nil
}

// UpdateUserPreferences moves selected to the front of the preferred list,
// marks every rejected category as avoided and persists the result. Updates
// are serialized so concurrent feedback is never lost.
func (e *Engine) UpdateUserPreferences(ctx context.Context, selected string, rejected []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.preferencesLocked(ctx)
	if err != nil {
		return err
	}

	updated := current.Clone()
	updated.Prefer(selected)
	for _, category := range rejected {
		if category != selected {
			updated.Avoid(category)
		}
	}
	updated.LastUpdated = e.now()

	if err := e.savePreferences(ctx, updated); err != nil {
		return err
	}
	e.prefs = updated
	return nil
}
