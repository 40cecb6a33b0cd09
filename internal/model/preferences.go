package model

import "time"

// Preference list bounds.
const (
	MaxPreferredCategories = 10
	MaxAvoidedCategories   = 20
)

// CategoryUsage summarizes how often the user picks a category.
type CategoryUsage struct {
	Category  string  `json:"category"`
	Frequency float64 `json:"frequency"` // Percent of mined transactions
	AvgAmount float64 `json:"avg_amount"`
	Count     int     `json:"count"`
}

// UserPreferences holds learned category preferences.
// PreferredCategories is most-recently-used first.
type UserPreferences struct {
	LastUpdated         time.Time       `json:"last_updated"`
	TopCategories       []CategoryUsage `json:"top_categories"`
	PreferredCategories []string        `json:"preferred_categories"`
	AvoidedCategories   []string        `json:"avoided_categories"`
}

// IsPreferred reports whether category is in the preferred list.
func (p *UserPreferences) IsPreferred(category string) bool {
	return contains(p.PreferredCategories, category)
}

// IsAvoided reports whether category is in the avoided list.
func (p *UserPreferences) IsAvoided(category string) bool {
	return contains(p.AvoidedCategories, category)
}

// Prefer moves category to the front of the preferred list, dropping the
// least recently used entry when the list overflows.
func (p *UserPreferences) Prefer(category string) {
	if category == "" {
		return
	}
	next := make([]string, 0, len(p.PreferredCategories)+1)
	next = append(next, category)
	for _, c := range p.PreferredCategories {
		if c != category {
			next = append(next, c)
		}
	}
	if len(next) > MaxPreferredCategories {
		next = next[:MaxPreferredCategories]
	}
	p.PreferredCategories = next
}

// Avoid appends category to the avoided list, dropping the oldest entries
// when the list overflows.
func (p *UserPreferences) Avoid(category string) {
	if category == "" || p.IsAvoided(category) {
		return
	}
	p.AvoidedCategories = append(p.AvoidedCategories, category)
	if overflow := len(p.AvoidedCategories) - MaxAvoidedCategories; overflow > 0 {
		p.AvoidedCategories = append([]string(nil), p.AvoidedCategories[overflow:]...)
	}
}

// Clone returns a deep copy.
func (p *UserPreferences) Clone() *UserPreferences {
	if p == nil {
		return nil
	}
	return &UserPreferences{
		LastUpdated:         p.LastUpdated,
		TopCategories:       append([]CategoryUsage(nil), p.TopCategories...),
		PreferredCategories: append([]string(nil), p.PreferredCategories...),
		AvoidedCategories:   append([]string(nil), p.AvoidedCategories...),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
