package model

import (
	"fmt"
	"sort"
	"time"
)

// MaxConfidence caps every merged or adjusted confidence.
const MaxConfidence = 0.99

// ConfidenceLevel buckets a confidence into a display tier.
type ConfidenceLevel string

// Confidence tiers, highest first.
const (
	ConfidenceHigh    ConfidenceLevel = "HIGH"
	ConfidenceMedium  ConfidenceLevel = "MEDIUM"
	ConfidenceLow     ConfidenceLevel = "LOW"
	ConfidenceVeryLow ConfidenceLevel = "VERY_LOW"
)

// Rank orders tiers; higher is better.
func (l ConfidenceLevel) Rank() int {
	switch l {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// SuggestedAction tells the caller how assertively to present a suggestion.
type SuggestedAction string

// Suggested actions.
const (
	ActionAutoApply       SuggestedAction = "auto_apply"
	ActionSuggestStrongly SuggestedAction = "suggest_strongly"
	ActionSuggest         SuggestedAction = "suggest"
	ActionShowOption      SuggestedAction = "show_option"
)

// Suggestion is a merged, ranked category proposal returned to callers.
type Suggestion struct {
	LastUsed        *time.Time             `json:"last_used,omitempty"`
	Evidence        map[Source][]Evidence  `json:"evidence,omitempty"`
	Category        string                 `json:"category"`
	ConfidenceLevel ConfidenceLevel        `json:"confidence_level"`
	SuggestedAction SuggestedAction        `json:"suggested_action"`
	Icon            string                 `json:"icon"`
	Color           string                 `json:"color"`
	Reasoning       string                 `json:"reasoning,omitempty"`
	Sources         []Source               `json:"sources"`
	Reasons         []string               `json:"reasons,omitempty"`
	Confidence      float64                `json:"confidence"`
	UsageCount      int                    `json:"usage_count"`
}

// HasSource reports whether src contributed to the suggestion.
func (s *Suggestion) HasSource(src Source) bool {
	for _, existing := range s.Sources {
		if existing == src {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices, maps or pointers with s.
func (s Suggestion) Clone() Suggestion {
	out := s
	if s.LastUsed != nil {
		lastUsed := *s.LastUsed
		out.LastUsed = &lastUsed
	}
	if s.Sources != nil {
		out.Sources = append([]Source(nil), s.Sources...)
	}
	if s.Reasons != nil {
		out.Reasons = append([]string(nil), s.Reasons...)
	}
	if s.Evidence != nil {
		out.Evidence = make(map[Source][]Evidence, len(s.Evidence))
		for src, evidence := range s.Evidence {
			out.Evidence[src] = append([]Evidence(nil), evidence...)
		}
	}
	return out
}

// Validate ensures the Suggestion has valid data.
func (s *Suggestion) Validate() error {
	if s.Category == "" {
		return fmt.Errorf("category name is required")
	}
	if s.Confidence < 0.0 || s.Confidence > MaxConfidence {
		return fmt.Errorf("confidence must be between 0.0 and %.2f, got %.2f", MaxConfidence, s.Confidence)
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("suggestion for %q has no sources", s.Category)
	}
	return nil
}

// Suggestions is a slice of Suggestion that supports sorting and utility methods.
type Suggestions []Suggestion

// Len implements sort.Interface.
func (s Suggestions) Len() int {
	return len(s)
}

// Less implements sort.Interface - higher confidence comes first.
func (s Suggestions) Less(i, j int) bool {
	if s[i].Confidence != s[j].Confidence {
		return s[i].Confidence > s[j].Confidence
	}
	return s[i].Category < s[j].Category
}

// Swap implements sort.Interface.
func (s Suggestions) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Sort sorts the suggestions by confidence in descending order.
func (s Suggestions) Sort() {
	sort.Sort(s)
}

// Top returns the highest-confidence suggestion, or nil if empty.
func (s Suggestions) Top() *Suggestion {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

// Categories returns the category names in their current order.
func (s Suggestions) Categories() []string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Category
	}
	return names
}

// Validate ensures all suggestions are valid and categories are unique.
func (s Suggestions) Validate() error {
	seen := make(map[string]bool)

	for i := range s {
		if err := s[i].Validate(); err != nil {
			return fmt.Errorf("invalid suggestion at index %d: %w", i, err)
		}
		if seen[s[i].Category] {
			return fmt.Errorf("duplicate category %q in suggestions", s[i].Category)
		}
		seen[s[i].Category] = true
	}

	return nil
}
