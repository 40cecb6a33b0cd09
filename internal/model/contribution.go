package model

import "time"

// Source names a subsystem that proposes categories.
type Source string

// Suggestion sources in merge order.
const (
	SourceSimilarity   Source = "similarity"
	SourcePatterns     Source = "patterns"
	SourceRules        Source = "rules"
	SourceUserBehavior Source = "user_behavior"
)

// AllSources lists every source in the order the orchestrator merges them.
var AllSources = []Source{SourceSimilarity, SourcePatterns, SourceRules, SourceUserBehavior}

// Evidence is the structured justification a source attaches to a contribution.
// It is implemented only by the evidence types in this package.
type Evidence interface {
	EvidenceSource() Source
	isEvidence()
}

// Contribution is a single category proposal from one source.
type Contribution struct {
	Evidence   Evidence
	Source     Source
	Category   string
	Reasoning  string
	Confidence float64 // As produced by the source, before weighting
}

// SimilarityEvidence backs a proposal derived from similar past transactions.
type SimilarityEvidence struct {
	BestMatch      Transaction `json:"best_match"`
	MatchCount     int         `json:"match_count"`
	BestSimilarity float64     `json:"best_similarity"`
	Score          float64     `json:"score"`
}

// EvidenceSource implements Evidence.
func (SimilarityEvidence) EvidenceSource() Source { return SourceSimilarity }
func (SimilarityEvidence) isEvidence()            {}

// PatternKind identifies which detector produced a pattern.
type PatternKind string

// Pattern kinds.
const (
	PatternRecurring        PatternKind = "recurring"
	PatternSeasonal         PatternKind = "seasonal"
	PatternBehaviorWeekday  PatternKind = "behavior_weekday"
	PatternBehaviorMonthDay PatternKind = "behavior_time_of_month"
	PatternBehaviorAmount   PatternKind = "behavior_amount_range"
	PatternTemporal         PatternKind = "temporal_context"
)

// PatternEvidence backs a proposal derived from a detected pattern.
// Only the fields relevant to Kind are populated.
type PatternEvidence struct {
	NextExpected    *time.Time  `json:"next_expected,omitempty"`
	Kind            PatternKind `json:"kind"`
	IntervalType    string      `json:"interval_type,omitempty"`
	Bucket          string      `json:"bucket,omitempty"`
	Occurrences     int         `json:"occurrences"`
	Total           int         `json:"total,omitempty"`
	Share           float64     `json:"share,omitempty"`
	AvgIntervalDays float64     `json:"avg_interval_days,omitempty"`
	StdDevDays      float64     `json:"std_dev_days,omitempty"`
	AvgAmount       float64     `json:"avg_amount,omitempty"`
}

// EvidenceSource implements Evidence.
func (PatternEvidence) EvidenceSource() Source { return SourcePatterns }
func (PatternEvidence) isEvidence()            {}

// RuleEvidence backs a proposal from a keyword rule.
type RuleEvidence struct {
	Rule               string  `json:"rule"`
	OriginalConfidence float64 `json:"original_confidence"`
}

// EvidenceSource implements Evidence.
func (RuleEvidence) EvidenceSource() Source { return SourceRules }
func (RuleEvidence) isEvidence()            {}

// UserEvidence backs a proposal from the user's own category history.
type UserEvidence struct {
	Frequency    float64 `json:"frequency"`
	AvgAmount    float64 `json:"avg_amount"`
	Count        int     `json:"count"`
	Preferred    bool    `json:"preferred"`
	AmountNearby bool    `json:"amount_nearby"`
}

// EvidenceSource implements Evidence.
func (UserEvidence) EvidenceSource() Source { return SourceUserBehavior }
func (UserEvidence) isEvidence()            {}
