// Package rules maps merchant and booking text to categories with hand-written keyword rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// Sign restricts a rule to expenses or income.
type Sign string

const (
	// SignAny matches regardless of the amount's sign.
	SignAny Sign = ""
	// SignExpense matches negative amounts only.
	SignExpense Sign = "expense"
	// SignIncome matches positive amounts only.
	SignIncome Sign = "income"
)

// Rule is a keyword rule. Regex is matched case-insensitively against
// "recipient description".
type Rule struct {
	Name       string
	Category   string
	Regex      string
	Sign       Sign
	Reasoning  string
	Confidence float64
}

type compiledRule struct {
	regex *regexp.Regexp
	Rule
}

func (r *compiledRule) matches(txn *model.Transaction, text string) bool {
	switch r.Sign {
	case SignExpense:
		if txn.Amount >= 0 {
			return false
		}
	case SignIncome:
		if txn.Amount <= 0 {
			return false
		}
	}
	return r.regex.MatchString(text)
}

// Engine evaluates an ordered rule table.
type Engine struct {
	rules []compiledRule
	mu    sync.RWMutex
}

// NewEngine compiles rules in the given order.
func NewEngine(rules []Rule) (*Engine, error) {
	compiled, err := compile(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// NewDefaultEngine creates an engine with DefaultRules.
func NewDefaultEngine() (*Engine, error) {
	return NewEngine(DefaultRules())
}

func compile(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %s has no category", r.Name)
		}
		if r.Confidence <= 0 || r.Confidence > model.MaxConfidence {
			return nil, fmt.Errorf("rule %s: confidence %.2f out of range", r.Name, r.Confidence)
		}

		regexStr := r.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}
		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", r.Name, err)
		}

		compiled = append(compiled, compiledRule{Rule: r, regex: regex})
	}
	return compiled, nil
}

// Suggestions returns a proposal for every rule that matches txn, in table order.
func (e *Engine) Suggestions(txn model.Transaction) []model.Contribution {
	e.mu.RLock()
	defer e.mu.RUnlock()

	text := strings.TrimSpace(txn.Recipient + " " + txn.Description)
	if text == "" {
		return nil
	}

	var contributions []model.Contribution
	for i := range e.rules {
		rule := &e.rules[i]
		if !rule.matches(&txn, text) {
			continue
		}
		contributions = append(contributions, model.Contribution{
			Source:     model.SourceRules,
			Category:   rule.Category,
			Confidence: rule.Confidence,
			Reasoning:  rule.Reasoning,
			Evidence: model.RuleEvidence{
				Rule:               rule.Name,
				OriginalConfidence: rule.Confidence,
			},
		})
	}
	return contributions
}

// UpdateRules replaces the rule table.
func (e *Engine) UpdateRules(rules []Rule) error {
	compiled, err := compile(rules)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()

	return nil
}

// RuleCount returns the number of loaded rules.
func (e *Engine) RuleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rules)
}

// Rules returns a copy of the loaded rule table.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]Rule, len(e.rules))
	for i := range e.rules {
		rules[i] = e.rules[i].Rule
	}
	return rules
}
