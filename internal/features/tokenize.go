package features

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stopWords are dropped during tokenization. Words of two runes or fewer are
// dropped regardless.
var stopWords = map[string]bool{
	"der": true, "die": true, "das": true, "und": true, "oder": true,
	"mit": true, "von": true, "für": true, "fuer": true, "bei": true,
	"aus": true, "zum": true, "zur": true, "den": true, "dem": true,
	"des": true, "ein": true, "eine": true, "auf": true, "nach": true,
	"sagt": true, "danke": true,
}

// Normalize lowercases text with German casing rules and replaces
// punctuation with spaces.
func Normalize(text string) string {
	// A Caser is stateful, so each call gets its own.
	lowered := cases.Lower(language.German).String(text)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lowered)
}

// Tokenize splits text into lowercase tokens without punctuation, short
// tokens or stop words.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) <= 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// SignificantTokens keeps tokens that are likely to identify a merchant:
// at least four runes and not purely numeric.
func SignificantTokens(tokens []string) []string {
	significant := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) < 4 || isNumeric(t) {
			continue
		}
		significant = append(significant, t)
	}
	return significant
}

// Jaccard returns |a∩b| / |a∪b| over the token sets. Two empty sets score 0.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// FuzzyRecipientMatch reports whether two merchant names refer to the same
// entity: at least 70% of one side's whitespace tokens occur as substrings of
// the other side's tokens.
func FuzzyRecipientMatch(a, b string) bool {
	return RecipientOverlap(a, b) >= 0.7
}

// RecipientOverlap returns the larger of the two directional token overlap ratios.
func RecipientOverlap(a, b string) float64 {
	tokensA := strings.Fields(Normalize(a))
	tokensB := strings.Fields(Normalize(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	return max(overlapRatio(tokensA, tokensB), overlapRatio(tokensB, tokensA))
}

func overlapRatio(from, in []string) float64 {
	matched := 0
	for _, t := range from {
		for _, other := range in {
			if strings.Contains(other, t) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(from))
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
