package patterns

import (
	"sort"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// dominance describes the most common category within a set of transactions.
type dominance struct {
	Category string
	Count    int
	Total    int // categorized transactions considered
	Share    float64
}

// dominantCategory finds the most frequent category among the categorized
// transactions. Ties go to the alphabetically first category.
func dominantCategory(txns []model.Transaction) dominance {
	counts := make(map[string]int)
	total := 0
	for i := range txns {
		if !txns[i].IsCategorized() {
			continue
		}
		counts[txns[i].Category]++
		total++
	}
	if total == 0 {
		return dominance{}
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	best := dominance{Total: total}
	for _, c := range categories {
		if counts[c] > best.Count {
			best.Category = c
			best.Count = counts[c]
		}
	}
	best.Share = float64(best.Count) / float64(total)
	return best
}

func filter(txns []model.Transaction, keep func(*model.Transaction) bool) []model.Transaction {
	var out []model.Transaction
	for i := range txns {
		if keep(&txns[i]) {
			out = append(out, txns[i])
		}
	}
	return out
}

func dated(txn *model.Transaction) bool {
	return !txn.Date.IsZero()
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func percent(share float64) int {
	return int(share*100 + 0.5)
}
