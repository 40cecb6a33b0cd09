package features

import "math"

// Similarity compares two feature bags in [0,1]. It averages three
// components: numeric closeness, boolean agreement and token Jaccard.
// Components without comparable pairs are skipped rather than penalized.
func Similarity(a, b FeatureBag) float64 {
	var components []float64

	if score, ok := numericSimilarity(a.numeric(), b.numeric()); ok {
		components = append(components, score)
	}
	if score, ok := booleanSimilarity(a.booleans(), b.booleans()); ok {
		components = append(components, score)
	}
	if len(a.Tokens) > 0 || len(b.Tokens) > 0 {
		components = append(components, Jaccard(a.Tokens, b.Tokens))
	}

	if len(components) == 0 {
		return 0
	}

	var sum float64
	for _, c := range components {
		sum += c
	}
	return sum / float64(len(components))
}

func (f *FeatureBag) numeric() map[string]float64 {
	values := map[string]float64{
		"abs_amount":   f.AbsAmount,
		"amount_bin":   float64(f.AmountBin),
		"day_of_week":  float64(f.DayOfWeek),
		"day_of_month": float64(f.DayOfMonth),
		"month":        float64(f.Month),
		"token_count":  float64(f.TokenCount),
	}
	if f.History != nil {
		values["merchant_frequency"] = float64(f.History.MerchantFrequency)
		values["merchant_avg_amount"] = f.History.MerchantAvgAmount
		values["avg_transaction_amount"] = f.History.AvgTransactionAmount
	}
	return values
}

func (f *FeatureBag) booleans() map[string]bool {
	return map[string]bool{
		"is_income":       f.IsIncome,
		"is_expense":      f.IsExpense,
		"has_recipient":   f.HasRecipient,
		"has_description": f.HasDescription,
		"is_weekend":      f.IsWeekend,
		"is_month_start":  f.IsMonthStart,
		"is_month_end":    f.IsMonthEnd,
		"is_round_amount": f.IsRoundAmount,
		"is_small_amount": f.IsSmallAmount,
		"is_large_amount": f.IsLargeAmount,
		"is_online_shop":  f.IsOnlineShop,
		"is_restaurant":   f.IsRestaurant,
		"is_supermarket":  f.IsSupermarket,
		"is_gas_station":  f.IsGasStation,
		"is_subscription": f.IsSubscription,
		"is_insurance":    f.IsInsurance,
		"is_utility":      f.IsUtility,
	}
}

func numericSimilarity(a, b map[string]float64) (float64, bool) {
	var sum float64
	n := 0
	for key, va := range a {
		vb, ok := b[key]
		if !ok {
			continue
		}
		sum += closeness(va, vb)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// closeness is 1 - |a-b| / max(|a|,|b|); two zeros are identical.
func closeness(a, b float64) float64 {
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 1
	}
	return math.Max(0, 1-math.Abs(a-b)/denom)
}

func booleanSimilarity(a, b map[string]bool) (float64, bool) {
	matches := 0
	n := 0
	for key, va := range a {
		vb, ok := b[key]
		if !ok {
			continue
		}
		if va == vb {
			matches++
		}
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(matches) / float64(n), true
}
