// Package features turns transactions into structured feature bags.
package features

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// AmountLadder holds the upper bounds of the amount bins.
var AmountLadder = []float64{5, 10, 25, 50, 100, 250, 500, 1000}

// Business-type predicates over "recipient description". They may overlap.
var (
	onlineShopPattern   = regexp.MustCompile(`(?i)amazon|ebay|zalando|otto\b|aliexpress|paypal|online|shop\b|versand`)
	restaurantPattern   = regexp.MustCompile(`(?i)restaurant|caf[eé]|pizz|burger|mcdonald|bistro|imbiss|sushi|kebab|d[oö]ner|lieferando|wolt|\bbar\b`)
	supermarketPattern  = regexp.MustCompile(`(?i)rewe|edeka|aldi|lidl|netto|penny|kaufland|norma|supermarkt|\breal\b`)
	gasStationPattern   = regexp.MustCompile(`(?i)\baral\b|shell|\besso\b|totalenergies|\btotal\b|\bjet\b|tankstelle|agip|\bomv\b`)
	subscriptionPattern = regexp.MustCompile(`(?i)netflix|spotify|disney|dazn|\bsky\b|prime|apple\.com|youtube|abo\b|abonnement|subscription|mitgliedschaft`)
	insurancePattern    = regexp.MustCompile(`(?i)versicherung|allianz|\baxa\b|\bhuk\b|\bergo\b|debeka|generali|insurance`)
	utilityPattern      = regexp.MustCompile(`(?i)stadtwerke|strom|energie|\bgas\b|wasser|telekom|vodafone|\bo2\b|e\.on|vattenfall|1&1|internet`)
)

// FeatureBag is the structured view of one transaction.
// History is nil unless historical data was supplied.
type FeatureBag struct {
	History *HistoricalFeatures

	Tokens            []string
	SignificantTokens []string

	// Basic
	AbsAmount      float64
	IsIncome       bool
	IsExpense      bool
	HasRecipient   bool
	HasDescription bool

	// Temporal
	DayOfWeek    int
	DayOfMonth   int
	Month        int
	Quarter      int
	IsWeekend    bool
	IsMonthStart bool
	IsMonthEnd   bool

	// Amount
	AmountBin     int
	IsRoundAmount bool
	IsSmallAmount bool
	IsLargeAmount bool

	// Text
	TokenCount     int
	IsOnlineShop   bool
	IsRestaurant   bool
	IsSupermarket  bool
	IsGasStation   bool
	IsSubscription bool
	IsInsurance    bool
	IsUtility      bool
}

// HistoricalFeatures aggregates the user's history relative to one transaction.
type HistoricalFeatures struct {
	MerchantCategories   map[string]int
	UserTopCategories    []model.CategoryUsage
	MerchantFrequency    int
	MerchantAvgAmount    float64
	AvgTransactionAmount float64
	TotalTransactions    int
}

// Extract builds the feature bag for txn. Missing fields degrade to zero
// values; it never fails.
func Extract(txn model.Transaction, history []model.Transaction) FeatureBag {
	recipient := strings.TrimSpace(txn.Recipient)
	description := strings.TrimSpace(txn.Description)
	abs := txn.AbsAmount()
	fullText := recipient + " " + description

	bag := FeatureBag{
		AbsAmount:      abs,
		IsIncome:       txn.Amount > 0,
		IsExpense:      txn.Amount < 0,
		HasRecipient:   recipient != "",
		HasDescription: description != "",

		AmountBin:     AmountBin(abs),
		IsRoundAmount: abs > 0 && abs == math.Trunc(abs),
		IsSmallAmount: abs > 0 && abs < 10,
		IsLargeAmount: abs >= 500,

		IsOnlineShop:   onlineShopPattern.MatchString(fullText),
		IsRestaurant:   restaurantPattern.MatchString(fullText),
		IsSupermarket:  supermarketPattern.MatchString(fullText),
		IsGasStation:   gasStationPattern.MatchString(fullText),
		IsSubscription: subscriptionPattern.MatchString(fullText),
		IsInsurance:    insurancePattern.MatchString(fullText),
		IsUtility:      utilityPattern.MatchString(fullText),
	}

	if !txn.Date.IsZero() {
		day := txn.Date.Day()
		bag.DayOfWeek = int(txn.Date.Weekday())
		bag.DayOfMonth = day
		bag.Month = int(txn.Date.Month())
		bag.Quarter = (bag.Month-1)/3 + 1
		bag.IsWeekend = txn.Date.Weekday() == time.Saturday || txn.Date.Weekday() == time.Sunday
		bag.IsMonthStart = day <= 5
		bag.IsMonthEnd = day >= 25
	}

	bag.Tokens = Tokenize(fullText)
	bag.SignificantTokens = SignificantTokens(bag.Tokens)
	bag.TokenCount = len(bag.Tokens)

	if history != nil {
		bag.History = Historical(recipient, history)
	}

	return bag
}

// AmountBin returns the index of the first ladder bound >= amount, or the
// ladder length when the amount exceeds every bound.
func AmountBin(amount float64) int {
	for i, bound := range AmountLadder {
		if amount <= bound {
			return i
		}
	}
	return len(AmountLadder)
}

// Historical aggregates history relative to recipient. Merchant fields count
// transactions whose recipient matches case-insensitively.
func Historical(recipient string, history []model.Transaction) *HistoricalFeatures {
	hf := &HistoricalFeatures{
		MerchantCategories: make(map[string]int),
		TotalTransactions:  len(history),
	}

	key := strings.ToLower(strings.TrimSpace(recipient))
	categoryCounts := make(map[string]int)
	categoryTotals := make(map[string]float64)
	categorized := 0
	var total, merchantTotal float64

	for i := range history {
		h := &history[i]
		abs := h.AbsAmount()
		total += abs

		if h.IsCategorized() {
			categorized++
			categoryCounts[h.Category]++
			categoryTotals[h.Category] += abs
		}

		if key != "" && strings.ToLower(strings.TrimSpace(h.Recipient)) == key {
			hf.MerchantFrequency++
			merchantTotal += abs
			if h.IsCategorized() {
				hf.MerchantCategories[h.Category]++
			}
		}
	}

	if len(history) > 0 {
		hf.AvgTransactionAmount = total / float64(len(history))
	}
	if hf.MerchantFrequency > 0 {
		hf.MerchantAvgAmount = merchantTotal / float64(hf.MerchantFrequency)
	}

	hf.UserTopCategories = TopCategories(categoryCounts, categoryTotals, categorized, 5)
	return hf
}

// TopCategories ranks categories by count (ties by name) and returns at most n.
// Frequency is expressed as a percentage of total.
func TopCategories(counts map[string]int, totals map[string]float64, total, n int) []model.CategoryUsage {
	usage := make([]model.CategoryUsage, 0, len(counts))
	for category, count := range counts {
		u := model.CategoryUsage{Category: category, Count: count}
		if total > 0 {
			u.Frequency = math.Round(float64(count)/float64(total)*1000) / 10
		}
		if count > 0 {
			u.AvgAmount = math.Round(totals[category]/float64(count)*100) / 100
		}
		usage = append(usage, u)
	}

	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Category < usage[j].Category
	})

	if n > 0 && len(usage) > n {
		usage = usage[:n]
	}
	return usage
}
