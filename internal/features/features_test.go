package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/kassenbuch/internal/model"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "drops punctuation and short tokens",
			text: "REWE Markt GmbH, Kartenzahlung 12.03.",
			want: []string{"rewe", "markt", "gmbh", "kartenzahlung"},
		},
		{
			name: "drops stop words",
			text: "Miete für die Wohnung",
			want: []string{"miete", "wohnung"},
		},
		{
			name: "german casing",
			text: "STRAßENBAHN Übertrag",
			want: []string{"straßenbahn", "übertrag"},
		},
		{
			name: "empty",
			text: "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestSignificantTokens(t *testing.T) {
	got := SignificantTokens([]string{"rewe", "bar", "2024", "netflix"})
	assert.Equal(t, []string{"rewe", "netflix"}, got)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 0.0, Jaccard(nil, nil), 1e-9)
	assert.InDelta(t, 1.0, Jaccard([]string{"rewe", "markt"}, []string{"markt", "rewe"}), 1e-9)
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"rewe", "markt"}, []string{"rewe", "city"}), 1e-9)
}

func TestFuzzyRecipientMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Netflix", "NETFLIX.COM", true},
		{"Netflix International B.V.", "Netflix", true},
		{"REWE Markt", "Spotify AB", false},
		{"", "REWE", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyRecipientMatch(tt.a, tt.b))
		})
	}
}

func TestAmountBin(t *testing.T) {
	tests := []struct {
		amount float64
		want   int
	}{
		{0, 0},
		{5, 0},
		{5.01, 1},
		{49.99, 3},
		{100, 4},
		{999, 7},
		{1000, 7},
		{1500, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountBin(tt.amount), "amount %.2f", tt.amount)
	}
}

func TestExtract_EmptyTransaction(t *testing.T) {
	bag := Extract(model.Transaction{}, nil)

	assert.False(t, bag.HasRecipient)
	assert.False(t, bag.HasDescription)
	assert.False(t, bag.IsIncome)
	assert.False(t, bag.IsExpense)
	assert.Zero(t, bag.AbsAmount)
	assert.Zero(t, bag.DayOfWeek)
	assert.Zero(t, bag.Month)
	assert.Zero(t, bag.AmountBin)
	assert.False(t, bag.IsRoundAmount)
	assert.Empty(t, bag.Tokens)
	assert.Nil(t, bag.History, "historical features must be omitted without history")
}

func TestExtract_Transaction(t *testing.T) {
	txn := model.Transaction{
		Date:        time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), // Saturday
		Recipient:   "REWE Markt GmbH",
		Description: "Kartenzahlung",
		Amount:      -40,
	}

	bag := Extract(txn, nil)

	assert.True(t, bag.IsExpense)
	assert.True(t, bag.HasRecipient)
	assert.Equal(t, int(time.Saturday), bag.DayOfWeek)
	assert.Equal(t, 30, bag.DayOfMonth)
	assert.Equal(t, 1, bag.Quarter)
	assert.True(t, bag.IsWeekend)
	assert.True(t, bag.IsMonthEnd)
	assert.False(t, bag.IsMonthStart)
	assert.True(t, bag.IsRoundAmount)
	assert.Equal(t, 3, bag.AmountBin)
	assert.True(t, bag.IsSupermarket)
	assert.False(t, bag.IsGasStation)
	assert.Contains(t, bag.SignificantTokens, "rewe")
}

func TestExtract_History(t *testing.T) {
	txn := model.Transaction{Recipient: "Netflix", Amount: -15.99}
	history := []model.Transaction{
		{Recipient: "Netflix", Amount: -15.99, Category: "Unterhaltung"},
		{Recipient: "netflix", Amount: -17.99, Category: "Unterhaltung"},
		{Recipient: "REWE", Amount: -50, Category: "Lebensmittel"},
		{Recipient: "REWE", Amount: -30},
	}

	bag := Extract(txn, history)
	require.NotNil(t, bag.History)

	assert.Equal(t, 2, bag.History.MerchantFrequency)
	assert.Equal(t, map[string]int{"Unterhaltung": 2}, bag.History.MerchantCategories)
	assert.InDelta(t, 16.99, bag.History.MerchantAvgAmount, 1e-9)
	assert.Equal(t, 4, bag.History.TotalTransactions)
	require.Len(t, bag.History.UserTopCategories, 2)
	assert.Equal(t, "Unterhaltung", bag.History.UserTopCategories[0].Category)
	assert.InDelta(t, 66.7, bag.History.UserTopCategories[0].Frequency, 1e-9)
}

func TestHistorical_MatchesTrimmedRecipient(t *testing.T) {
	history := []model.Transaction{
		{Recipient: "Netflix ", Amount: -15.99, Category: "Unterhaltung"},
		{Recipient: "NETFLIX", Amount: -15.99},
		{Recipient: "REWE", Amount: -50, Category: "Lebensmittel"},
	}

	hf := Historical("  netflix", history)

	assert.Equal(t, 2, hf.MerchantFrequency)
	assert.Equal(t, map[string]int{"Unterhaltung": 1}, hf.MerchantCategories)
	assert.Equal(t, 3, hf.TotalTransactions)

	assert.Zero(t, Historical("", history).MerchantFrequency)
}

func TestSimilarity(t *testing.T) {
	netflix := Extract(model.Transaction{
		Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Recipient: "Netflix",
		Amount:    -15.99,
	}, nil)

	assert.GreaterOrEqual(t, Similarity(netflix, netflix), 0.99)

	empty := Extract(model.Transaction{}, nil)
	assert.InDelta(t, 1.0, Similarity(empty, empty), 1e-9)

	rent := Extract(model.Transaction{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Recipient:   "Hausverwaltung Schmidt",
		Description: "Miete März",
		Amount:      -950,
	}, nil)

	score := Similarity(netflix, rent)
	assert.Less(t, score, Similarity(netflix, netflix))
	assert.GreaterOrEqual(t, score, 0.0)
}
