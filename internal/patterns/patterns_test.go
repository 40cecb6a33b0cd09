package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/kassenbuch/internal/model"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func txn(date time.Time, recipient string, amount float64, category string) model.Transaction {
	return model.Transaction{Date: date, Recipient: recipient, Amount: amount, Category: category}
}

func TestRecurringDetector_Monthly(t *testing.T) {
	start := day(2024, 1, 1)
	history := []model.Transaction{
		txn(start, "Spotify AB", -9.99, "Unterhaltung"),
		txn(start.AddDate(0, 0, 30), "SPOTIFY", -9.99, "Unterhaltung"),
		txn(start.AddDate(0, 0, 60), "Spotify AB Stockholm", -10.29, ""),
		txn(start.AddDate(0, 0, 45), "REWE Markt", -9.99, "Lebensmittel"),
	}
	query := txn(start.AddDate(0, 0, 90), "Spotify", -9.99, "")

	result := NewRecurringDetector().Detect(query, history)

	require.True(t, result.IsRecurring)
	assert.Equal(t, IntervalMonthly, result.IntervalType)
	assert.Equal(t, 3, result.Occurrences)
	assert.InDelta(t, 30, result.AvgIntervalDays, 1e-9)
	assert.InDelta(t, 0, result.StdDevDays, 1e-9)
	assert.InDelta(t, 0.88, result.Confidence, 1e-9)
	assert.Equal(t, "Unterhaltung", result.SuggestedCategory)
	require.NotNil(t, result.NextExpected)
	assert.Equal(t, start.AddDate(0, 0, 90), *result.NextExpected)

	c, ok := result.Contribution()
	require.True(t, ok)
	assert.Equal(t, model.SourcePatterns, c.Source)
	evidence, ok := c.Evidence.(model.PatternEvidence)
	require.True(t, ok)
	assert.Equal(t, model.PatternRecurring, evidence.Kind)
}

func TestRecurringDetector_NoPattern(t *testing.T) {
	start := day(2024, 1, 1)

	tests := []struct {
		name    string
		history []model.Transaction
	}{
		{
			name: "too few occurrences",
			history: []model.Transaction{
				txn(start, "Spotify", -9.99, "Unterhaltung"),
				txn(start.AddDate(0, 0, 30), "Spotify", -9.99, "Unterhaltung"),
			},
		},
		{
			name: "irregular intervals",
			history: []model.Transaction{
				txn(start, "Spotify", -9.99, "Unterhaltung"),
				txn(start.AddDate(0, 0, 5), "Spotify", -9.99, "Unterhaltung"),
				txn(start.AddDate(0, 0, 45), "Spotify", -9.99, "Unterhaltung"),
			},
		},
		{
			name: "amount varies too much",
			history: []model.Transaction{
				txn(start, "Spotify", -9.99, "Unterhaltung"),
				txn(start.AddDate(0, 0, 30), "Spotify", -14.99, "Unterhaltung"),
				txn(start.AddDate(0, 0, 60), "Spotify", -19.99, "Unterhaltung"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewRecurringDetector().Detect(txn(start.AddDate(0, 0, 90), "Spotify", -9.99, ""), tt.history)
			assert.False(t, result.IsRecurring)
			_, ok := result.Contribution()
			assert.False(t, ok)
		})
	}
}

func TestClassifyInterval(t *testing.T) {
	tests := []struct {
		days float64
		want string
	}{
		{7, IntervalWeekly},
		{14, IntervalBiweekly},
		{30.4, IntervalMonthly},
		{91, IntervalQuarterly},
		{365, IntervalYearly},
		{50, IntervalCustom},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyInterval(tt.days), "%.1f days", tt.days)
	}
}

func TestSeasonalDetector(t *testing.T) {
	history := []model.Transaction{
		txn(day(2023, 12, 2), "Weihnachtsmarkt Köln", -25, "Freizeit"),
		txn(day(2023, 12, 10), "Weihnachtsmarkt Berlin", -30, "Freizeit"),
		txn(day(2022, 12, 5), "Weihnachtsmarkt Dresden", -20, "Freizeit"),
		txn(day(2023, 7, 1), "Weihnachtsmarkt Shop", -15, "Shopping"),
		txn(day(2023, 7, 1), "REWE Markt", -15, "Lebensmittel"),
	}

	result := NewSeasonalDetector().Detect(txn(day(2024, 1, 3), "Weihnachtsmarkt Hamburg", -22, ""), history)

	require.True(t, result.HasSeasonalPattern)
	assert.Equal(t, Winter, result.Season)
	assert.Equal(t, 3, result.SeasonalCount)
	assert.Equal(t, 4, result.ContextCount)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.Equal(t, "Freizeit", result.SuggestedCategory)

	summer := NewSeasonalDetector().Detect(txn(day(2024, 8, 3), "Weihnachtsmarkt Hamburg", -22, ""), history)
	assert.False(t, summer.HasSeasonalPattern)
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, Winter, SeasonOf(time.December))
	assert.Equal(t, Winter, SeasonOf(time.February))
	assert.Equal(t, Spring, SeasonOf(time.March))
	assert.Equal(t, Summer, SeasonOf(time.August))
	assert.Equal(t, Autumn, SeasonOf(time.November))
}

func TestBehavioralDetector_Weekday(t *testing.T) {
	history := []model.Transaction{
		txn(day(2024, 3, 2), "Zara", -5, "Shopping"),
		txn(day(2024, 3, 9), "Wochenmarkt", -5, "Lebensmittel"),
		txn(day(2024, 3, 16), "Wochenmarkt", -5, "Lebensmittel"),
		txn(day(2024, 3, 23), "Wochenmarkt", -5, "Lebensmittel"),
	}

	result := NewBehavioralDetector().Detect(txn(day(2024, 3, 30), "Wochenmarkt", -40, ""), history)

	require.Len(t, result.Patterns, 1)
	p := result.Patterns[0]
	assert.Equal(t, model.PatternBehaviorWeekday, p.Kind)
	assert.Equal(t, "Lebensmittel", p.Category)
	assert.InDelta(t, 0.75, p.Share, 1e-9)
	assert.InDelta(t, 0.85, p.Confidence, 1e-9)
	assert.Contains(t, p.Reasoning, "Samstag")
}

func TestBehavioralDetector_TimeOfMonth(t *testing.T) {
	history := []model.Transaction{
		txn(day(2024, 1, 26), "Vermieter", -5, "Wohnen"),
		txn(day(2024, 1, 27), "Vermieter", -5, "Wohnen"),
		txn(day(2024, 3, 29), "Vermieter", -5, "Wohnen"),
		txn(day(2024, 4, 27), "Zalando", -5, "Shopping"),
		txn(day(2024, 5, 31), "Zalando", -5, "Shopping"),
	}

	result := NewBehavioralDetector().Detect(txn(day(2024, 2, 28), "Vermieter", -900, ""), history)

	require.Len(t, result.Patterns, 1)
	p := result.Patterns[0]
	assert.Equal(t, model.PatternBehaviorMonthDay, p.Kind)
	assert.Equal(t, MonthEnd, p.Bucket)
	assert.Equal(t, "Wohnen", p.Category)
	assert.InDelta(t, 0.75, p.Confidence, 1e-9)
}

func TestBehavioralDetector_AmountBand(t *testing.T) {
	history := []model.Transaction{
		{Amount: -3, Category: "Kaffee"},
		{Amount: -4, Category: "Kaffee"},
		{Amount: -6, Category: "Bäcker"},
		{Amount: -7, Category: "Bäcker"},
		{Amount: -8, Category: "Kiosk"},
		{Amount: -80, Category: "Kiosk"},
	}

	result := NewBehavioralDetector().Detect(model.Transaction{Amount: -5}, history)

	require.True(t, result.HasPattern())
	require.Len(t, result.Patterns, 1)
	p := result.Patterns[0]
	assert.Equal(t, model.PatternBehaviorAmount, p.Kind)
	assert.Equal(t, "Bäcker", p.Category)
	assert.Equal(t, 5, p.Total)
	assert.InDelta(t, 0.5, p.Confidence, 1e-9)

	contributions := result.Contributions()
	require.Len(t, contributions, 1)
	assert.Equal(t, "Bäcker", contributions[0].Category)
}

func TestBehavioralDetector_BelowThreshold(t *testing.T) {
	history := []model.Transaction{
		{Amount: -3, Category: "Kaffee"},
		{Amount: -4, Category: "Kaffee"},
	}
	assert.False(t, NewBehavioralDetector().Detect(model.Transaction{Amount: -5}, history).HasPattern())
}

func TestWindowOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{day(2024, 1, 31), WindowEndOfMonth},
		{day(2024, 4, 28), WindowEndOfMonth},
		{day(2023, 2, 28), WindowEndOfMonth},
		{day(2024, 3, 1), WindowBeginningOfMonth},
		{day(2024, 3, 3), WindowBeginningOfMonth},
		{day(2024, 3, 13), WindowPayday},
		{day(2024, 3, 15), WindowPayday},
		{day(2024, 3, 10), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WindowOf(tt.date), tt.date.Format("2006-01-02"))
	}
}

func TestTemporalDetector(t *testing.T) {
	tests := []struct {
		name     string
		query    time.Time
		history  []model.Transaction
		want     bool
		category string
		conf     float64
	}{
		{
			name:  "beginning of month",
			query: day(2024, 3, 1),
			history: []model.Transaction{
				txn(day(2024, 1, 1), "Vermieter", -900, "Wohnen"),
				txn(day(2024, 2, 2), "Vermieter", -900, "Wohnen"),
				txn(day(2024, 2, 3), "Zalando", -50, "Shopping"),
				txn(day(2024, 2, 20), "Zalando", -50, "Shopping"),
			},
			want:     true,
			category: "Wohnen",
			conf:     2.0/3.0 + 0.1,
		},
		{
			name:  "payday includes month end",
			query: day(2024, 3, 15),
			history: []model.Transaction{
				txn(day(2024, 1, 30), "Arbeitgeber", 3000, "Gehalt"),
				txn(day(2024, 2, 14), "Arbeitgeber", 3000, "Gehalt"),
				txn(day(2024, 2, 20), "Zalando", -50, "Shopping"),
			},
			want:     true,
			category: "Gehalt",
			conf:     0.8,
		},
		{
			name:  "single occurrence",
			query: day(2024, 3, 30),
			history: []model.Transaction{
				txn(day(2024, 1, 30), "Arbeitgeber", 3000, "Gehalt"),
			},
		},
		{
			name:    "outside every window",
			query:   day(2024, 3, 8),
			history: []model.Transaction{txn(day(2024, 1, 8), "Zalando", -50, "Shopping")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewTemporalDetector().Detect(txn(tt.query, "X", -10, ""), tt.history)
			assert.Equal(t, tt.want, result.HasPattern)
			if tt.want {
				assert.Equal(t, tt.category, result.SuggestedCategory)
				assert.InDelta(t, tt.conf, result.Confidence, 1e-9)
			}
		})
	}
}

func netflixHistory() []model.Transaction {
	var history []model.Transaction
	for month := time.January; month <= time.May; month++ {
		history = append(history, txn(day(2024, month, 15), "Netflix", -15.99, "Unterhaltung"))
	}
	return history
}

func TestDetector_Suggestions(t *testing.T) {
	d := NewDetector()
	query := txn(day(2024, 6, 15), "Netflix", -15.99, "")

	suggestions := d.Suggestions(query, netflixHistory(), DefaultOptions())

	require.Len(t, suggestions, 3)
	first := suggestions[0]
	assert.Equal(t, "Unterhaltung", first.Category)
	evidence, ok := first.Evidence.(model.PatternEvidence)
	require.True(t, ok)
	assert.Equal(t, model.PatternRecurring, evidence.Kind)
	assert.Equal(t, IntervalMonthly, evidence.IntervalType)

	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Confidence, suggestions[i].Confidence)
	}

	strict := d.Suggestions(query, netflixHistory(), Options{TopN: 10, MinConfidence: 0.9})
	require.Len(t, strict, 1)
	assert.Equal(t, "Unterhaltung", strict[0].Category)
}

func TestDetector_EmptyHistory(t *testing.T) {
	assert.Empty(t, NewDetector().Suggestions(txn(day(2024, 6, 15), "Netflix", -15.99, ""), nil, DefaultOptions()))
}
