package suggest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/kassenbuch/internal/common"
	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/service"
)

// memoryStore is an in-memory SuggestionStore that counts history fetches.
type memoryStore struct {
	err          error
	settings     map[string]string
	transactions []model.Transaction
	feedback     []*model.Feedback
	historyCalls int
	mu           sync.Mutex
}

func newMemoryStore(transactions ...model.Transaction) *memoryStore {
	return &memoryStore{
		settings:     make(map[string]string),
		transactions: transactions,
	}
}

func (s *memoryStore) GetTransactions(_ context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.historyCalls++
	if s.err != nil {
		return nil, s.err
	}

	var out []model.Transaction
	for _, txn := range s.transactions {
		if filter.CategorizedOnly && !txn.IsCategorized() {
			continue
		}
		out = append(out, txn)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memoryStore) CountTransactionsByCategory(_ context.Context, category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	count := 0
	for _, txn := range s.transactions {
		if txn.Category == category {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) GetLastTransactionDateByCategory(_ context.Context, category string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	var last *time.Time
	for _, txn := range s.transactions {
		if txn.Category != category {
			continue
		}
		if last == nil || txn.Date.After(*last) {
			d := txn.Date
			last = &d
		}
	}
	return last, nil
}

func (s *memoryStore) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	value, ok := s.settings[key]
	if !ok {
		return "", common.ErrNotFound
	}
	return value, nil
}

func (s *memoryStore) PutSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.settings[key] = value
	return nil
}

func (s *memoryStore) SaveFeedback(_ context.Context, feedback *model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.feedback = append(s.feedback, feedback)
	return nil
}

func (s *memoryStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyCalls
}
