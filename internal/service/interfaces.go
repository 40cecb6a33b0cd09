// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Results are always ordered newest first.
type TransactionFilter struct {
	Since           *time.Time
	Until           *time.Time
	Limit           int
	CategorizedOnly bool
	Uncategorized   bool
}

// SuggestionStore is the slice of persistence the suggestion engine consumes.
type SuggestionStore interface {
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountTransactionsByCategory(ctx context.Context, category string) (int, error)
	GetLastTransactionDateByCategory(ctx context.Context, category string) (*time.Time, error)

	// GetSetting returns common.ErrNotFound when the key is absent.
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error

	SaveFeedback(ctx context.Context, feedback *model.Feedback) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	SuggestionStore

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id, category string) error
	GetTransactionCount(ctx context.Context) (int, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name, color string) (*model.Category, error)

	// Feedback operations
	GetFeedback(ctx context.Context, limit int) ([]model.Feedback, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
