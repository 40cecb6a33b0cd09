// Package testutil provides shared helpers for tests that need a real database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/Veraticus/kassenbuch/internal/storage"
)

// TestDB is a migrated in-memory database scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// Option seeds or configures a TestDB.
type Option func(context.Context, *TestDB) error

// WithCategories creates the named categories with the default color.
func WithCategories(names ...string) Option {
	return func(ctx context.Context, db *TestDB) error {
		for _, name := range names {
			if _, err := db.Storage.CreateCategory(ctx, name, ""); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithTransactions seeds the given transactions.
func WithTransactions(txns ...model.Transaction) Option {
	return func(ctx context.Context, db *TestDB) error {
		if len(txns) == 0 {
			return nil
		}
		_, err := db.Storage.SaveTransactions(ctx, txns)
		return err
	}
}

// SetupTestDB creates a new in-memory test database, runs migrations,
// applies opts and registers cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.WithCategories("Lebensmittel", "Unterhaltung"),
//		testutil.WithTransactions(testutil.MonthlySeries("nf", "Netflix", -15.99, "Unterhaltung", start, 5)...),
//	)
func SetupTestDB(t *testing.T, opts ...Option) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, t: t}
	for _, opt := range opts {
		if err := opt(ctx, db); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return db
}

// MustGetTransaction returns the stored transaction or fails the test.
func (db *TestDB) MustGetTransaction(id string) model.Transaction {
	db.t.Helper()
	txn, err := db.Storage.GetTransactionByID(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to load transaction %q: %v", id, err)
	}
	return *txn
}
