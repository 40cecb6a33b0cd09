package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/kassenbuch/internal/config"
	"github.com/Veraticus/kassenbuch/internal/storage"
	"github.com/Veraticus/kassenbuch/internal/suggest"
)

// initStorage opens the configured database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath(viper.GetViper()))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// buildEngine wires a suggestion engine on top of store from the loaded config.
func buildEngine(store *storage.SQLiteStorage) (*suggest.Engine, suggest.Options, error) {
	settings, err := config.LoadSuggestConfig(viper.GetViper())
	if err != nil {
		return nil, suggest.Options{}, err
	}

	engine, err := suggest.NewDefaultEngine(store, settings.Engine, settings.SimilarityCacheSize)
	if err != nil {
		return nil, suggest.Options{}, fmt.Errorf("failed to create suggestion engine: %w", err)
	}

	return engine, settings.Options, nil
}
