package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/mcforecast/internal/adapters/notify"
	"github.com/alejandrodnm/mcforecast/internal/adapters/storage"
)

// runHistory imprime las últimas corridas guardadas en lugar de simular.
func runHistory(ctx context.Context, dsn, symbol string, limit int, notifier *notify.Console) error {
	store, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	runs, err := store.GetRuns(ctx, symbol, limit)
	if err != nil {
		return fmt.Errorf("get runs: %w", err)
	}

	slog.Info("stored runs", "symbol", symbol, "count", len(runs))
	return notifier.PrintRuns(runs)
}
