//go:build integration

package testutil

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pressly/goose/v3"

	"github.com/Gunvolt24/farm_orders/internal/repo/postgres"
)

// ApplyMigrationsGoose применяет миграции из <repo_root>/migrations
// (<repo_root> вычисляем как два уровня вверх от этого файла).
func ApplyMigrationsGoose(dsn string) error {
	_, thisFile, _, _ := runtime.Caller(0)
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))

	goose.SetLogger(log.New(os.Stdout, "", 0))
	return postgres.Migrate(context.Background(), dsn, filepath.Join(repoRoot, "migrations"))
}
