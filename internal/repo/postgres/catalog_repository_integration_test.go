//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/farm_orders/internal/cache/memory"
	"github.com/Gunvolt24/farm_orders/internal/catalog"
	pgrepo "github.com/Gunvolt24/farm_orders/internal/repo/postgres"
	"github.com/Gunvolt24/farm_orders/internal/testutil"
)

// 1) Загрузка каталога в порядке position и смена отпечатка после изменения данных
func TestCatalogRepo_LoadAndFingerprint_TC(t *testing.T) {
	t.Parallel()

	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()

	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	// короткий контекст — на сами БД-операции
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgrepo.NewPool(ctx, pg.DSN, 4)
	require.NoError(t, err)
	defer pool.Close()

	var appName string
	require.NoError(t, pool.QueryRow(ctx, `SELECT current_setting('application_name')`).Scan(&appName))
	require.Equal(t, pgrepo.ApplicationName, appName)

	repo := pgrepo.NewCatalogRepository(pool)

	empty, err := repo.Fingerprint(ctx)
	require.NoError(t, err)

	require.NoError(t, testutil.SeedProducts(ctx, pool, testutil.SampleProducts()))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "Miel", got[0].Name)
	require.Equal(t, "18,5", got[1].Price)
	require.Empty(t, got[2].Category)

	seeded, err := repo.Fingerprint(ctx)
	require.NoError(t, err)
	require.NotEqual(t, empty, seeded)

	again, err := repo.Fingerprint(ctx)
	require.NoError(t, err)
	require.Equal(t, seeded, again)

	_, err = pool.Exec(ctx, `UPDATE products SET price = '9' WHERE name = 'Miel'`)
	require.NoError(t, err)
	changed, err := repo.Fingerprint(ctx)
	require.NoError(t, err)
	require.NotEqual(t, seeded, changed)
}

// 2) Нет таблицы — ErrNotFound; нет обязательной колонки — ErrInvalidStructure
func TestCatalogRepo_Errors_TC(t *testing.T) {
	t.Parallel()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	defer pool.Close()

	repo := pgrepo.NewCatalogRepository(pool)

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = repo.Fingerprint(ctx)
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = pool.Exec(ctx, `CREATE TABLE products (id BIGSERIAL PRIMARY KEY, name TEXT, price TEXT)`)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, catalog.ErrInvalidStructure)
	require.Equal(t, "Structure de données invalide: Colonnes manquantes: category, image_path, units", catalog.UserMessage(err))

	// мемо сначала спрашивает отпечаток: сообщение должно называть колонки и там
	_, err = repo.Fingerprint(ctx)
	require.ErrorIs(t, err, catalog.ErrInvalidStructure)
	require.Equal(t, "Structure de données invalide: Colonnes manquantes: category, image_path, units", catalog.UserMessage(err))

	_, err = cachemem.NewCatalogMemo(repo, nil, nil).Catalog(ctx)
	require.True(t, catalog.IsCatalogError(err))
	require.Contains(t, catalog.UserMessage(err), "units")

	// все обязательные колонки есть, но нет служебной position
	_, err = pool.Exec(ctx, `ALTER TABLE products ADD COLUMN units TEXT, ADD COLUMN category TEXT, ADD COLUMN image_path TEXT`)
	require.NoError(t, err)
	_, err = repo.Fingerprint(ctx)
	require.ErrorIs(t, err, catalog.ErrInvalidStructure)
}
