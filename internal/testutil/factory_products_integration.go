//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// SampleProducts — небольшой каталог фермы для интеграционных тестов.
func SampleProducts() []domain.RawProduct {
	return []domain.RawProduct{
		{Name: "Miel", Price: "8", Units: "€", Category: "Apiculture"},
		{Name: "Raclette", Price: "18,5", Units: "kg", Category: "Fromagerie"},
		{Name: "Oeufs", Price: "n/a", Units: "€", Category: ""},
	}
}

// SeedProducts — вставляет строки в products в заданном порядке (position = индекс).
func SeedProducts(ctx context.Context, pool *pgxpool.Pool, products []domain.RawProduct) error {
	for i, p := range products {
		if _, err := pool.Exec(ctx, `
			INSERT INTO products (position, name, price, units, category, image_path)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		`, i, p.Name, p.Price, p.Units, p.Category, p.ImagePath); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}
	return nil
}
