package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/farm_orders/internal/catalog"
	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что CatalogRepository удовлетворяет интерфейсу CatalogLoader.
var _ ports.CatalogLoader = (*CatalogRepository)(nil)

// SQLSTATE: таблица / колонка не существует.
const (
	undefinedTable  = "42P01"
	undefinedColumn = "42703"
)

// CatalogRepository — источник каталога в Postgres (таблица products).
// Цена хранится текстом, как в табличном источнике, и нормализуется выше.
type CatalogRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewCatalogRepository — конструктор CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool, table: "products"}
}

// Fingerprint — md5 по содержимому всех строк в порядке выдачи.
// Пустая таблица даёт стабильный отпечаток; отсутствие таблицы — catalog.ErrNotFound,
// отсутствие обязательных колонок — catalog.MissingColumnsError.
func (r *CatalogRepository) Fingerprint(ctx context.Context) (string, error) {
	if err := r.checkColumns(ctx); err != nil {
		return "", err
	}

	var sum string
	err := r.pool.QueryRow(ctx, `
		SELECT md5(COALESCE(string_agg(
			concat_ws('|', name, price, units, category, image_path), E'\n' ORDER BY position, id
		), ''))
		FROM products
	`).Scan(&sum)
	if err != nil {
		return "", r.mapErr("fingerprint", err)
	}
	return "pg|" + sum, nil
}

// Load — все строки каталога. Проверяет наличие обязательных колонок до выборки,
// чтобы отличать «нет таблицы» от «неверная структура».
func (r *CatalogRepository) Load(ctx context.Context) ([]domain.RawProduct, error) {
	if err := r.checkColumns(ctx); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(name, ''), COALESCE(price, ''), COALESCE(units, ''),
			COALESCE(category, ''), COALESCE(image_path, '')
		FROM products
		ORDER BY position, id
	`)
	if err != nil {
		return nil, r.mapErr("select products", err)
	}
	defer rows.Close()

	var out []domain.RawProduct
	for rows.Next() {
		var p domain.RawProduct
		if err := rows.Scan(&p.Name, &p.Price, &p.Units, &p.Category, &p.ImagePath); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}
	return out, nil
}

// checkColumns — сверяет колонки таблицы с обязательными.
func (r *CatalogRepository) checkColumns(ctx context.Context) error {
	rows, err := r.pool.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`, r.table)
	if err != nil {
		return r.mapErr("select columns", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("columns rows: %w", err)
	}
	if len(columns) == 0 {
		return fmt.Errorf("%w: table %s", catalog.ErrNotFound, r.table)
	}
	return catalog.CheckColumns(columns)
}

// mapErr — отсутствие таблицы переводим в catalog.ErrNotFound, отсутствие колонки
// (например, служебной position) — в catalog.ErrInvalidStructure, остальное оборачиваем.
func (r *CatalogRepository) mapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case undefinedTable:
			return fmt.Errorf("%w: table %s", catalog.ErrNotFound, r.table)
		case undefinedColumn:
			return fmt.Errorf("%w: %s", catalog.ErrInvalidStructure, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
