// Package xlsx — источник каталога из книги Excel (лист "products").
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/Gunvolt24/farm_orders/internal/catalog"
	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName — лист с каталогом.
const SheetName = "products"

// Loader — загрузчик каталога из xlsx-файла.
type Loader struct {
	path string
}

// NewLoader — конструктор.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path — путь к книге.
func (l *Loader) Path() string { return l.path }

// Fingerprint — отпечаток содержимого источника: путь, размер и время изменения.
// Меняется при любой перезаписи файла; отсутствие файла — catalog.ErrNotFound.
func (l *Loader) Fingerprint(_ context.Context) (string, error) {
	st, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", catalog.ErrNotFound, l.path)
		}
		return "", fmt.Errorf("stat catalog: %w", err)
	}
	if st.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", catalog.ErrNotFound, l.path)
	}
	return l.path + "|" + strconv.FormatInt(st.Size(), 10) + "|" + strconv.FormatInt(st.ModTime().UnixNano(), 10), nil
}

// Load — читает лист "products" целиком. Нет файла — catalog.ErrNotFound,
// нет листа или обязательных колонок — catalog.ErrInvalidStructure.
func (l *Loader) Load(ctx context.Context) ([]domain.RawProduct, error) {
	if _, err := l.Fingerprint(ctx); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", catalog.ErrInvalidStructure, err)
	}
	defer func() { _ = f.Close() }()

	if !hasSheet(f.GetSheetList(), SheetName) {
		return nil, fmt.Errorf("%w: feuille %q absente", catalog.ErrInvalidStructure, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet: %v", catalog.ErrInvalidStructure, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return catalog.FromRows(rows)
}

func hasSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}
