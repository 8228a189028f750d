package catalog

import (
	"sort"
	"strings"

	"github.com/Gunvolt24/farm_orders/internal/domain"
)

// Обязательные колонки источника.
const (
	ColumnName      = "name"
	ColumnPrice     = "price"
	ColumnUnits     = "units"
	ColumnCategory  = "category"
	ColumnImagePath = "image_path"
)

// RequiredColumns — колонки, без которых каталог не загружается.
var RequiredColumns = []string{ColumnName, ColumnPrice, ColumnUnits, ColumnCategory, ColumnImagePath}

// CheckColumns — проверяет, что среди columns есть все обязательные.
// Имена сравниваются без учёта регистра и пробелов по краям.
func CheckColumns(columns []string) error {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	var missing []string
	for _, req := range RequiredColumns {
		if _, ok := have[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &MissingColumnsError{Columns: missing}
}

// FromRows — разбор табличных данных: первая строка — заголовок, далее данные.
// Полностью пустые строки пропускаются; недостающие ячейки считаются пустыми.
func FromRows(rows [][]string) ([]domain.RawProduct, error) {
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: sortedRequired()}
	}
	header := rows[0]
	if err := CheckColumns(header); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, c := range header {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]domain.RawProduct, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, domain.RawProduct{
			Name:      cell(row, ColumnName),
			Price:     cell(row, ColumnPrice),
			Units:     cell(row, ColumnUnits),
			Category:  cell(row, ColumnCategory),
			ImagePath: cell(row, ColumnImagePath),
		})
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func sortedRequired() []string {
	out := append([]string(nil), RequiredColumns...)
	sort.Strings(out)
	return out
}
