package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/pricing"
)

// BuildOrder — агрегатор: из строк каталога с выбором покупателя строит заказ.
// Шаги (каждый — жёсткий фильтр):
//  1. только выбранные строки;
//  2. нормализация количества по политике единицы;
//  3. без пустых имён;
//  4. без нулевых количеств;
//  5. итог строки, подписи цены/количества/итога;
//  6. стабильная сортировка по (category, name);
//  7. общий итог — сумма итогов строк, округлённая до центов.
//
// Если ни одна строка не прошла фильтры — канонический пустой заказ (это не ошибка).
// Функция чистая: одинаковый вход даёт одинаковый заказ.
func BuildOrder(rows []domain.CatalogRow) domain.Order {
	lines := make([]domain.OrderLine, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if !row.Selection.Selected {
			continue
		}

		product := row.Product
		policy := product.Policy()
		quantity := pricing.NormalizeQuantity(row.Selection.RequestedQuantity, policy)

		if strings.TrimSpace(product.Name) == "" {
			continue
		}
		if quantity <= 0 {
			continue
		}

		lineTotal := pricing.LineTotal(product.UnitPrice, quantity)
		lines = append(lines, domain.OrderLine{
			Name:           product.Name,
			Category:       product.Category,
			UnitKind:       product.UnitKind,
			UnitPrice:      product.UnitPrice,
			Quantity:       quantity,
			LineTotal:      lineTotal,
			PriceLabel:     pricing.FormatUnitPrice(product.UnitPrice, product.UnitKind),
			QuantityLabel:  pricing.FormatQuantity(quantity, policy),
			LineTotalLabel: pricing.FormatEuro(lineTotal),
		})
	}

	if len(lines) == 0 {
		return domain.EmptyOrder()
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Category != lines[j].Category {
			return lines[i].Category < lines[j].Category
		}
		return lines[i].Name < lines[j].Name
	})

	totals := make([]float64, len(lines))
	for i := range lines {
		totals[i] = lines[i].LineTotal
	}

	return domain.Order{Lines: lines, GrandTotal: pricing.SumTotals(totals)}
}

// JoinSelections — соединяет каталог с выбором из запроса.
// Выбор адресует строку по индексу Row или по имени (первое совпадение);
// ссылки на несуществующие строки пропускаются с предупреждением.
// Отсутствующее количество трактуется как 0.
func JoinSelections(products []domain.ProductRecord, selections []domain.Selection) (rows []domain.CatalogRow, warnings []string) {
	rows = make([]domain.CatalogRow, len(products))
	for i := range products {
		rows[i] = domain.CatalogRow{Product: products[i]}
	}

	byName := make(map[string]int, len(products))
	for i := len(products) - 1; i >= 0; i-- {
		byName[products[i].Name] = i
	}

	for _, sel := range selections {
		idx := -1
		switch {
		case sel.Row != nil:
			if *sel.Row >= 0 && *sel.Row < len(products) {
				idx = *sel.Row
			}
		default:
			if i, ok := byName[strings.TrimSpace(sel.Name)]; ok {
				idx = i
			}
		}
		if idx < 0 {
			warnings = append(warnings, unknownProductWarning(sel))
			continue
		}

		quantity := 0.0
		if sel.Quantity != nil {
			quantity = *sel.Quantity
		}
		rows[idx].Selection = domain.SelectionInput{Selected: sel.Selected, RequestedQuantity: quantity}
	}
	return rows, warnings
}

func unknownProductWarning(sel domain.Selection) string {
	name := strings.TrimSpace(sel.Name)
	if name == "" && sel.Row != nil {
		return "Produit inconnu ignoré (ligne " + strconv.Itoa(*sel.Row) + ")."
	}
	return "Produit inconnu ignoré: " + name + "."
}
