// Package pricing — нормализация цен и количеств каталога.
// Это единственная точка, где сырые цены и запрошенные количества
// превращаются в числа; остальные компоненты количества не пересчитывают.
package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/shopspring/decimal"
)

// Пределы: за ними число считается мусором, а не заказом.
const (
	// MaxUnitPrice — цена выше считается некорректной (0 и предупреждение).
	MaxUnitPrice = 1_000_000.0
	// MaxQuantity — потолок продаваемого количества; больше — срезается до него.
	MaxQuantity = 100_000.0
)

// numberPattern — первое число (со знаком или без) в тексте цены.
var numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParsePrice — извлекает цену за единицу из сырого текста ("4,50", "12.0 €", "env. 3 €/kg").
// ok=false, если число не найдено или оно отрицательное; тогда вызывающий
// подставляет 0 и учитывает предупреждение. Результат округлён до центов.
func ParsePrice(raw string) (price float64, ok bool) {
	text := strings.ReplaceAll(raw, ",", ".")
	token := numberPattern.FindString(text)
	if token == "" {
		return 0, false
	}
	if strings.HasPrefix(token, "-") {
		return 0, false
	}
	token = strings.TrimPrefix(token, "+")
	if strings.HasPrefix(token, ".") {
		token = "0" + token
	}

	value, err := decimal.NewFromString(token)
	if err != nil {
		return 0, false
	}
	price, _ = value.Round(2).Float64()
	if !isFinite(price) || price > MaxUnitPrice {
		return 0, false
	}
	return price, true
}

// NormalizeQuantity — приводит запрошенное количество к продаваемому:
//   - NaN/±Inf и отрицательные значения → 0;
//   - больше MaxQuantity → MaxQuantity;
//   - штучный товар → округление вниз до целого;
//   - весовой товар → округление до одного знака (100 г).
func NormalizeQuantity(raw float64, policy domain.UnitPolicy) float64 {
	if !isFinite(raw) || raw <= 0 {
		return 0
	}
	value := decimal.NewFromFloat(math.Min(raw, MaxQuantity))
	switch policy {
	case domain.UnitPriced:
		value = value.Floor()
	default:
		value = value.Round(1)
	}
	quantity, _ := value.Float64()
	return quantity
}

// LineTotal — round(unitPrice * quantity, 2). Нечисловые входы и
// переполнение float64 дают 0.
func LineTotal(unitPrice, quantity float64) float64 {
	total, _ := decimalOf(unitPrice).
		Mul(decimalOf(quantity)).
		Round(2).
		Float64()
	if !isFinite(total) {
		return 0
	}
	return total
}

// SumTotals — сумма уже округлённых итогов строк, округлённая до центов ещё раз.
func SumTotals(totals []float64) float64 {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(decimalOf(t))
	}
	total, _ := sum.Round(2).Float64()
	if !isFinite(total) {
		return 0
	}
	return total
}

// InvalidPriceWarning — единое предупреждение о товарах с некорректной ценой.
func InvalidPriceWarning(count int) string {
	return fmt.Sprintf("%d produit(s) ont un prix invalide et ont été fixés à 0,00 € pour éviter les erreurs.", count)
}

// NormalizeCatalog — превращает сырые строки источника в ProductRecord.
// Некорректная цена не роняет загрузку: строка остаётся в каталоге с ценой 0,
// а все такие строки дают одно агрегированное предупреждение.
func NormalizeCatalog(rows []domain.RawProduct) (products []domain.ProductRecord, warnings []string, invalid int) {
	products = make([]domain.ProductRecord, 0, len(rows))
	for _, row := range rows {
		category := strings.TrimSpace(row.Category)
		if category == "" {
			category = domain.DefaultCategory
		}
		units := strings.TrimSpace(row.Units)

		price, ok := ParsePrice(row.Price)
		if !ok {
			invalid++
			price = 0
		}

		products = append(products, domain.ProductRecord{
			Name:       strings.TrimSpace(row.Name),
			Category:   category,
			UnitKind:   units,
			UnitPrice:  price,
			PriceLabel: FormatUnitPrice(price, units),
			ImageRef:   row.ImagePath,
		})
	}
	if invalid > 0 {
		warnings = append(warnings, InvalidPriceWarning(invalid))
	}
	return products, warnings, invalid
}
