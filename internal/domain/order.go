package domain

import (
	"errors"
	"time"
)

// SelectionInput — выбор покупателя для одной строки каталога.
// RequestedQuantity может быть любым числом (отрицательным, дробным, NaN) — нормализуется позже.
type SelectionInput struct {
	Selected          bool
	RequestedQuantity float64
}

// CatalogRow — строка каталога, соединённая с выбором покупателя.
type CatalogRow struct {
	Product   ProductRecord
	Selection SelectionInput
}

// OrderLine — строка заказа (неизменяемая после построения). Quantity всегда > 0.
type OrderLine struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	UnitKind       string  `json:"unit_kind"`
	UnitPrice      float64 `json:"unit_price"`
	Quantity       float64 `json:"quantity"`
	LineTotal      float64 `json:"line_total"`
	PriceLabel     string  `json:"price_label"`
	QuantityLabel  string  `json:"quantity_label"`
	LineTotalLabel string  `json:"line_total_label"`
}

// Order — отсортированные по (category, name) строки и итоговая сумма.
// Заказ без строк — канонический «пустой заказ» с GrandTotal = 0.
type Order struct {
	Lines      []OrderLine `json:"lines"`
	GrandTotal float64     `json:"grand_total"`
}

// EmptyOrder — канонический пустой заказ.
func EmptyOrder() Order { return Order{Lines: []OrderLine{}, GrandTotal: 0} }

// IsEmpty — в заказе нет ни одной строки.
func (o Order) IsEmpty() bool { return len(o.Lines) == 0 }

// Categories — категории в порядке первого появления среди строк заказа.
func (o Order) Categories() []string {
	seen := make(map[string]struct{}, len(o.Lines))
	out := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		if _, ok := seen[line.Category]; ok {
			continue
		}
		seen[line.Category] = struct{}{}
		out = append(out, line.Category)
	}
	return out
}

// LinesIn — строки заданной категории в исходном порядке.
func (o Order) LinesIn(category string) []OrderLine {
	var out []OrderLine
	for _, line := range o.Lines {
		if line.Category == category {
			out = append(out, line)
		}
	}
	return out
}

// EmptyOrderError — попытка сформировать документ по заказу без строк.
type EmptyOrderError struct{}

func (EmptyOrderError) Error() string { return "order is empty" }

// ErrEmptyOrder — sentinel для errors.Is.
var ErrEmptyOrder error = EmptyOrderError{}

// IsEmptyOrder — ошибка вызвана пустым заказом.
func IsEmptyOrder(err error) bool {
	var target EmptyOrderError
	return errors.As(err, &target)
}

// OrderPreview — результат построения заказа для показа покупателю.
type OrderPreview struct {
	Order      Order     `json:"order"`
	Warnings   []string  `json:"warnings"`
	LineCount  int       `json:"line_count"`
	TotalLabel string    `json:"total_label"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Document — сгенерированный бланк заказа.
type Document struct {
	Bytes     []byte
	FileName  string
	MediaType string
	Preview   OrderPreview
}
