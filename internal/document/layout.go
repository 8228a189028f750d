// Package document — генерация бланка заказа (PDF).
//
// Сначала заказ раскладывается в Layout (чистая структура: шапка, строки таблицы,
// итог, примечание), затем Layout отрисовывается в PDF.
package document

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/pricing"
)

// MaxNoteLength — максимальная длина примечания (в символах); длиннее — обрезается.
const MaxNoteLength = 300

// Подписи бланка.
const (
	DefaultTitle        = "Bon de commande"
	DefaultOrganization = "GAEC Au Champ du Puits"

	headerProduct  = "Produit"
	headerPrice    = "Prix unitaire"
	headerQuantity = "Quantité"
	headerTotal    = "Total"
	totalLabel     = "Total commande"
	noteLabel      = "Remarque:"

	dateLayout = "02/01/2006 15:04"
)

// RowKind — тип строки таблицы.
type RowKind int

const (
	RowHeader   RowKind = iota // заголовок колонок
	RowCategory                // баннер категории на всю ширину
	RowLine                    // строка товара
	RowTotal                   // итог: подпись на три колонки, сумма в четвёртой
)

// Row — строка таблицы бланка.
type Row struct {
	Kind  RowKind
	Cells []string
}

// Layout — содержимое бланка без привязки к формату вывода.
type Layout struct {
	Title        string
	Organization string
	Client       string
	Date         string
	Rows         []Row
	Note         string
}

// BuildLayout — раскладывает заказ в таблицу, сгруппированную по категориям
// в порядке первого появления категории среди (уже отсортированных) строк заказа.
// Пустой заказ — единственная ошибка; прочие входные данные очищаются.
func BuildLayout(order domain.Order, client, note string, at time.Time, title, organization string) (Layout, error) {
	if order.IsEmpty() {
		return Layout{}, domain.ErrEmptyOrder
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	if strings.TrimSpace(organization) == "" {
		organization = DefaultOrganization
	}

	rows := make([]Row, 0, len(order.Lines)+len(order.Categories())+2)
	rows = append(rows, Row{Kind: RowHeader, Cells: []string{headerProduct, headerPrice, headerQuantity, headerTotal}})

	totals := make([]float64, 0, len(order.Lines))
	for _, category := range order.Categories() {
		rows = append(rows, Row{Kind: RowCategory, Cells: []string{category}})
		for _, line := range order.LinesIn(category) {
			rows = append(rows, Row{
				Kind:  RowLine,
				Cells: []string{line.Name, line.PriceLabel, line.QuantityLabel, line.LineTotalLabel},
			})
			totals = append(totals, line.LineTotal)
		}
	}
	rows = append(rows, Row{Kind: RowTotal, Cells: []string{totalLabel, pricing.FormatEuro(pricing.SumTotals(totals))}})

	return Layout{
		Title:        title,
		Organization: organization,
		Client:       strings.TrimSpace(client),
		Date:         at.Format(dateLayout),
		Rows:         rows,
		Note:         CleanNote(note),
	}, nil
}

// CleanNote — примечание без пробелов по краям, не длиннее MaxNoteLength символов.
func CleanNote(note string) string {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) <= MaxNoteLength {
		return note
	}
	runes := []rune(note)
	return strings.TrimSpace(string(runes[:MaxNoteLength]))
}
