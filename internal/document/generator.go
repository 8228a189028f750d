package document

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/go-pdf/fpdf"
)

// Размеры в миллиметрах (A4).
const (
	marginMM       = 12.0
	pageBreakMM    = 14.0
	rowHeightMM    = 8.0
	widthProduct   = 84.0
	widthPrice     = 32.0
	widthQuantity  = 28.0
	widthTotal     = 34.0
	unicodeFamily  = "FarmUnicode"
	fallbackFamily = "Helvetica"
)

// Options — настройки генератора.
type Options struct {
	Title        string
	Organization string
	// FontPath — TrueType-шрифт с полным набором символов; если файла нет,
	// используется Helvetica и текст деградирует до Windows-1252.
	FontPath string
	// Compress — сжатие потоков PDF (в проде включено).
	Compress bool
}

// Generator — генератор бланка заказа. Не хранит состояния между вызовами.
type Generator struct {
	opts Options
	now  func() time.Time
}

// NewGenerator — конструктор; now задаёт часы (локальное время бланка).
func NewGenerator(opts Options, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{opts: opts, now: now}
}

// Generate — PDF-бланк для непустого заказа.
// Возвращает domain.ErrEmptyOrder, если в заказе нет строк.
func (g *Generator) Generate(order domain.Order, client, note string) ([]byte, error) {
	at := g.now()
	layout, err := BuildLayout(order, client, note, at, g.opts.Title, g.opts.Organization)
	if err != nil {
		return nil, err
	}
	return g.render(layout, at)
}

// render — отрисовка Layout в PDF. Переполнение страницы — просто перенос
// на новую страницу (автоматический разрыв), шапка таблицы не повторяется.
func (g *Generator) render(layout Layout, at time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.opts.Compress)
	pdf.SetCreationDate(at)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, pageBreakMM)

	family, encode := g.font(pdf)

	pdf.AddPage()

	// Шапка.
	pdf.SetFont(family, "", 18)
	pdf.CellFormat(0, 10, encode(layout.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 12)
	pdf.CellFormat(0, 7, encode(layout.Organization), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.CellFormat(0, 7, encode("Client: "+layout.Client), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, encode("Date: "+layout.Date), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Таблица.
	pdf.SetFont(family, "", 11)
	fullWidth := widthProduct + widthPrice + widthQuantity + widthTotal
	for _, row := range layout.Rows {
		switch row.Kind {
		case RowHeader:
			pdf.SetFillColor(226, 232, 221)
			widths := []float64{widthProduct, widthPrice, widthQuantity, widthTotal}
			for i, cell := range row.Cells {
				pdf.CellFormat(widths[i], rowHeightMM, encode(cell), "1", 0, "C", true, 0, "")
			}
			pdf.Ln(rowHeightMM)
		case RowCategory:
			pdf.SetFillColor(247, 245, 238)
			pdf.CellFormat(fullWidth, rowHeightMM, encode(row.Cells[0]), "1", 1, "L", true, 0, "")
		case RowLine:
			pdf.SetFillColor(255, 255, 255)
			pdf.CellFormat(widthProduct, rowHeightMM, encode(row.Cells[0]), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widthPrice, rowHeightMM, encode(row.Cells[1]), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widthQuantity, rowHeightMM, encode(row.Cells[2]), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widthTotal, rowHeightMM, encode(row.Cells[3]), "1", 0, "C", false, 0, "")
			pdf.Ln(rowHeightMM)
		case RowTotal:
			pdf.SetFont(family, "", 12)
			pdf.CellFormat(widthProduct+widthPrice+widthQuantity, rowHeightMM, encode(row.Cells[0]), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widthTotal, rowHeightMM, encode(row.Cells[1]), "1", 1, "C", false, 0, "")
		}
	}

	// Примечание.
	if layout.Note != "" {
		pdf.Ln(4)
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(0, 6, encode(noteLabel), "", 1, "L", false, 0, "")
		pdf.MultiCell(0, 6, encode(layout.Note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// font — выбирает семейство шрифта и функцию подготовки текста.
func (g *Generator) font(pdf *fpdf.Fpdf) (string, encodeFunc) {
	if g.opts.FontPath == "" {
		return fallbackFamily, toWindows1252
	}
	if st, err := os.Stat(g.opts.FontPath); err != nil || st.IsDir() {
		return fallbackFamily, toWindows1252
	}
	pdf.AddUTF8Font(unicodeFamily, "", g.opts.FontPath)
	if pdf.Err() {
		// шрифт не прочитался — сбрасываем ошибку и деградируем до встроенного
		pdf.ClearError()
		return fallbackFamily, toWindows1252
	}
	return unicodeFamily, passthrough
}
