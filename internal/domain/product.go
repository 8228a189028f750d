package domain

// DefaultCategory — категория для товаров без явно указанной категории.
const DefaultCategory = "Autres"

// RawProduct — строка каталога в том виде, в каком её отдаёт источник
// (колонки name, price, units, category, image_path). Цена — сырой текст.
type RawProduct struct {
	Name      string
	Price     string
	Units     string
	Category  string
	ImagePath string
}

// ProductRecord — нормализованная позиция каталога (только для чтения).
type ProductRecord struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	UnitKind   string  `json:"unit_kind"`
	UnitPrice  float64 `json:"unit_price"`
	PriceLabel string  `json:"price_label"`
	ImageRef   string  `json:"image_ref,omitempty"`
}

// Policy — политика нормализации количества для позиции.
func (p ProductRecord) Policy() UnitPolicy { return PolicyFor(p.UnitKind) }

// Catalog — загруженный и нормализованный каталог вместе с предупреждениями о качестве данных.
type Catalog struct {
	Products []ProductRecord `json:"products"`
	Warnings []string        `json:"warnings"`
}

// Clone — копия каталога, чтобы вызывающая сторона не могла изменить закэшированные данные.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Products: append([]ProductRecord(nil), c.Products...),
		Warnings: append([]string(nil), c.Warnings...),
	}
	return out
}
