package pricing_test

import (
	"math"
	"strings"
	"testing"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{"comma_decimal", "4,50", 4.5, true},
		{"euro_suffix", "12.0 €", 12, true},
		{"embedded_text", "environ 3,2 €/kg", 3.2, true},
		{"integer", "8", 8, true},
		{"plus_sign", "+7.25", 7.25, true},
		{"leading_dot", ".5", 0.5, true},
		{"rounds_to_cents", "1.999", 2, true},
		{"first_number_wins", "2 pour 5", 2, true},
		{"not_a_number", "n/a", 0, false},
		{"empty", "", 0, false},
		{"negative", "-3", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := pricing.ParsePrice(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizeQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    float64
		policy domain.UnitPolicy
		want   float64
	}{
		{"unit_floor", 3.9, domain.UnitPriced, 3},
		{"unit_floor_scenario_a", 2.6, domain.UnitPriced, 2},
		{"unit_negative", -2, domain.UnitPriced, 0},
		{"unit_below_one", 0.7, domain.UnitPriced, 0},
		{"weight_round_up", 1.27, domain.WeightPriced, 1.3},
		{"weight_round_down", 1.24, domain.WeightPriced, 1.2},
		{"weight_negative", -0.5, domain.WeightPriced, 0},
		{"weight_tiny", 0.04, domain.WeightPriced, 0},
		{"zero", 0, domain.WeightPriced, 0},
		{"nan", math.NaN(), domain.WeightPriced, 0},
		{"inf", math.Inf(1), domain.UnitPriced, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := pricing.NormalizeQuantity(tt.raw, tt.policy)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			if tt.policy == domain.UnitPriced {
				assert.Equal(t, math.Trunc(got), got, "unit-priced quantity must be an integer")
			}
		})
	}
}

func TestLineTotalAndSum(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 16.00, pricing.LineTotal(8, 2), 1e-9)
	assert.InDelta(t, 22.20, pricing.LineTotal(18.5, 1.2), 1e-9)
	assert.InDelta(t, 0.33, pricing.LineTotal(0.11, 3), 1e-9)

	totals := []float64{0.1, 0.2, 22.2, 16}
	assert.InDelta(t, 38.5, pricing.SumTotals(totals), 1e-9)
	assert.Equal(t, 0.0, pricing.SumTotals(nil))
}

func TestNormalizeCatalog(t *testing.T) {
	t.Parallel()

	rows := []domain.RawProduct{
		{Name: "  Miel ", Price: "8", Units: "€", Category: "Apiculture"},
		{Name: "Raclette", Price: "18,5", Units: " kg ", Category: "Fromagerie"},
		{Name: "Mystère", Price: "n/a", Units: "€", Category: ""},
		{Name: "Erreur", Price: "prix à venir", Units: "", Category: "Autres"},
	}

	products, warnings, invalid := pricing.NormalizeCatalog(rows)
	require.Len(t, products, 4)
	assert.Equal(t, 2, invalid)

	// одно агрегированное предупреждение на все невалидные цены
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "2 produit(s)")

	assert.Equal(t, "Miel", products[0].Name)
	assert.Equal(t, "8.00 €", products[0].PriceLabel)
	assert.Equal(t, "kg", products[1].UnitKind)
	assert.Equal(t, "18.50 kg", products[1].PriceLabel)

	// строка с некорректной ценой остаётся в каталоге с ценой 0
	assert.Equal(t, "Mystère", products[2].Name)
	assert.Equal(t, 0.0, products[2].UnitPrice)
	assert.Equal(t, domain.DefaultCategory, products[2].Category)

	for _, p := range products {
		assert.GreaterOrEqual(t, p.UnitPrice, 0.0)
	}
}

func TestNormalizeCatalog_NoWarnings(t *testing.T) {
	t.Parallel()

	_, warnings, invalid := pricing.NormalizeCatalog([]domain.RawProduct{{Name: "Oeufs", Price: "0,40", Units: "€"}})
	assert.Empty(t, warnings)
	assert.Zero(t, invalid)
}

func TestParsePrice_OutOfRange(t *testing.T) {
	t.Parallel()

	huge := "1" + strings.Repeat("0", 400)
	got, ok := pricing.ParsePrice(huge)
	assert.False(t, ok)
	assert.Zero(t, got)

	_, ok = pricing.ParsePrice("2000000")
	assert.False(t, ok, "price above MaxUnitPrice is invalid")

	got, ok = pricing.ParsePrice("999999.99")
	assert.True(t, ok)
	assert.InDelta(t, 999999.99, got, 1e-6)
}

func TestNormalizeQuantity_CappedAtMax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pricing.MaxQuantity, pricing.NormalizeQuantity(1e308, domain.WeightPriced))
	assert.Equal(t, pricing.MaxQuantity, pricing.NormalizeQuantity(math.MaxFloat64, domain.UnitPriced))
	assert.InDelta(t, 250.5, pricing.NormalizeQuantity(250.5, domain.WeightPriced), 1e-9)
}

func TestNormalizeCatalog_HugePrice(t *testing.T) {
	t.Parallel()

	rows := []domain.RawProduct{{Name: "Miel", Price: "1" + strings.Repeat("0", 400), Units: "€", Category: "Apiculture"}}

	var (
		products []domain.ProductRecord
		warnings []string
		invalid  int
	)
	require.NotPanics(t, func() { products, warnings, invalid = pricing.NormalizeCatalog(rows) })
	require.Len(t, products, 1)
	assert.Equal(t, 1, invalid)
	assert.Len(t, warnings, 1)
	assert.Equal(t, 0.0, products[0].UnitPrice)
	assert.Equal(t, "0.00 €", products[0].PriceLabel)
}

func TestLineTotal_NonFinite(t *testing.T) {
	t.Parallel()

	assert.Zero(t, pricing.LineTotal(math.MaxFloat64, math.MaxFloat64))
	assert.Zero(t, pricing.LineTotal(math.Inf(1), 2))
	assert.Zero(t, pricing.SumTotals([]float64{math.MaxFloat64, math.MaxFloat64}))
	assert.Equal(t, "0.00 €", pricing.FormatEuro(math.NaN()))
}

// Округление половины — от нуля, по десятичной записи: 1.15 * 1.5 = 1.725 → 1.73.
func TestRounding_HalfAwayFromZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.73, pricing.LineTotal(1.15, 1.5))
	assert.Equal(t, 0.3, pricing.NormalizeQuantity(0.25, domain.WeightPriced))
	price, ok := pricing.ParsePrice("2,675")
	require.True(t, ok)
	assert.Equal(t, 2.68, price)
}
