package pricing

import (
	"math"
	"strings"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatEuro — "12.50 €".
func FormatEuro(value float64) string {
	return decimalOf(value).StringFixed(2) + " €"
}

// FormatUnitPrice — "4.50 kg" или "4.50", если единица не задана.
func FormatUnitPrice(unitPrice float64, unitKind string) string {
	price := decimalOf(unitPrice).StringFixed(2)
	if unit := strings.TrimSpace(unitKind); unit != "" {
		return price + " " + unit
	}
	return price
}

// FormatQuantity — целое без десятичных для штучных товаров и для целых количеств,
// иначе один знак после точки.
func FormatQuantity(quantity float64, policy domain.UnitPolicy) string {
	value := decimalOf(quantity)
	if policy == domain.UnitPriced {
		return value.Truncate(0).String()
	}
	if value.Equal(value.Truncate(0)) {
		return value.Truncate(0).String()
	}
	return value.StringFixed(1)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// decimalOf — decimal из float64; NaN и ±Inf превращаются в 0 (NewFromFloat на них паникует).
func decimalOf(v float64) decimal.Decimal {
	if !isFinite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
