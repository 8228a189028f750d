package domain

import "strings"

// UnitToken — зарезервированный токен единицы: товар продаётся поштучно.
const UnitToken = "€"

// UnitPolicy — правило нормализации количества для товара.
type UnitPolicy int

const (
	// WeightPriced — весовой товар: количество округляется до 0.1 (100 г).
	WeightPriced UnitPolicy = iota
	// UnitPriced — штучный товар: дробные единицы не продаются, количество округляется вниз.
	UnitPriced
)

// PolicyFor — определяет политику по токену единицы.
// Любое значение, кроме UnitToken (включая пустую строку), — весовой товар.
func PolicyFor(unitKind string) UnitPolicy {
	if strings.ToLower(strings.TrimSpace(unitKind)) == UnitToken {
		return UnitPriced
	}
	return WeightPriced
}

func (p UnitPolicy) String() string {
	switch p {
	case UnitPriced:
		return "unit"
	default:
		return "weight"
	}
}
