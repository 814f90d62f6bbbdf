package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Escalas de persistencia: montos NUMERIC(14,2), cantidades NUMERIC(14,3).
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 3

	numericPrecision int32 = 14
)

// CheckScale rechaza valores que no entran en la columna sin redondeo: más decimales que
// places o más dígitos enteros de los que admite la precisión.
func CheckScale(field string, v decimal.Decimal, places int32) error {
	if !v.Equal(v.Truncate(places)) {
		return Invalid(field, fmt.Sprintf("admite como máximo %d decimales", places))
	}
	if v.Abs().GreaterThanOrEqual(decimal.New(1, numericPrecision-places)) {
		return Invalid(field, "valor fuera de rango")
	}
	return nil
}
