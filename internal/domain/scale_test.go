package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain"
)

func TestCheckScale(t *testing.T) {
	cases := []struct {
		name   string
		value  string
		places int32
		ok     bool
	}{
		{"monto entero", "100", domain.MoneyScale, true},
		{"monto con centavos", "100.55", domain.MoneyScale, true},
		{"ceros a la derecha", "10.5000", domain.MoneyScale, true},
		{"monto con milésimos", "100.555", domain.MoneyScale, false},
		{"monto que redondea a cero", "0.001", domain.MoneyScale, false},
		{"cantidad con milésimos", "1.125", domain.QuantityScale, true},
		{"cantidad demasiado fina", "1.0001", domain.QuantityScale, false},
		{"monto máximo", "999999999999.99", domain.MoneyScale, true},
		{"monto fuera de rango", "1000000000000", domain.MoneyScale, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.CheckScale("amount", decimal.RequireFromString(tc.value), tc.places)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "amount", ve.Field)
		})
	}
}
