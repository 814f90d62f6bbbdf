package export_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/export"
)

func TestExportBalances_FilasYTotales(t *testing.T) {
	b := clearing.Balance{
		CounterpartyBranchID: "branch-b",
		CounterpartyName:     "Norte",
		RawDebt:              decimal.NewFromInt(100),
		DebtBreakdown:        clearing.Breakdown{entity.PaymentCash: decimal.NewFromInt(60), entity.PaymentCard: decimal.NewFromInt(40)},
		PaidConfirmed:        decimal.NewFromInt(40),
		RemainingDebt:        decimal.NewFromInt(60),
		NetBalance:           decimal.NewFromInt(-60),
		ReceivableBreakdown:  clearing.Breakdown{},
	}
	data, err := export.NewExcelBalanceExporter().ExportBalances(
		&entity.Branch{ID: "branch-a", Name: "Centro"},
		[]clearing.Balance{b},
		clearing.Totals([]clearing.Balance{b}),
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue(export.SheetBalance, "A1")
	assert.Contains(t, title, "Centro")

	name, _ := f.GetCellValue(export.SheetBalance, "A5")
	assert.Equal(t, "Norte", name)
	total, _ := f.GetCellValue(export.SheetBalance, "A6")
	assert.Equal(t, "TOTAL", total)

	rows, err := f.GetRows(export.SheetBreakdown)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Sucursal", "Tipo", entity.PaymentCard, entity.PaymentCash}, rows[0])
	assert.Equal(t, "Deuda", rows[1][1])
}
