package clearing_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

var branches = map[string]entity.Branch{
	"X": {ID: "X", Name: "Centro", Active: true},
	"Y": {ID: "Y", Name: "Norte", Active: true},
	"Z": {ID: "Z", Name: "Sur", Active: true},
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func item(owner, subtotal string) entity.SaleItem {
	return entity.SaleItem{ProductID: "p-" + owner, OwnerBranchID: owner, Quantity: d("1"), UnitPrice: d(subtotal), Subtotal: d(subtotal)}
}

func cashSale(id, branch, total string, items ...entity.SaleItem) entity.Sale {
	return entity.Sale{ID: id, BranchID: branch, Total: d(total), PaymentMethod: entity.PaymentCash, Items: items}
}

func find(t *testing.T, balances []clearing.Balance, id string) clearing.Balance {
	t.Helper()
	for _, b := range balances {
		if b.CounterpartyBranchID == id {
			return b
		}
	}
	require.Failf(t, "contraparte no encontrada", "id=%s", id)
	return clearing.Balance{}
}

// Escenario A: X vende 1 unidad de un producto de Y por 100 en efectivo.
func TestComputeBalances_EscenarioA(t *testing.T) {
	sales := []entity.Sale{cashSale("s1", "X", "100", item("Y", "100"))}

	bx := clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales, Branches: branches})
	require.Len(t, bx, 1)
	y := bx[0]
	assert.Equal(t, "Y", y.CounterpartyBranchID)
	assert.Equal(t, "Norte", y.CounterpartyName)
	assertDec(t, "100", y.RawDebt)
	assertDec(t, "100", y.RemainingDebt)
	assertDec(t, "100", y.DebtBreakdown[entity.PaymentCash])
	assertDec(t, "-100", y.NetBalance)

	by := clearing.ComputeBalances(clearing.Input{HomeBranchID: "Y", Sales: sales, Branches: branches})
	x := find(t, by, "X")
	assertDec(t, "100", x.RawReceivable)
	assertDec(t, "100", x.RemainingReceivable)
	assertDec(t, "100", x.ReceivableBreakdown[entity.PaymentCash])
	assertDec(t, "100", x.NetBalance)
}

// Escenario B: la liquidación pendiente no reduce la deuda; la confirmada sí.
func TestComputeBalances_EscenarioB(t *testing.T) {
	sales := []entity.Sale{cashSale("s1", "X", "100", item("Y", "100"))}
	settlement := entity.Settlement{ID: "st1", SourceBranchID: "X", TargetBranchID: "Y", Amount: d("100"), Status: entity.SettlementPending}

	bx := clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales, Settlements: []entity.Settlement{settlement}})
	y := find(t, bx, "Y")
	assertDec(t, "100", y.RemainingDebt)
	assertDec(t, "100", y.PaidPending)
	assertDec(t, "0", y.PaidConfirmed)

	by := clearing.ComputeBalances(clearing.Input{HomeBranchID: "Y", Sales: sales, Settlements: []entity.Settlement{settlement}})
	assertDec(t, "100", find(t, by, "X").ReceivedPending)
	assertDec(t, "100", find(t, by, "X").RemainingReceivable)

	settlement.Status = entity.SettlementConfirmed
	bx = clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales, Settlements: []entity.Settlement{settlement}})
	y = find(t, bx, "Y")
	assertDec(t, "0", y.RemainingDebt)
	assertDec(t, "0", y.PaidPending)
	assertDec(t, "100", y.PaidConfirmed)

	by = clearing.ComputeBalances(clearing.Input{HomeBranchID: "Y", Sales: sales, Settlements: []entity.Settlement{settlement}})
	x := find(t, by, "X")
	assertDec(t, "0", x.RemainingReceivable)
	assertDec(t, "0", x.NetBalance)
}

// Escenario D: pago mixto 60 efectivo / 40 tarjeta de un ítem ajeno por el total.
func TestComputeBalances_EscenarioD_PagoMixto(t *testing.T) {
	sale := entity.Sale{
		ID: "s1", BranchID: "X", Total: d("100"), PaymentMethod: entity.PaymentMixed,
		Payments: []entity.PaymentDetail{
			{Method: entity.PaymentCash, Amount: d("60")},
			{Method: entity.PaymentCard, Amount: d("40")},
		},
		Items: []entity.SaleItem{item("Y", "100")},
	}

	y := find(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: []entity.Sale{sale}}), "Y")
	assertDec(t, "100", y.RawDebt)
	assert.Len(t, y.DebtBreakdown, 2)
	assertDec(t, "60", y.DebtBreakdown[entity.PaymentCash])
	assertDec(t, "40", y.DebtBreakdown[entity.PaymentCard])
}

func TestComputeBalances_PagoMixtoProporcional(t *testing.T) {
	// 30 de 90 pertenecen a Y: un tercio de cada medio de pago
	sale := entity.Sale{
		ID: "s1", BranchID: "X", Total: d("90"),
		Payments: []entity.PaymentDetail{
			{Method: entity.PaymentCash, Amount: d("45")},
			{Method: entity.PaymentCard, Amount: d("45")},
		},
		Items: []entity.SaleItem{item("Y", "30"), item("X", "60")},
	}
	y := find(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: []entity.Sale{sale}}), "Y")
	assertDec(t, "30", y.RawDebt)
	assertDec(t, "15", y.DebtBreakdown[entity.PaymentCash])
	assertDec(t, "15", y.DebtBreakdown[entity.PaymentCard])
}

func TestComputeBalances_DesgloseRedondeadoADosDecimales(t *testing.T) {
	sale := entity.Sale{
		ID: "s1", BranchID: "X", Total: d("3"),
		Payments: []entity.PaymentDetail{
			{Method: entity.PaymentCash, Amount: d("1")},
			{Method: entity.PaymentCard, Amount: d("2")},
		},
		Items: []entity.SaleItem{item("Y", "1"), item("X", "2")},
	}
	y := find(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: []entity.Sale{sale}}), "Y")
	assertDec(t, "0.33", y.DebtBreakdown[entity.PaymentCash])
	assertDec(t, "0.67", y.DebtBreakdown[entity.PaymentCard])
	assertDec(t, "1", y.RawDebt)
}

func TestComputeBalances_VentaTotalCeroNoAporta(t *testing.T) {
	sales := []entity.Sale{
		cashSale("s0", "X", "0", item("Y", "50")),
		cashSale("s-neg", "X", "-20", item("Y", "20")),
		cashSale("s-otra", "Y", "0", item("X", "10")),
	}
	assert.Empty(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales}))
	assert.Empty(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "Y", Sales: sales}))
}

func TestComputeBalances_ProductosGlobalesYPropiosNoGeneranDeuda(t *testing.T) {
	sales := []entity.Sale{cashSale("s1", "X", "30", item("", "10"), item("X", "20"))}
	assert.Empty(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales}))
}

func TestComputeBalances_SinMedioDePago(t *testing.T) {
	sale := entity.Sale{ID: "s1", BranchID: "X", Total: d("10"), Items: []entity.SaleItem{item("Y", "10")}}
	y := find(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: []entity.Sale{sale}}), "Y")
	assertDec(t, "10", y.DebtBreakdown[clearing.UnspecifiedMethod])
}

func TestComputeBalances_LiquidacionRechazadaSeIgnoraPeroMantieneContraparte(t *testing.T) {
	settlements := []entity.Settlement{
		{ID: "st1", SourceBranchID: "X", TargetBranchID: "Z", Amount: d("40"), Status: entity.SettlementRejected},
	}
	bx := clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Settlements: settlements, Branches: branches})
	z := find(t, bx, "Z")
	assertDec(t, "0", z.PaidConfirmed)
	assertDec(t, "0", z.PaidPending)
	assertDec(t, "0", z.RemainingDebt)
}

func TestComputeBalances_PagoAnticipadoDejaDeudaNegativa(t *testing.T) {
	settlements := []entity.Settlement{
		{ID: "st1", SourceBranchID: "X", TargetBranchID: "Y", Amount: d("25"), Status: entity.SettlementConfirmed},
	}
	y := find(t, clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Settlements: settlements}), "Y")
	assertDec(t, "-25", y.RemainingDebt)
	assertDec(t, "25", y.NetBalance)
}

func TestComputeBalances_OrdenadoPorNombre(t *testing.T) {
	sales := []entity.Sale{
		cashSale("s1", "X", "10", item("Z", "10")),
		cashSale("s2", "X", "10", item("Y", "10")),
	}
	bx := clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales, Branches: branches})
	require.Len(t, bx, 2)
	assert.Equal(t, "Norte", bx[0].CounterpartyName)
	assert.Equal(t, "Sur", bx[1].CounterpartyName)
}

// Conservación: toda deuda tiene exactamente una cuenta por cobrar espejo.
func TestComputeBalances_ConservacionGlobal(t *testing.T) {
	ids := []string{"X", "Y", "Z"}
	var sales []entity.Sale
	n := 0
	for _, seller := range ids {
		for i, owner := range append(ids, "") {
			n++
			amount := fmt.Sprintf("%d.%02d", 10+i*7, n%100)
			sale := entity.Sale{
				ID: fmt.Sprintf("s%d", n), BranchID: seller, Total: d(amount).Add(d("5")),
				Payments: []entity.PaymentDetail{
					{Method: entity.PaymentCash, Amount: d(amount)},
					{Method: entity.PaymentCard, Amount: d("5")},
				},
				Items: []entity.SaleItem{item(owner, amount), item(seller, "5")},
			}
			sales = append(sales, sale)
		}
	}
	sales = append(sales, cashSale("cero", "Y", "0", item("X", "99")))

	debt, receivable := decimal.Zero, decimal.Zero
	for _, home := range ids {
		for _, b := range clearing.ComputeBalances(clearing.Input{HomeBranchID: home, Sales: sales}) {
			debt = debt.Add(b.RawDebt)
			receivable = receivable.Add(b.RawReceivable)
		}
	}
	assert.True(t, debt.IsPositive())
	assertDec(t, debt.String(), receivable)
}

func TestTotals(t *testing.T) {
	sales := []entity.Sale{
		cashSale("s1", "X", "10", item("Y", "10")),
		cashSale("s2", "Z", "7", item("X", "7")),
	}
	bx := clearing.ComputeBalances(clearing.Input{HomeBranchID: "X", Sales: sales})
	total := clearing.Totals(bx)
	assertDec(t, "10", total.RawDebt)
	assertDec(t, "7", total.RawReceivable)
	assertDec(t, "-3", total.NetBalance)
	assertDec(t, "10", total.DebtBreakdown[entity.PaymentCash])
}

func TestComputeBalances_SinSucursalLocal(t *testing.T) {
	assert.Nil(t, clearing.ComputeBalances(clearing.Input{}))
}
