// Package clearing calcula la deuda entre sucursales que nace de vender productos de otra
// sucursal. Es una vista materializada: no persiste nada y se recalcula en cada consulta a
// partir de las ventas y las liquidaciones vigentes.
package clearing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// UnspecifiedMethod agrupa ventas sin medio de pago informado.
const UnspecifiedMethod = "UNSPECIFIED"

// breakdownPlaces decimales con que se reporta el desglose por medio de pago.
const breakdownPlaces = 2

// Breakdown monto por medio de pago (CASH, CARD, ...).
type Breakdown map[string]decimal.Decimal

// Input datos de una corrida del motor. Sales y Settlements pueden traer registros ajenos
// a HomeBranchID; el motor filtra.
type Input struct {
	HomeBranchID string
	Sales        []entity.Sale
	Settlements  []entity.Settlement
	Branches     map[string]entity.Branch // para nombres; puede faltar alguna
}

// Balance posición de la sucursal local frente a una contraparte.
//
//	RemainingDebt       = RawDebt − PaidConfirmed
//	RemainingReceivable = RawReceivable − ReceivedConfirmed
//	NetBalance          = RemainingReceivable − RemainingDebt
//
// Las liquidaciones pendientes se informan aparte y nunca reducen la deuda.
type Balance struct {
	CounterpartyBranchID string
	CounterpartyName     string

	RawDebt       decimal.Decimal
	DebtBreakdown Breakdown
	PaidConfirmed decimal.Decimal
	PaidPending   decimal.Decimal
	RemainingDebt decimal.Decimal

	RawReceivable       decimal.Decimal
	ReceivableBreakdown Breakdown
	ReceivedConfirmed   decimal.Decimal
	ReceivedPending     decimal.Decimal
	RemainingReceivable decimal.Decimal

	NetBalance decimal.Decimal
}

func newBalance(id string) *Balance {
	return &Balance{
		CounterpartyBranchID: id,
		DebtBreakdown:        Breakdown{},
		ReceivableBreakdown:  Breakdown{},
	}
}

// ComputeBalances devuelve, para HomeBranchID, un Balance por cada sucursal con la que tiene
// deuda, cuenta por cobrar o historial de liquidaciones. Función pura.
func ComputeBalances(in Input) []Balance {
	home := in.HomeBranchID
	if home == "" {
		return nil
	}

	acc := make(map[string]*Balance)
	get := func(id string) *Balance {
		b, ok := acc[id]
		if !ok {
			b = newBalance(id)
			acc[id] = b
		}
		return b
	}

	for i := range in.Sales {
		sale := &in.Sales[i]
		// total <= 0: sin proporción definida y fuera del alcance (devoluciones)
		if !sale.Total.IsPositive() {
			continue
		}
		shares := OwnerShares(sale)
		if len(shares) == 0 {
			continue
		}

		if sale.BranchID == home {
			for owner, share := range shares {
				b := get(owner)
				b.RawDebt = b.RawDebt.Add(share)
				allocate(b.DebtBreakdown, sale, share)
			}
			continue
		}
		if share, ok := shares[home]; ok {
			b := get(sale.BranchID)
			b.RawReceivable = b.RawReceivable.Add(share)
			allocate(b.ReceivableBreakdown, sale, share)
		}
	}

	for _, s := range in.Settlements {
		switch {
		case s.SourceBranchID == home && s.TargetBranchID != home:
			b := get(s.TargetBranchID)
			switch s.Status {
			case entity.SettlementConfirmed:
				b.PaidConfirmed = b.PaidConfirmed.Add(s.Amount)
			case entity.SettlementPending:
				b.PaidPending = b.PaidPending.Add(s.Amount)
			}
		case s.TargetBranchID == home && s.SourceBranchID != home:
			b := get(s.SourceBranchID)
			switch s.Status {
			case entity.SettlementConfirmed:
				b.ReceivedConfirmed = b.ReceivedConfirmed.Add(s.Amount)
			case entity.SettlementPending:
				b.ReceivedPending = b.ReceivedPending.Add(s.Amount)
			}
		}
	}

	out := make([]Balance, 0, len(acc))
	for id, b := range acc {
		if br, ok := in.Branches[id]; ok {
			b.CounterpartyName = br.Name
		}
		b.RemainingDebt = b.RawDebt.Sub(b.PaidConfirmed)
		b.RemainingReceivable = b.RawReceivable.Sub(b.ReceivedConfirmed)
		b.NetBalance = b.RemainingReceivable.Sub(b.RemainingDebt)
		roundBreakdown(b.DebtBreakdown)
		roundBreakdown(b.ReceivableBreakdown)
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CounterpartyName != out[j].CounterpartyName {
			return out[i].CounterpartyName < out[j].CounterpartyName
		}
		return out[i].CounterpartyBranchID < out[j].CounterpartyBranchID
	})
	return out
}

// OwnerShares suma el subtotal de las líneas por sucursal dueña, excluyendo productos
// globales y los de la propia sucursal vendedora. Las participaciones en cero se omiten.
func OwnerShares(sale *entity.Sale) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal)
	for _, it := range sale.Items {
		if it.OwnerBranchID == "" || it.OwnerBranchID == sale.BranchID {
			continue
		}
		shares[it.OwnerBranchID] = shares[it.OwnerBranchID].Add(it.Subtotal)
	}
	for owner, share := range shares {
		if share.IsZero() {
			delete(shares, owner)
		}
	}
	return shares
}

// allocate reparte share según la composición real del pago de la venta.
// Con pago dividido cada medio aporta amount × share / total; si no, todo va al medio único.
func allocate(bd Breakdown, sale *entity.Sale, share decimal.Decimal) {
	if sale.HasSplitPayment() {
		for _, p := range sale.Payments {
			method := p.Method
			if method == "" {
				method = UnspecifiedMethod
			}
			bd[method] = bd[method].Add(p.Amount.Mul(share).Div(sale.Total))
		}
		return
	}
	method := sale.PaymentMethod
	if method == "" {
		method = UnspecifiedMethod
	}
	bd[method] = bd[method].Add(share)
}

func roundBreakdown(bd Breakdown) {
	for k, v := range bd {
		bd[k] = v.Round(breakdownPlaces)
	}
}

// Totals suma todas las columnas de balances en una fila agregada.
func Totals(balances []Balance) Balance {
	t := newBalance("")
	for _, b := range balances {
		t.RawDebt = t.RawDebt.Add(b.RawDebt)
		t.PaidConfirmed = t.PaidConfirmed.Add(b.PaidConfirmed)
		t.PaidPending = t.PaidPending.Add(b.PaidPending)
		t.RemainingDebt = t.RemainingDebt.Add(b.RemainingDebt)
		t.RawReceivable = t.RawReceivable.Add(b.RawReceivable)
		t.ReceivedConfirmed = t.ReceivedConfirmed.Add(b.ReceivedConfirmed)
		t.ReceivedPending = t.ReceivedPending.Add(b.ReceivedPending)
		t.RemainingReceivable = t.RemainingReceivable.Add(b.RemainingReceivable)
		t.NetBalance = t.NetBalance.Add(b.NetBalance)
		for k, v := range b.DebtBreakdown {
			t.DebtBreakdown[k] = t.DebtBreakdown[k].Add(v)
		}
		for k, v := range b.ReceivableBreakdown {
			t.ReceivableBreakdown[k] = t.ReceivableBreakdown[k].Add(v)
		}
	}
	return *t
}
