package clearing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	domclearing "github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
)

type stubExporter struct {
	branch   *entity.Branch
	balances []domclearing.Balance
}

func (s *stubExporter) ExportBalances(branch *entity.Branch, balances []domclearing.Balance, _ domclearing.Balance) ([]byte, error) {
	s.branch = branch
	s.balances = balances
	return []byte("xlsx"), nil
}

// A vende un producto de B por 100 en efectivo.
func seedCrossSale(store *memory.Store) {
	store.AddProduct(entity.Product{ID: "p-b", OwnerBranchID: branchB, Name: "Producto B", Price: d("100"), Active: true})
	store.AddProduct(entity.Product{ID: "p-global", Name: "Global", Price: d("5"), Active: true})
	store.AddSale(entity.Sale{
		ID:            "sale-1",
		BranchID:      branchA,
		Total:         d("105"),
		PaymentMethod: entity.PaymentCash,
		Items: []entity.SaleItem{
			{ProductID: "p-b", Quantity: d("1"), UnitPrice: d("100"), Subtotal: d("100")},
			{ProductID: "p-global", Quantity: d("1"), UnitPrice: d("5"), Subtotal: d("5")},
		},
		CreatedAt: time.Now(),
	})
}

func newBalanceUC(store *memory.Store, exp clearing.BalanceExporter) *clearing.BalanceUseCase {
	return clearing.NewBalanceUseCase(access.NewPolicy(store.Modules()), memory.NewTxRunner(store), store.Branches(), exp)
}

func TestGetBalance_DeudaYCuentaPorCobrar(t *testing.T) {
	store := newStore()
	seedCrossSale(store)
	uc := newBalanceUC(store, nil)
	ctx := context.Background()

	a, err := uc.GetBalance(ctx, cajero(branchA), "")
	require.NoError(t, err)
	assert.Equal(t, "Centro", a.BranchName)
	require.Len(t, a.Balances, 1)
	assert.Equal(t, branchB, a.Balances[0].CounterpartyBranchID)
	assert.Equal(t, "Norte", a.Balances[0].CounterpartyName)
	assert.True(t, d("100").Equal(a.Balances[0].RawDebt))
	assert.True(t, d("100").Equal(a.Balances[0].DebtBreakdown[entity.PaymentCash]))
	assert.True(t, d("-100").Equal(a.Balances[0].NetBalance))

	b, err := uc.GetBalance(ctx, cajero(branchB), "")
	require.NoError(t, err)
	require.Len(t, b.Balances, 1)
	assert.True(t, d("100").Equal(b.Balances[0].RawReceivable))
	assert.True(t, d("100").Equal(b.Totals.NetBalance))
}

func TestGetBalance_SoloConfirmadasReducenDeuda(t *testing.T) {
	store := newStore()
	seedCrossSale(store)
	settlements := newSettlementUC(store)
	uc := newBalanceUC(store, nil)
	ctx := context.Background()

	pending, err := settlements.Create(ctx, cajero(branchA), "", dto.CreateSettlementRequest{TargetBranchID: branchB, Amount: d("40")})
	require.NoError(t, err)

	a, err := uc.GetBalance(ctx, cajero(branchA), "")
	require.NoError(t, err)
	assert.True(t, d("40").Equal(a.Balances[0].PaidPending))
	assert.True(t, d("100").Equal(a.Balances[0].RemainingDebt))

	_, err = settlements.Update(ctx, cajero(branchB), "", pending.ID, dto.UpdateSettlementRequest{Status: entity.SettlementConfirmed})
	require.NoError(t, err)

	a, err = uc.GetBalance(ctx, cajero(branchA), "")
	require.NoError(t, err)
	assert.True(t, d("40").Equal(a.Balances[0].PaidConfirmed))
	assert.True(t, a.Balances[0].PaidPending.IsZero())
	assert.True(t, d("60").Equal(a.Balances[0].RemainingDebt))

	b, err := uc.GetBalance(ctx, cajero(branchB), "")
	require.NoError(t, err)
	assert.True(t, d("40").Equal(b.Balances[0].ReceivedConfirmed))
	assert.True(t, d("60").Equal(b.Balances[0].RemainingReceivable))
}

func TestGetBalance_SucursalInexistente(t *testing.T) {
	uc := newBalanceUC(newStore(), nil)
	admin := access.Actor{UserID: "admin", Role: access.RoleAdmin}
	_, err := uc.GetBalance(context.Background(), admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportBalance_UsaElExportador(t *testing.T) {
	store := newStore()
	seedCrossSale(store)
	exp := &stubExporter{}
	uc := newBalanceUC(store, exp)

	data, name, err := uc.ExportBalance(context.Background(), cajero(branchA), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Contains(t, name, "clearing_"+branchA+"_")
	require.NotNil(t, exp.branch)
	assert.Equal(t, branchA, exp.branch.ID)
	assert.Len(t, exp.balances, 1)
}

func TestExportBalance_SinExportador(t *testing.T) {
	uc := newBalanceUC(newStore(), nil)
	_, _, err := uc.ExportBalance(context.Background(), cajero(branchA), "")
	assert.Error(t, err)
}
