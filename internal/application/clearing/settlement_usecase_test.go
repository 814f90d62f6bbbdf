package clearing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	branchA = "branch-a"
	branchB = "branch-b"
	branchC = "branch-c"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cajero(branchID string) access.Actor {
	return access.Actor{UserID: "user-" + branchID, BranchID: branchID, Role: access.RoleCajero}
}

func newStore() *memory.Store {
	store := memory.NewStore()
	store.AddBranch(entity.Branch{ID: branchA, Name: "Centro", Active: true})
	store.AddBranch(entity.Branch{ID: branchB, Name: "Norte", Active: true})
	store.AddBranch(entity.Branch{ID: branchC, Name: "Sur", Active: false})
	return store
}

func newSettlementUC(store *memory.Store) *clearing.SettlementUseCase {
	return clearing.NewSettlementUseCase(
		access.NewPolicy(store.Modules()),
		memory.NewTxRunner(store),
		store.Settlements(),
		store.Branches(),
		logger.Nop(),
	)
}

func createPending(t *testing.T, uc *clearing.SettlementUseCase, amount string) *dto.SettlementResponse {
	t.Helper()
	s, err := uc.Create(context.Background(), cajero(branchA), "", dto.CreateSettlementRequest{
		TargetBranchID: branchB,
		Amount:         d(amount),
		Note:           "  depósito  ",
	})
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSettlement_NacePendiente(t *testing.T) {
	uc := newSettlementUC(newStore())
	s := createPending(t, uc, "100")

	assert.Equal(t, entity.SettlementPending, s.Status)
	assert.Equal(t, branchA, s.SourceBranchID)
	assert.Equal(t, branchB, s.TargetBranchID)
	assert.Equal(t, "depósito", s.Note)
	assert.Equal(t, "user-"+branchA, s.CreatedBy)
	assert.Nil(t, s.ResolvedAt)
}

func TestCreateSettlement_Validaciones(t *testing.T) {
	uc := newSettlementUC(newStore())
	ctx := context.Background()

	cases := []struct {
		name  string
		in    dto.CreateSettlementRequest
		field string
	}{
		{"sin destino", dto.CreateSettlementRequest{Amount: d("10")}, "target_branch_id"},
		{"a sí misma", dto.CreateSettlementRequest{TargetBranchID: branchA, Amount: d("10")}, "target_branch_id"},
		{"monto cero", dto.CreateSettlementRequest{TargetBranchID: branchB, Amount: d("0")}, "amount"},
		{"monto negativo", dto.CreateSettlementRequest{TargetBranchID: branchB, Amount: d("-5")}, "amount"},
		{"monto bajo el centavo", dto.CreateSettlementRequest{TargetBranchID: branchB, Amount: d("0.001")}, "amount"},
		{"monto con milésimos", dto.CreateSettlementRequest{TargetBranchID: branchB, Amount: d("100.555")}, "amount"},
		{"destino inactivo", dto.CreateSettlementRequest{TargetBranchID: branchC, Amount: d("5")}, "target_branch_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, cajero(branchA), "", tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCreateSettlement_DestinoInexistente(t *testing.T) {
	uc := newSettlementUC(newStore())
	_, err := uc.Create(context.Background(), cajero(branchA), "", dto.CreateSettlementRequest{
		TargetBranchID: "no-existe", Amount: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSettlement_ModuloDeshabilitado(t *testing.T) {
	store := newStore()
	store.SetModule(access.ModuleClearing, false)
	uc := newSettlementUC(store)
	_, err := uc.Create(context.Background(), cajero(branchA), "", dto.CreateSettlementRequest{
		TargetBranchID: branchB, Amount: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrModuleDisabled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateSettlement_AcreedoraConfirma(t *testing.T) {
	uc := newSettlementUC(newStore())
	s := createPending(t, uc, "100")

	out, err := uc.Update(context.Background(), cajero(branchB), "", s.ID, dto.UpdateSettlementRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementConfirmed, out.Status)
	assert.Equal(t, "user-"+branchB, out.ResolvedBy)
	require.NotNil(t, out.ResolvedAt)
}

func TestUpdateSettlement_TerminalNoCambia(t *testing.T) {
	uc := newSettlementUC(newStore())
	ctx := context.Background()
	s := createPending(t, uc, "100")

	_, err := uc.Update(ctx, cajero(branchB), "", s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementRejected})
	require.NoError(t, err)

	_, err = uc.Update(ctx, cajero(branchB), "", s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementConfirmed})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := uc.Get(ctx, cajero(branchA), "", s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementRejected, got.Status)
}

func TestUpdateSettlement_DeudoraNoPuedeResolver(t *testing.T) {
	uc := newSettlementUC(newStore())
	s := createPending(t, uc, "100")

	_, err := uc.Update(context.Background(), cajero(branchA), "", s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementConfirmed})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateSettlement_OrdenDeErrores(t *testing.T) {
	uc := newSettlementUC(newStore())
	ctx := context.Background()
	s := createPending(t, uc, "100")

	_, err := uc.Update(ctx, cajero(branchB), "", "no-existe", dto.UpdateSettlementRequest{Status: entity.SettlementConfirmed})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(ctx, cajero(branchB), "", s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementConfirmed})
	require.NoError(t, err)

	// ya terminal, pero la deudora recibe Forbidden antes que InvalidState
	_, err = uc.Update(ctx, cajero(branchA), "", s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementRejected})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateSettlement_EstadoInvalido(t *testing.T) {
	uc := newSettlementUC(newStore())
	s := createPending(t, uc, "100")

	_, err := uc.Update(context.Background(), cajero(branchB), "", s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementPending})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSettlement_ConcurrenteSoloUnoGana(t *testing.T) {
	uc := newSettlementUC(newStore())
	s := createPending(t, uc, "100")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)
	statuses := []string{entity.SettlementConfirmed, entity.SettlementRejected}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, err := uc.Update(context.Background(), cajero(branchB), "", s.ID, dto.UpdateSettlementRequest{Status: status})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInvalidState):
				conflict++
			}
		}(statuses[i%2])
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, conflict)
}

func TestUpdateSettlement_AdminActuaComoAcreedora(t *testing.T) {
	uc := newSettlementUC(newStore())
	s := createPending(t, uc, "100")
	admin := access.Actor{UserID: "admin", Role: access.RoleAdmin}

	out, err := uc.Update(context.Background(), admin, branchB, s.ID, dto.UpdateSettlementRequest{Status: entity.SettlementConfirmed})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.ResolvedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestListSettlements_PorSentido(t *testing.T) {
	uc := newSettlementUC(newStore())
	ctx := context.Background()
	createPending(t, uc, "10")
	time.Sleep(time.Millisecond)
	createPending(t, uc, "20")

	out, err := uc.List(ctx, cajero(branchA), "", "")
	require.NoError(t, err)
	assert.Equal(t, clearing.ModeOutgoing, out.Mode)
	require.Len(t, out.Items, 2)
	assert.True(t, d("20").Equal(out.Items[0].Amount), "más reciente primero")

	in, err := uc.List(ctx, cajero(branchB), "", "incoming")
	require.NoError(t, err)
	assert.Len(t, in.Items, 2)

	none, err := uc.List(ctx, cajero(branchB), "", clearing.ModeOutgoing)
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	_, err = uc.List(ctx, cajero(branchB), "", "both")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetSettlement_SoloPartesInvolucradas(t *testing.T) {
	store := newStore()
	store.AddBranch(entity.Branch{ID: "branch-d", Name: "Oeste", Active: true})
	uc := newSettlementUC(store)
	s := createPending(t, uc, "10")

	_, err := uc.Get(context.Background(), cajero("branch-d"), "", s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(context.Background(), cajero(branchB), "", s.ID)
	assert.NoError(t, err)
}
