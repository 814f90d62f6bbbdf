package clearing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// BalanceUseCase arma el balance de clearing de una sucursal a partir de ventas y liquidaciones.
// Solo lectura; puede ejecutarse en paralelo con cualquier otra operación.
type BalanceUseCase struct {
	policy     *access.Policy
	txRunner   TxRunner
	branchRepo repository.BranchRepository
	exporter   BalanceExporter
}

// NewBalanceUseCase construye el caso de uso. exporter puede ser nil (sin exportación).
func NewBalanceUseCase(
	policy *access.Policy,
	txRunner TxRunner,
	branchRepo repository.BranchRepository,
	exporter BalanceExporter,
) *BalanceUseCase {
	return &BalanceUseCase{
		policy:     policy,
		txRunner:   txRunner,
		branchRepo: branchRepo,
		exporter:   exporter,
	}
}

// GetBalance devuelve un BalanceDTO por contraparte más la fila de totales.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, actor access.Actor, branchID string) (*dto.BalanceResponse, error) {
	home, balances, err := uc.compute(ctx, actor, branchID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BalanceDTO, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceDTO(b))
	}
	return &dto.BalanceResponse{
		BranchID:   home.ID,
		BranchName: home.Name,
		Balances:   items,
		Totals:     toBalanceDTO(clearing.Totals(balances)),
	}, nil
}

// ExportBalance devuelve el balance como XLSX y un nombre de archivo sugerido.
func (uc *BalanceUseCase) ExportBalance(ctx context.Context, actor access.Actor, branchID string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("exportación de balance no configurada")
	}
	home, balances, err := uc.compute(ctx, actor, branchID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportBalances(home, balances, clearing.Totals(balances))
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("clearing_%s_%s.xlsx", home.ID, time.Now().Format("20060102"))
	return data, name, nil
}

func (uc *BalanceUseCase) compute(ctx context.Context, actor access.Actor, branchID string) (*entity.Branch, []clearing.Balance, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleClearing, branchID)
	if err != nil {
		return nil, nil, err
	}
	home, err := uc.branchRepo.GetByID(ctx, scope.BranchID)
	if err != nil {
		return nil, nil, err
	}
	if home == nil {
		return nil, nil, domain.NotFound("sucursal", scope.BranchID)
	}
	list, err := uc.branchRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	directory := make(map[string]entity.Branch, len(list))
	for _, b := range list {
		directory[b.ID] = *b
	}

	var (
		sales       []entity.Sale
		settlements []entity.Settlement
	)
	err = uc.txRunner.RunReadOnly(ctx, func(saleRepo repository.SaleRepository, settlementRepo repository.SettlementRepository) error {
		var err error
		if sales, err = saleRepo.ListCrossBranch(ctx, home.ID); err != nil {
			return err
		}
		settlements, err = settlementRepo.ListByBranch(ctx, home.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	balances := clearing.ComputeBalances(clearing.Input{
		HomeBranchID: home.ID,
		Sales:        sales,
		Settlements:  settlements,
		Branches:     directory,
	})
	return home, balances, nil
}

func toBalanceDTO(b clearing.Balance) dto.BalanceDTO {
	return dto.BalanceDTO{
		CounterpartyBranchID: b.CounterpartyBranchID,
		CounterpartyName:     b.CounterpartyName,
		RawDebt:              b.RawDebt,
		DebtBreakdown:        b.DebtBreakdown,
		PaidConfirmed:        b.PaidConfirmed,
		PaidPending:          b.PaidPending,
		RemainingDebt:        b.RemainingDebt,
		RawReceivable:        b.RawReceivable,
		ReceivableBreakdown:  b.ReceivableBreakdown,
		ReceivedConfirmed:    b.ReceivedConfirmed,
		ReceivedPending:      b.ReceivedPending,
		RemainingReceivable:  b.RemainingReceivable,
		NetBalance:           b.NetBalance,
	}
}
