package clearing

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// TxRunner ejecuta funciones dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	// RunSettlement transacción de escritura para crear o resolver liquidaciones.
	RunSettlement(ctx context.Context, fn func(settlementRepo repository.SettlementRepository) error) error
	// RunReadOnly lee ventas y liquidaciones en una misma transacción de solo lectura
	// para que el balance vea una foto consistente.
	RunReadOnly(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		settlementRepo repository.SettlementRepository,
	) error) error
}

// BalanceExporter genera la planilla del balance (XLSX).
type BalanceExporter interface {
	ExportBalances(branch *entity.Branch, balances []clearing.Balance, totals clearing.Balance) ([]byte, error)
}
