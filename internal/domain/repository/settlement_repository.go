package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// SettlementRepository puerto de persistencia de liquidaciones.
type SettlementRepository interface {
	Create(ctx context.Context, s *entity.Settlement) error
	GetByID(ctx context.Context, id string) (*entity.Settlement, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Settlement, error)
	UpdateStatus(ctx context.Context, s *entity.Settlement) error
	ListBySource(ctx context.Context, branchID string) ([]entity.Settlement, error)
	ListByTarget(ctx context.Context, branchID string) ([]entity.Settlement, error)
	// ListByBranch devuelve las liquidaciones donde branchID es origen o destino.
	ListByBranch(ctx context.Context, branchID string) ([]entity.Settlement, error)
}
