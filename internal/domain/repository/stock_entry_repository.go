package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// StockEntryRepository puerto de persistencia de ingresos de proveedor.
type StockEntryRepository interface {
	Create(ctx context.Context, e *entity.StockEntry) error
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.StockEntry, error)
}
