package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// SaleRepository puerto de lectura de ventas (las crea el punto de venta externo).
type SaleRepository interface {
	// ListCrossBranch devuelve las ventas de branchID con líneas de productos de otra sucursal
	// y las ventas de otras sucursales con líneas de productos de branchID. Las líneas traen
	// OwnerBranchID resuelto.
	ListCrossBranch(ctx context.Context, branchID string) ([]entity.Sale, error)
}
