package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// StockRepository puerto para consultar/actualizar stock por sucursal+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, productID, branchID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve cantidad cero si no existe.
	GetForUpdate(ctx context.Context, productID, branchID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
}
