package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// Direcciones para listar traslados respecto de una sucursal.
const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
	DirectionAll      = "all"
)

// TransferFilter filtros del listado de traslados.
type TransferFilter struct {
	BranchID  string
	Direction string
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockTransferRepository puerto de persistencia de vales de traslado.
type StockTransferRepository interface {
	// Create asigna ID y Number secuencial y persiste cabecera e ítems.
	Create(ctx context.Context, t *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	// GetForUpdate bloquea la cabecera del vale hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error)
	// Update persiste estado, actores, fechas y las cantidades/justificaciones de los ítems.
	Update(ctx context.Context, t *entity.StockTransfer) error
	List(ctx context.Context, f TransferFilter) ([]*entity.StockTransfer, error)
}
