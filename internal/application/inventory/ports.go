package inventory

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el ingreso, el stock, el precio y la auditoría se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		entryRepo repository.StockEntryRepository,
	) error) error
}
