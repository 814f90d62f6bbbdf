package transfer

import (
	"context"
	"io"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// TxRunner ejecuta las transiciones del vale en una transacción: cabecera bloqueada,
// stock de origen/destino y movimientos de auditoría se confirman o revierten juntos.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.StockTransferRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// VoucherData datos ya resueltos para imprimir el vale.
type VoucherData struct {
	Transfer     *entity.StockTransfer
	SourceBranch *entity.Branch
	TargetBranch *entity.Branch
	Products     map[string]*entity.Product
}

// VoucherPDFGenerator genera el PDF imprimible del vale de traslado.
type VoucherPDFGenerator interface {
	GenerateTransferVoucher(data VoucherData) ([]byte, error)
}

// PhotoStore guarda la evidencia fotográfica de una recepción y devuelve su URL pública.
// RemovePhoto descarta un objeto que no llegó a asociarse al vale.
type PhotoStore interface {
	PutPhoto(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	RemovePhoto(ctx context.Context, key string) error
}
