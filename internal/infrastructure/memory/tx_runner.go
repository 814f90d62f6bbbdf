package memory

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var (
	_ clearing.TxRunner  = (*TxRunner)(nil)
	_ transfer.TxRunner  = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks sobre una copia del estado y la confirma si no hay error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(ctx context.Context, commit bool, fn func(v *txView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	var tx *txView
	r.store.read(func(st *state) { tx = &txView{st: st.clone()} })
	if err := fn(tx); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	r.store.write(func(st *state) { *st = *tx.st })
	return nil
}

// RunSettlement transacción de escritura sobre liquidaciones.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(settlementRepo repository.SettlementRepository) error) error {
	return r.run(ctx, true, func(v *txView) error {
		return fn(&SettlementRepo{v: v})
	})
}

// RunReadOnly lectura consistente de ventas y liquidaciones; nunca confirma cambios.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	settlementRepo repository.SettlementRepository,
) error) error {
	return r.run(ctx, false, func(v *txView) error {
		return fn(&SaleRepo{v: v}, &SettlementRepo{v: v})
	})
}

// RunTransfer transacción de una transición del vale de traslado.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.StockTransferRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return r.run(ctx, true, func(v *txView) error {
		return fn(&StockTransferRepo{v: v}, &StockRepo{v: v}, &InventoryMovementRepo{v: v})
	})
}

// Run transacción de un ingreso de mercadería.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	entryRepo repository.StockEntryRepository,
) error) error {
	return r.run(ctx, true, func(v *txView) error {
		return fn(&InventoryMovementRepo{v: v}, &StockRepo{v: v}, &ProductRepo{v: v}, &StockEntryRepo{v: v})
	})
}
