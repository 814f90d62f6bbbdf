package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de clearing, traslados e ingresos.
var (
	_ clearing.TxRunner  = (*TxRunner)(nil)
	_ transfer.TxRunner  = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSettlement transacción de escritura sobre liquidaciones.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(settlementRepo repository.SettlementRepository) error) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewSettlementRepository(tx))
	})
}

// RunReadOnly lee ventas y liquidaciones en una misma foto (REPEATABLE READ, solo lectura).
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	settlementRepo repository.SettlementRepository,
) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return r.inTx(ctx, opts, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewSettlementRepository(tx))
	})
}

// RunTransfer transacción de una transición del vale de traslado.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.StockTransferRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewStockTransferRepository(tx), NewStockRepository(tx), NewInventoryMovementRepository(tx))
	})
}

// Run transacción de un ingreso de mercadería.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	entryRepo repository.StockEntryRepository,
) error) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(
			NewInventoryMovementRepository(tx),
			NewStockRepository(tx),
			NewProductRepository(tx),
			NewStockEntryRepository(tx),
		)
	})
}
