package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo ingresos de proveedor sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create inserta cabecera e ítems. Una misma factura de proveedor no se ingresa dos veces
// en la misma sucursal.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (id, branch_id, supplier_name, invoice_ref, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.BranchID, e.SupplierName, nullable(e.InvoiceRef), e.TotalAmount, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Invalid("invoice_ref", "la factura "+e.InvoiceRef+" ya fue ingresada en la sucursal")
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	for i := range e.Items {
		it := &e.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.EntryID = e.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_entry_items (id, entry_id, product_id, quantity, unit_cost, update_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.EntryID, it.ProductID, it.Quantity, it.UnitCost, it.UpdatePrice,
		)
		if err != nil {
			return fmt.Errorf("insert stock entry item: %w", err)
		}
	}
	return nil
}

// ListByBranch ingresos de una sucursal, más recientes primero, con sus ítems.
func (r *StockEntryRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, branch_id, supplier_name, invoice_ref, total_amount, created_by, created_at
		FROM stock_entries WHERE branch_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	var (
		list []*entity.StockEntry
		ids  []string
	)
	byID := make(map[string]*entity.StockEntry)
	for rows.Next() {
		var (
			e                 entity.StockEntry
			supplier, invoice *string
		)
		if err := rows.Scan(&e.ID, &e.BranchID, &supplier, &invoice, &e.TotalAmount, &e.CreatedBy, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		e.SupplierName = deref(supplier)
		e.InvoiceRef = deref(invoice)
		list = append(list, &e)
		ids = append(ids, e.ID)
		byID[e.ID] = &e
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	itemRows, err := r.q.Query(ctx, `
		SELECT id, entry_id, product_id, quantity, unit_cost, update_price
		FROM stock_entry_items WHERE entry_id = ANY($1)
		ORDER BY entry_id, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list stock entry items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.StockEntryItem
		if err := itemRows.Scan(&it.ID, &it.EntryID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.UpdatePrice); err != nil {
			return nil, fmt.Errorf("scan stock entry item: %w", err)
		}
		e := byID[it.EntryID]
		e.Items = append(e.Items, it)
	}
	return list, itemRows.Err()
}
