package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo lectura de ventas sobre PostgreSQL. Las ventas las escribe el punto de venta.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// ListCrossBranch trae las ventas con al menos una línea de producto ajeno en las que branchID
// es vendedora o dueña. La dueña se toma del catálogo actual (join con products).
func (r *SaleRepo) ListCrossBranch(ctx context.Context, branchID string) ([]entity.Sale, error) {
	const headers = `
		SELECT s.id, s.branch_id, s.total, s.discount, s.adjustment, s.payment_method, s.created_at
		FROM sales s
		WHERE EXISTS (
			SELECT 1 FROM sale_items si
			JOIN products p ON p.id = si.product_id
			WHERE si.sale_id = s.id
			  AND p.owner_branch_id IS NOT NULL
			  AND p.owner_branch_id <> s.branch_id
			  AND (s.branch_id = $1 OR p.owner_branch_id = $1)
		)
		ORDER BY s.created_at, s.id`
	rows, err := r.q.Query(ctx, headers, branchID)
	if err != nil {
		return nil, fmt.Errorf("list cross-branch sales: %w", err)
	}
	var (
		sales []entity.Sale
		ids   []string
	)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.BranchID, &s.Total, &s.Discount, &s.Adjustment, &s.PaymentMethod, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cross-branch sales: %w", err)
	}
	if len(sales) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(sales))
	for i := range sales {
		index[sales[i].ID] = i
	}
	if err := r.loadItems(ctx, ids, sales, index); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, ids, sales, index); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, ids []string, sales []entity.Sale, index map[string]int) error {
	rows, err := r.q.Query(ctx, `
		SELECT si.sale_id, si.product_id, p.owner_branch_id, si.quantity, si.unit_price, si.line_discount, si.subtotal
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.sale_id, si.id`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID string
			owner  *string
			it     entity.SaleItem
		)
		if err := rows.Scan(&saleID, &it.ProductID, &owner, &it.Quantity, &it.UnitPrice, &it.LineDiscount, &it.Subtotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		it.OwnerBranchID = deref(owner)
		i := index[saleID]
		sales[i].Items = append(sales[i].Items, it)
	}
	return rows.Err()
}

func (r *SaleRepo) loadPayments(ctx context.Context, ids []string, sales []entity.Sale, index map[string]int) error {
	rows, err := r.q.Query(ctx, `
		SELECT sale_id, method, amount
		FROM sale_payments
		WHERE sale_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID string
			p      entity.PaymentDetail
		)
		if err := rows.Scan(&saleID, &p.Method, &p.Amount); err != nil {
			return fmt.Errorf("scan sale payment: %w", err)
		}
		i := index[saleID]
		sales[i].Payments = append(sales[i].Payments, p)
	}
	return rows.Err()
}
