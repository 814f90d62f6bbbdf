package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo vales de traslado sobre PostgreSQL (usable con pool o tx).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `id, number, source_branch_id, target_branch_id, status, note, cancel_reason,
	created_by, shipped_by, received_by, cancelled_by,
	created_at, updated_at, shipped_at, received_at, cancelled_at`

func scanTransfer(row interface{ Scan(...any) error }) (*entity.StockTransfer, error) {
	var (
		t                                       entity.StockTransfer
		note, reason, shipped, received, cancel *string
	)
	if err := row.Scan(&t.ID, &t.Number, &t.SourceBranchID, &t.TargetBranchID, &t.Status, &note, &reason,
		&t.CreatedBy, &shipped, &received, &cancel,
		&t.CreatedAt, &t.UpdatedAt, &t.ShippedAt, &t.ReceivedAt, &t.CancelledAt); err != nil {
		return nil, err
	}
	t.Note = deref(note)
	t.CancelReason = deref(reason)
	t.ShippedBy = deref(shipped)
	t.ReceivedBy = deref(received)
	t.CancelledBy = deref(cancel)
	return &t, nil
}

// Create inserta cabecera e ítems. El número sale de la secuencia stock_transfer_number_seq.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_transfers (id, source_branch_id, target_branch_id, status, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING number`,
		t.ID, t.SourceBranchID, t.TargetBranchID, t.Status, nullable(t.Note), t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.Number)
	if err != nil {
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	for i := range t.Items {
		it := &t.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.TransferID = t.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_transfer_items (id, transfer_id, product_id, quantity_requested, quantity_sent)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.TransferID, it.ProductID, it.QuantityRequested, it.QuantitySent,
		)
		if err != nil {
			return fmt.Errorf("insert stock transfer item: %w", err)
		}
	}
	return nil
}

func (r *StockTransferRepo) get(ctx context.Context, query, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.StockTransfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID obtiene el vale con sus ítems. nil si no existe.
func (r *StockTransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE); los ítems solo se tocan con ella tomada.
func (r *StockTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado, actores y fechas de la cabecera y las cantidades de cada ítem.
func (r *StockTransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_transfers
		   SET status = $2, cancel_reason = $3, shipped_by = $4, received_by = $5, cancelled_by = $6,
		       updated_at = $7, shipped_at = $8, received_at = $9, cancelled_at = $10
		 WHERE id = $1`,
		t.ID, t.Status, nullable(t.CancelReason), nullable(t.ShippedBy), nullable(t.ReceivedBy), nullable(t.CancelledBy),
		t.UpdatedAt, t.ShippedAt, t.ReceivedAt, t.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer: %w", err)
	}
	for _, it := range t.Items {
		_, err := r.q.Exec(ctx, `
			UPDATE stock_transfer_items
			   SET quantity_sent = $2, quantity_received = $3, shipment_justification = $4,
			       reception_justification = $5, reception_photo_url = $6
			 WHERE id = $1`,
			it.ID, it.QuantitySent, it.QuantityReceived, nullable(it.ShipmentJustification),
			nullable(it.ReceptionJustification), nullable(it.ReceptionPhotoURL),
		)
		if err != nil {
			return fmt.Errorf("update stock transfer item: %w", err)
		}
	}
	return nil
}

// List lista vales de una sucursal según dirección, estado y rango de fechas de creación.
func (r *StockTransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE `
	args := []any{f.BranchID}
	switch f.Direction {
	case repository.DirectionOutgoing:
		query += `source_branch_id = $1`
	case repository.DirectionIncoming:
		query += `target_branch_id = $1`
	default:
		query += `(source_branch_id = $1 OR target_branch_id = $1)`
	}
	pos := 2
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *StockTransferRepo) loadItems(ctx context.Context, transfers []*entity.StockTransfer) error {
	if len(transfers) == 0 {
		return nil
	}
	ids := make([]string, 0, len(transfers))
	byID := make(map[string]*entity.StockTransfer, len(transfers))
	for _, t := range transfers {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, quantity_requested, quantity_sent, quantity_received,
		       shipment_justification, reception_justification, reception_photo_url
		FROM stock_transfer_items
		WHERE transfer_id = ANY($1)
		ORDER BY transfer_id, product_id`, ids)
	if err != nil {
		return fmt.Errorf("list stock transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it                         entity.StockTransferItem
			shipment, reception, photo *string
		)
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.QuantityRequested, &it.QuantitySent,
			&it.QuantityReceived, &shipment, &reception, &photo); err != nil {
			return fmt.Errorf("scan stock transfer item: %w", err)
		}
		it.ShipmentJustification = deref(shipment)
		it.ReceptionJustification = deref(reception)
		it.ReceptionPhotoURL = deref(photo)
		t := byID[it.TransferID]
		t.Items = append(t.Items, it)
	}
	return rows.Err()
}
