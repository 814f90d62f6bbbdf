package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo liquidaciones sobre PostgreSQL (usable con pool o tx).
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

const settlementColumns = `id, source_branch_id, target_branch_id, amount, status, note,
	created_by, resolved_by, created_at, updated_at, resolved_at`

func scanSettlement(row interface{ Scan(...any) error }) (*entity.Settlement, error) {
	var (
		s                entity.Settlement
		note, resolvedBy *string
	)
	if err := row.Scan(&s.ID, &s.SourceBranchID, &s.TargetBranchID, &s.Amount, &s.Status, &note,
		&s.CreatedBy, &resolvedBy, &s.CreatedAt, &s.UpdatedAt, &s.ResolvedAt); err != nil {
		return nil, err
	}
	s.Note = deref(note)
	s.ResolvedBy = deref(resolvedBy)
	return &s, nil
}

// Create persiste una liquidación nueva.
func (r *SettlementRepo) Create(ctx context.Context, s *entity.Settlement) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO settlements (id, source_branch_id, target_branch_id, amount, status, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.SourceBranchID, s.TargetBranchID, s.Amount, s.Status, nullable(s.Note),
		s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (r *SettlementRepo) get(ctx context.Context, query, id string) (*entity.Settlement, error) {
	s, err := scanSettlement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return s, nil
}

// GetByID obtiene una liquidación. nil si no existe.
func (r *SettlementRepo) GetByID(ctx context.Context, id string) (*entity.Settlement, error) {
	return r.get(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id)
}

// GetForUpdate obtiene la liquidación y bloquea la fila (SELECT FOR UPDATE).
func (r *SettlementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Settlement, error) {
	return r.get(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id = $1 FOR UPDATE`, id)
}

// UpdateStatus persiste la resolución. El WHERE status = 'PENDING' es un segundo candado.
func (r *SettlementRepo) UpdateStatus(ctx context.Context, s *entity.Settlement) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE settlements
		   SET status = $2, resolved_by = $3, resolved_at = $4, updated_at = $5
		 WHERE id = $1 AND status = 'PENDING'`,
		s.ID, s.Status, nullable(s.ResolvedBy), s.ResolvedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update settlement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.StateError{Entity: "liquidación", Current: "resuelta", Action: "resolver"}
	}
	return nil
}

func (r *SettlementRepo) list(ctx context.Context, where string, branchID string) ([]entity.Settlement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE `+where+` ORDER BY created_at DESC, id`,
		branchID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()
	var list []entity.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// ListBySource liquidaciones que branchID pagó.
func (r *SettlementRepo) ListBySource(ctx context.Context, branchID string) ([]entity.Settlement, error) {
	return r.list(ctx, `source_branch_id = $1`, branchID)
}

// ListByTarget liquidaciones que le pagaron a branchID.
func (r *SettlementRepo) ListByTarget(ctx context.Context, branchID string) ([]entity.Settlement, error) {
	return r.list(ctx, `target_branch_id = $1`, branchID)
}

// ListByBranch liquidaciones donde branchID es origen o destino.
func (r *SettlementRepo) ListByBranch(ctx context.Context, branchID string) ([]entity.Settlement, error) {
	return r.list(ctx, `source_branch_id = $1 OR target_branch_id = $1`, branchID)
}
