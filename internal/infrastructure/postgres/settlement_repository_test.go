package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/postgres"
)

// execOnly responde a Exec con un command tag fijo; Query y QueryRow no se usan.
type execOnly struct {
	tag  string
	sql  string
	args []any
}

func (q *execOnly) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = sql
	q.args = args
	return pgconn.NewCommandTag(q.tag), nil
}

func (q *execOnly) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (q *execOnly) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func resolved() *entity.Settlement {
	now := time.Now()
	return &entity.Settlement{
		ID:         "s-1",
		Amount:     decimal.NewFromInt(10),
		Status:     entity.SettlementConfirmed,
		ResolvedBy: "user-b",
		ResolvedAt: &now,
		UpdatedAt:  now,
	}
}

func TestSettlementUpdateStatus_FilaYaResuelta(t *testing.T) {
	q := &execOnly{tag: "UPDATE 0"}
	err := postgres.NewSettlementRepository(q).UpdateStatus(context.Background(), resolved())

	require.ErrorIs(t, err, domain.ErrInvalidState)
	var se *domain.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "liquidación", se.Entity)
	assert.Contains(t, q.sql, "status = 'PENDING'")
}

func TestSettlementUpdateStatus_Pendiente(t *testing.T) {
	q := &execOnly{tag: "UPDATE 1"}
	require.NoError(t, postgres.NewSettlementRepository(q).UpdateStatus(context.Background(), resolved()))
	require.Len(t, q.args, 5)
	assert.Equal(t, "s-1", q.args[0])
	assert.Equal(t, entity.SettlementConfirmed, q.args[1])
}
