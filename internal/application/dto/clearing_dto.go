package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceDTO posición de la sucursal frente a una contraparte.
type BalanceDTO struct {
	CounterpartyBranchID string                     `json:"counterparty_branch_id,omitempty"`
	CounterpartyName     string                     `json:"counterparty_name,omitempty"`
	RawDebt              decimal.Decimal            `json:"raw_debt"`
	DebtBreakdown        map[string]decimal.Decimal `json:"debt_breakdown_by_method"`
	PaidConfirmed        decimal.Decimal            `json:"paid_confirmed"`
	PaidPending          decimal.Decimal            `json:"paid_pending"`
	RemainingDebt        decimal.Decimal            `json:"remaining_debt"`
	RawReceivable        decimal.Decimal            `json:"raw_receivable"`
	ReceivableBreakdown  map[string]decimal.Decimal `json:"receivable_breakdown_by_method"`
	ReceivedConfirmed    decimal.Decimal            `json:"received_confirmed"`
	ReceivedPending      decimal.Decimal            `json:"received_pending"`
	RemainingReceivable  decimal.Decimal            `json:"remaining_receivable"`
	NetBalance           decimal.Decimal            `json:"net_balance"`
}

// BalanceResponse respuesta de GET /api/clearing/balance.
type BalanceResponse struct {
	BranchID   string       `json:"branch_id"`
	BranchName string       `json:"branch_name"`
	Balances   []BalanceDTO `json:"balances"`
	Totals     BalanceDTO   `json:"totals"`
}

// CreateSettlementRequest body para POST /api/clearing/settlements.
type CreateSettlementRequest struct {
	TargetBranchID string          `json:"target_branch_id"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note,omitempty"`
}

// UpdateSettlementRequest body para PATCH /api/clearing/settlements/:id.
type UpdateSettlementRequest struct {
	Status string `json:"status"`
}

// SettlementResponse liquidación expuesta por la API.
type SettlementResponse struct {
	ID             string          `json:"id"`
	SourceBranchID string          `json:"source_branch_id"`
	TargetBranchID string          `json:"target_branch_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	Note           string          `json:"note,omitempty"`
	CreatedBy      string          `json:"created_by"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
}

// SettlementListResponse listado de liquidaciones en un sentido.
type SettlementListResponse struct {
	Mode  string               `json:"mode"`
	Items []SettlementResponse `json:"items"`
}
