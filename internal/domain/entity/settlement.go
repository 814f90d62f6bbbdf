package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una liquidación entre sucursales.
const (
	SettlementPending   = "PENDING"
	SettlementConfirmed = "CONFIRMED"
	SettlementRejected  = "REJECTED"
)

// Settlement registra que la sucursal origen (deudora) dice haber pagado a la destino (acreedora).
// Solo la acreedora la confirma o rechaza; CONFIRMED y REJECTED son terminales.
type Settlement struct {
	ID             string
	SourceBranchID string
	TargetBranchID string
	Amount         decimal.Decimal
	Status         string
	Note           string
	CreatedBy      string
	ResolvedBy     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
}

// IsTerminal informa si la liquidación ya no admite transiciones.
func (s *Settlement) IsTerminal() bool {
	return s.Status == SettlementConfirmed || s.Status == SettlementRejected
}
