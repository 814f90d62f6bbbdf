package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el stock actual de un producto en una sucursal (tabla materializada).
type Stock struct {
	ProductID string
	BranchID  string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
