package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// ProductRepository puerto del catálogo compartido. Solo lectura más el cambio de precio
// que dispara un ingreso de mercadería.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	UpdatePrice(ctx context.Context, productID string, price decimal.Decimal) error
}
