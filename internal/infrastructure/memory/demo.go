package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// Identificadores fijos del juego de datos de demostración; los tokens de prueba
// usan estos branch_id.
const (
	DemoBranchCentro = "suc-centro"
	DemoBranchNorte  = "suc-norte"
)

// SeedDemo carga dos sucursales, un catálogo pequeño con stock y una venta cruzada, de modo
// que con DB_DRIVER=memory el balance, los traslados y los ingresos respondan desde el arranque.
func SeedDemo(s *Store) {
	now := time.Now()
	s.AddBranch(entity.Branch{ID: DemoBranchCentro, Name: "Centro", Active: true, CreatedAt: now, UpdatedAt: now})
	s.AddBranch(entity.Branch{ID: DemoBranchNorte, Name: "Norte", Active: true, CreatedAt: now, UpdatedAt: now})

	catalog := []entity.Product{
		{ID: "prod-arroz", OwnerBranchID: DemoBranchCentro, SKU: "ARZ-1K", Name: "Arroz 1 kg", Price: decimal.RequireFromString("4.50")},
		{ID: "prod-aceite", OwnerBranchID: DemoBranchNorte, SKU: "ACE-900", Name: "Aceite 900 ml", Price: decimal.RequireFromString("9.90")},
		{ID: "prod-bolsa", SKU: "BOL-01", Name: "Bolsa reutilizable", Price: decimal.RequireFromString("1.00")},
	}
	for _, p := range catalog {
		p.Active = true
		p.CreatedAt = now
		p.UpdatedAt = now
		s.AddProduct(p)
		s.SetStock(p.ID, DemoBranchCentro, decimal.NewFromInt(40))
		s.SetStock(p.ID, DemoBranchNorte, decimal.NewFromInt(25))
	}

	// Centro vende aceite de Norte: Centro queda debiendo 19.80.
	s.AddSale(entity.Sale{
		ID:            "venta-demo-1",
		BranchID:      DemoBranchCentro,
		Total:         decimal.RequireFromString("20.80"),
		PaymentMethod: entity.PaymentCash,
		Items: []entity.SaleItem{
			{ProductID: "prod-aceite", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("9.90"), Subtotal: decimal.RequireFromString("19.80")},
			{ProductID: "prod-bolsa", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("1.00"), Subtotal: decimal.RequireFromString("1.00")},
		},
		CreatedAt: now,
	})
}
