package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

const maxTextLength = 200

// StockEntryUseCase ingreso directo de mercadería desde un proveedor. Una sola transacción:
// cabecera, líneas, stock (SELECT FOR UPDATE), precio opcional y auditoría.
type StockEntryUseCase struct {
	policy      *access.Policy
	txRunner    TxRunner
	entryRepo   repository.StockEntryRepository
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewStockEntryUseCase construye el caso de uso.
func NewStockEntryUseCase(
	policy *access.Policy,
	txRunner TxRunner,
	entryRepo repository.StockEntryRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *StockEntryUseCase {
	return &StockEntryUseCase{
		policy:      policy,
		txRunner:    txRunner,
		entryRepo:   entryRepo,
		branchRepo:  branchRepo,
		productRepo: productRepo,
		log:         log.Component("stock_entries"),
	}
}

// Create registra el ingreso y suma stock en la sucursal. Solo si UpdatePrice está marcado
// se reemplaza el precio base del producto por UnitCost.
func (uc *StockEntryUseCase) Create(ctx context.Context, actor access.Actor, branchID string, in dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error) {
	if b := strings.TrimSpace(in.BranchID); b != "" {
		branchID = b
	}
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleStockEntries, branchID)
	if err != nil {
		return nil, err
	}

	supplier := strings.TrimSpace(in.SupplierName)
	invoice := strings.TrimSpace(in.InvoiceRef)
	switch {
	case len(in.Items) == 0:
		return nil, domain.Invalid("items", "el ingreso debe tener al menos un producto")
	case len([]rune(supplier)) > maxTextLength:
		return nil, domain.Invalid("supplier_name", "máximo 200 caracteres")
	case len([]rune(invoice)) > maxTextLength:
		return nil, domain.Invalid("invoice_ref", "máximo 200 caracteres")
	}

	ids := make([]string, 0, len(in.Items))
	seen := make(map[string]bool, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		pid := strings.TrimSpace(it.ProductID)
		switch {
		case pid == "":
			return nil, domain.Invalid(field+".product_id", "requerido")
		case seen[pid]:
			return nil, domain.Invalid(field+".product_id", "producto repetido en el ingreso")
		case !it.Quantity.IsPositive():
			return nil, domain.Invalid(field+".quantity", "la cantidad debe ser mayor que cero")
		case it.UnitCost.IsNegative():
			return nil, domain.Invalid(field+".unit_cost", "el costo no puede ser negativo")
		case it.UpdatePrice && !it.UnitCost.IsPositive():
			return nil, domain.Invalid(field+".unit_cost", "para actualizar el precio el costo debe ser mayor que cero")
		}
		if err := domain.CheckScale(field+".quantity", it.Quantity, domain.QuantityScale); err != nil {
			return nil, err
		}
		if err := domain.CheckScale(field+".unit_cost", it.UnitCost, domain.MoneyScale); err != nil {
			return nil, err
		}
		seen[pid] = true
		ids = append(ids, pid)
	}

	branch, err := uc.branchRepo.GetByID(ctx, scope.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.NotFound("sucursal", scope.BranchID)
	}
	if !branch.Active {
		return nil, domain.Invalid("branch_id", "la sucursal está inactiva")
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if p, ok := products[id]; !ok || p == nil {
			return nil, domain.NotFound("producto", id)
		}
	}

	now := time.Now()
	entry := &entity.StockEntry{
		ID:           uuid.New().String(),
		BranchID:     scope.BranchID,
		SupplierName: supplier,
		InvoiceRef:   invoice,
		TotalAmount:  decimal.Zero,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
	}
	for _, it := range in.Items {
		entry.Items = append(entry.Items, entity.StockEntryItem{
			ID:          uuid.New().String(),
			EntryID:     entry.ID,
			ProductID:   strings.TrimSpace(it.ProductID),
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			UpdatePrice: it.UpdatePrice,
		})
		entry.TotalAmount = entry.TotalAmount.Add(it.Quantity.Mul(it.UnitCost))
	}
	entry.TotalAmount = entry.TotalAmount.Round(domain.MoneyScale)

	priceUpdates := 0
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		entryRepo repository.StockEntryRepository,
	) error {
		priceUpdates = 0
		if err := entryRepo.Create(ctx, entry); err != nil {
			return err
		}
		for _, item := range entry.Items {
			// Bloquea la fila de stock para evitar condiciones de carrera
			stock, err := stockRepo.GetForUpdate(ctx, item.ProductID, entry.BranchID)
			if err != nil {
				return err
			}
			stock.Quantity = stock.Quantity.Add(item.Quantity)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
			if item.UpdatePrice {
				if err := productRepo.UpdatePrice(ctx, item.ProductID, item.UnitCost); err != nil {
					return err
				}
				priceUpdates++
			}
			if err := movRepo.Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String(),
				TransactionID: entry.ID,
				ProductID:     item.ProductID,
				BranchID:      entry.BranchID,
				Type:          entity.MovementEntry,
				Quantity:      item.Quantity,
				UnitCost:      item.UnitCost,
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("entry_id", entry.ID).
		Str("branch_id", entry.BranchID).
		Str("total", entry.TotalAmount.String()).
		Int("items", len(entry.Items)).
		Int("price_updates", priceUpdates).
		Msg("ingreso de mercadería registrado")
	return toStockEntryResponse(entry), nil
}

// List devuelve los ingresos de la sucursal, más recientes primero.
func (uc *StockEntryUseCase) List(ctx context.Context, actor access.Actor, branchID string, page dto.PageRequest) (*dto.StockEntryListResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleStockEntries, branchID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.entryRepo.ListByBranch(ctx, scope.BranchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toStockEntryResponse(e))
	}
	return &dto.StockEntryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toStockEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	items := make([]dto.StockEntryItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, dto.StockEntryItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			UpdatePrice: it.UpdatePrice,
		})
	}
	return &dto.StockEntryResponse{
		ID:           e.ID,
		BranchID:     e.BranchID,
		SupplierName: e.SupplierName,
		InvoiceRef:   e.InvoiceRef,
		TotalAmount:  e.TotalAmount,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		Items:        items,
	}
}
