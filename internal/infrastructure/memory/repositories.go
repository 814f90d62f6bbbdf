package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var (
	_ repository.BranchRepository            = (*BranchRepo)(nil)
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.SaleRepository              = (*SaleRepo)(nil)
	_ repository.SettlementRepository        = (*SettlementRepo)(nil)
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)
	_ repository.StockTransferRepository     = (*StockTransferRepo)(nil)
	_ repository.StockEntryRepository        = (*StockEntryRepo)(nil)
	_ repository.ModuleRepository            = (*ModuleRepo)(nil)
)

// ─── Branch ──────────────────────────────────────────────────────────────────

// BranchRepo sucursales en memoria.
type BranchRepo struct{ v view }

func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	r.v.read(func(st *state) {
		if b, ok := st.branches[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *BranchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	var out []*entity.Branch
	r.v.read(func(st *state) {
		for _, b := range st.branches {
			b := b
			out = append(out, &b)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ─── Product ─────────────────────────────────────────────────────────────────

// ProductRepo catálogo en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	r.v.read(func(st *state) {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = &p
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) UpdatePrice(_ context.Context, productID string, price decimal.Decimal) error {
	r.v.write(func(st *state) {
		if p, ok := st.products[productID]; ok {
			p.Price = price
			p.UpdatedAt = time.Now()
			st.products[productID] = p
		}
	})
	return nil
}

// ─── Sale ────────────────────────────────────────────────────────────────────

// SaleRepo ventas en memoria. La sucursal dueña de cada línea se resuelve al leer.
type SaleRepo struct{ v view }

func (r *SaleRepo) ListCrossBranch(_ context.Context, branchID string) ([]entity.Sale, error) {
	var out []entity.Sale
	r.v.read(func(st *state) {
		for _, sale := range st.sales {
			items := make([]entity.SaleItem, len(sale.Items))
			cross := false
			for i, it := range sale.Items {
				it.OwnerBranchID = st.products[it.ProductID].OwnerBranchID
				items[i] = it
				if it.OwnerBranchID == "" || it.OwnerBranchID == sale.BranchID {
					continue
				}
				if sale.BranchID == branchID || it.OwnerBranchID == branchID {
					cross = true
				}
			}
			if !cross {
				continue
			}
			sale.Items = items
			out = append(out, sale)
		}
	})
	return out, nil
}

// ─── Settlement ──────────────────────────────────────────────────────────────

// SettlementRepo liquidaciones en memoria.
type SettlementRepo struct{ v view }

func (r *SettlementRepo) Create(_ context.Context, s *entity.Settlement) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.v.write(func(st *state) { st.settlements[s.ID] = *s })
	return nil
}

func (r *SettlementRepo) GetByID(_ context.Context, id string) (*entity.Settlement, error) {
	var out *entity.Settlement
	r.v.read(func(st *state) {
		if s, ok := st.settlements[id]; ok {
			out = &s
		}
	})
	return out, nil
}

// GetForUpdate dentro de una transacción el mutex del runner ya da exclusión.
func (r *SettlementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Settlement, error) {
	return r.GetByID(ctx, id)
}

func (r *SettlementRepo) UpdateStatus(_ context.Context, s *entity.Settlement) error {
	var err error
	r.v.write(func(st *state) {
		cur, ok := st.settlements[s.ID]
		if !ok || cur.Status != entity.SettlementPending {
			err = &domain.StateError{Entity: "liquidación", Current: "resuelta", Action: "resolver"}
			return
		}
		cur.Status = s.Status
		cur.ResolvedBy = s.ResolvedBy
		cur.ResolvedAt = s.ResolvedAt
		cur.UpdatedAt = s.UpdatedAt
		st.settlements[s.ID] = cur
	})
	return err
}

func (r *SettlementRepo) list(match func(entity.Settlement) bool) []entity.Settlement {
	var out []entity.Settlement
	r.v.read(func(st *state) {
		for _, s := range st.settlements {
			if match(s) {
				out = append(out, s)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *SettlementRepo) ListBySource(_ context.Context, branchID string) ([]entity.Settlement, error) {
	return r.list(func(s entity.Settlement) bool { return s.SourceBranchID == branchID }), nil
}

func (r *SettlementRepo) ListByTarget(_ context.Context, branchID string) ([]entity.Settlement, error) {
	return r.list(func(s entity.Settlement) bool { return s.TargetBranchID == branchID }), nil
}

func (r *SettlementRepo) ListByBranch(_ context.Context, branchID string) ([]entity.Settlement, error) {
	return r.list(func(s entity.Settlement) bool {
		return s.SourceBranchID == branchID || s.TargetBranchID == branchID
	}), nil
}

// ─── Stock ───────────────────────────────────────────────────────────────────

// StockRepo stock por sucursal en memoria.
type StockRepo struct{ v view }

func (r *StockRepo) Get(_ context.Context, productID, branchID string) (*entity.Stock, error) {
	out := &entity.Stock{ProductID: productID, BranchID: branchID, Quantity: decimal.Zero}
	r.v.read(func(st *state) {
		if s, ok := st.stocks[stockKey{productID, branchID}]; ok {
			*out = s
		}
	})
	return out, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, branchID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	s := *stock
	s.UpdatedAt = time.Now()
	r.v.write(func(st *state) { st.stocks[stockKey{s.ProductID, s.BranchID}] = s })
	return nil
}

// ─── InventoryMovement ───────────────────────────────────────────────────────

// InventoryMovementRepo auditoría de stock en memoria.
type InventoryMovementRepo struct{ v view }

func (r *InventoryMovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.v.write(func(st *state) { st.movements = append(st.movements, *m) })
	return nil
}

func (r *InventoryMovementRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	r.v.read(func(st *state) {
		for _, m := range st.movements {
			if m.TransactionID == transactionID {
				m := m
				out = append(out, &m)
			}
		}
	})
	return out, nil
}

// ─── StockTransfer ───────────────────────────────────────────────────────────

// StockTransferRepo vales de traslado en memoria.
type StockTransferRepo struct{ v view }

func (r *StockTransferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	for i := range t.Items {
		if t.Items[i].ID == "" {
			t.Items[i].ID = uuid.New().String()
		}
		t.Items[i].TransferID = t.ID
	}
	r.v.write(func(st *state) {
		st.transferSeq++
		t.Number = st.transferSeq
		st.transfers[t.ID] = copyTransfer(*t)
	})
	return nil
}

func (r *StockTransferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	r.v.read(func(st *state) {
		if t, ok := st.transfers[id]; ok {
			c := copyTransfer(t)
			out = &c
		}
	})
	return out, nil
}

func (r *StockTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *StockTransferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	r.v.write(func(st *state) {
		if _, ok := st.transfers[t.ID]; ok {
			st.transfers[t.ID] = copyTransfer(*t)
		}
	})
	return nil
}

func (r *StockTransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	r.v.read(func(st *state) {
		for _, t := range st.transfers {
			if !matchTransfer(t, f) {
				continue
			}
			c := copyTransfer(t)
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return page(out, f.Limit, f.Offset), nil
}

func matchTransfer(t entity.StockTransfer, f repository.TransferFilter) bool {
	switch f.Direction {
	case repository.DirectionOutgoing:
		if t.SourceBranchID != f.BranchID {
			return false
		}
	case repository.DirectionIncoming:
		if t.TargetBranchID != f.BranchID {
			return false
		}
	default:
		if t.SourceBranchID != f.BranchID && t.TargetBranchID != f.BranchID {
			return false
		}
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.From != nil && t.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && t.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// ─── StockEntry ──────────────────────────────────────────────────────────────

// StockEntryRepo ingresos de proveedor en memoria.
type StockEntryRepo struct{ v view }

func (r *StockEntryRepo) Create(_ context.Context, e *entity.StockEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	for i := range e.Items {
		if e.Items[i].ID == "" {
			e.Items[i].ID = uuid.New().String()
		}
		e.Items[i].EntryID = e.ID
	}
	c := *e
	c.Items = append([]entity.StockEntryItem(nil), e.Items...)
	var dup bool
	r.v.write(func(st *state) {
		if c.InvoiceRef != "" {
			for _, prev := range st.entries {
				if prev.BranchID == c.BranchID && prev.SupplierName == c.SupplierName && prev.InvoiceRef == c.InvoiceRef {
					dup = true
					return
				}
			}
		}
		st.entries = append(st.entries, c)
	})
	if dup {
		return domain.Invalid("invoice_ref", "la factura "+c.InvoiceRef+" ya fue ingresada en la sucursal")
	}
	return nil
}

func (r *StockEntryRepo) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	r.v.read(func(st *state) {
		for _, e := range st.entries {
			if e.BranchID == branchID {
				e := e
				out = append(out, &e)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// ─── Module ──────────────────────────────────────────────────────────────────

// ModuleRepo estado de módulos en memoria. Un módulo sin registro está habilitado.
type ModuleRepo struct{ v view }

func (r *ModuleRepo) IsModuleEnabled(_ context.Context, module string) (bool, error) {
	enabled := true
	r.v.read(func(st *state) {
		if v, ok := st.modules[module]; ok {
			enabled = v
		}
	})
	return enabled, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
