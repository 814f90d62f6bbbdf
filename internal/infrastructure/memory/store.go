// Package memory implementa los repositorios y los TxRunner en memoria.
// Se usa en tests y con DB_DRIVER=memory para demos locales.
//
// Las transacciones se serializan con un mutex y trabajan sobre una copia del estado;
// al confirmar, la copia reemplaza al estado. Un error en el callback descarta la copia.
package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

type stockKey struct {
	ProductID string
	BranchID  string
}

type state struct {
	branches    map[string]entity.Branch
	products    map[string]entity.Product
	sales       []entity.Sale
	settlements map[string]entity.Settlement
	stocks      map[stockKey]entity.Stock
	movements   []entity.InventoryMovement
	transfers   map[string]entity.StockTransfer
	transferSeq int64
	entries     []entity.StockEntry
	modules     map[string]bool
}

func newState() *state {
	return &state{
		branches:    make(map[string]entity.Branch),
		products:    make(map[string]entity.Product),
		settlements: make(map[string]entity.Settlement),
		stocks:      make(map[stockKey]entity.Stock),
		transfers:   make(map[string]entity.StockTransfer),
		modules:     make(map[string]bool),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.sales = append([]entity.Sale(nil), s.sales...)
	for k, v := range s.settlements {
		c.settlements[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	for k, v := range s.transfers {
		c.transfers[k] = copyTransfer(v)
	}
	c.transferSeq = s.transferSeq
	c.entries = append([]entity.StockEntry(nil), s.entries...)
	for k, v := range s.modules {
		c.modules[k] = v
	}
	return c
}

func copyTransfer(t entity.StockTransfer) entity.StockTransfer {
	t.Items = append([]entity.StockTransferItem(nil), t.Items...)
	return t
}

// view acceso al estado: el store con su RWMutex o una transacción en curso.
type view interface {
	read(fn func(*state))
	write(fn func(*state))
}

// Store estado compartido en memoria.
type Store struct {
	txMu sync.Mutex // una transacción a la vez
	mu   sync.RWMutex
	st   *state
}

// NewStore construye un store vacío. Todos los módulos quedan habilitados.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(*state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

// txView estado privado de una transacción; solo lo usa la goroutine que la ejecuta.
type txView struct {
	st *state
}

func (v *txView) read(fn func(*state))  { fn(v.st) }
func (v *txView) write(fn func(*state)) { fn(v.st) }

// ─── Carga de datos (seed) ───────────────────────────────────────────────────

// AddBranch registra una sucursal.
func (s *Store) AddBranch(b entity.Branch) {
	s.write(func(st *state) { st.branches[b.ID] = b })
}

// AddProduct registra un producto del catálogo.
func (s *Store) AddProduct(p entity.Product) {
	s.write(func(st *state) { st.products[p.ID] = p })
}

// AddSale registra una venta tal como la crearía el punto de venta.
func (s *Store) AddSale(sale entity.Sale) {
	s.write(func(st *state) { st.sales = append(st.sales, sale) })
}

// SetStock fija el stock de un producto en una sucursal.
func (s *Store) SetStock(productID, branchID string, qty decimal.Decimal) {
	s.write(func(st *state) {
		st.stocks[stockKey{productID, branchID}] = entity.Stock{
			ProductID: productID, BranchID: branchID, Quantity: qty, UpdatedAt: time.Now(),
		}
	})
}

// SetModule habilita o deshabilita un módulo.
func (s *Store) SetModule(module string, enabled bool) {
	s.write(func(st *state) { st.modules[module] = enabled })
}

// StockOf devuelve el stock actual (cero si no hay fila).
func (s *Store) StockOf(productID, branchID string) decimal.Decimal {
	var q decimal.Decimal
	s.read(func(st *state) { q = st.stocks[stockKey{productID, branchID}].Quantity })
	return q
}

// Movements devuelve una copia de la auditoría de stock.
func (s *Store) Movements() []entity.InventoryMovement {
	var out []entity.InventoryMovement
	s.read(func(st *state) { out = append(out, st.movements...) })
	return out
}

// ─── Repositorios sobre el store ─────────────────────────────────────────────

// Branches repositorio de sucursales.
func (s *Store) Branches() *BranchRepo { return &BranchRepo{v: s} }

// Products repositorio del catálogo.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: s} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{v: s} }

// Settlements repositorio de liquidaciones.
func (s *Store) Settlements() *SettlementRepo { return &SettlementRepo{v: s} }

// Stocks repositorio de stock.
func (s *Store) Stocks() *StockRepo { return &StockRepo{v: s} }

// InventoryMovements repositorio de auditoría.
func (s *Store) InventoryMovements() *InventoryMovementRepo { return &InventoryMovementRepo{v: s} }

// Transfers repositorio de vales de traslado.
func (s *Store) Transfers() *StockTransferRepo { return &StockTransferRepo{v: s} }

// StockEntries repositorio de ingresos.
func (s *Store) StockEntries() *StockEntryRepo { return &StockEntryRepo{v: s} }

// Modules repositorio de módulos.
func (s *Store) Modules() *ModuleRepo { return &ModuleRepo{v: s} }
