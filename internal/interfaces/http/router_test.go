package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/export"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/sucursales-api/internal/interfaces/http"
	"github.com/jhoicas/sucursales-api/pkg/logger"
	pkgjwt "github.com/jhoicas/sucursales-api/pkg/jwt"
)

const (
	centro = "branch-centro"
	norte  = "branch-norte"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newAPI arma la API completa sobre el almacén en memoria.
func newAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddBranch(entity.Branch{ID: centro, Name: "Centro", Active: true})
	store.AddBranch(entity.Branch{ID: norte, Name: "Norte", Active: true})
	store.AddProduct(entity.Product{ID: "p-norte", OwnerBranchID: norte, Name: "Café", Price: dec("100"), Active: true})
	store.SetStock("p-norte", centro, dec("2"))
	store.AddSale(entity.Sale{
		ID:            "sale-1",
		BranchID:      centro,
		Total:         dec("100"),
		PaymentMethod: entity.PaymentCash,
		Items:         []entity.SaleItem{{ProductID: "p-norte", Quantity: dec("1"), UnitPrice: dec("100"), Subtotal: dec("100")}},
		CreatedAt:     time.Now(),
	})

	log := logger.Nop()
	policy := access.NewPolicy(store.Modules())
	txRunner := memory.NewTxRunner(store)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		BalanceUC:    clearing.NewBalanceUseCase(policy, txRunner, store.Branches(), export.NewExcelBalanceExporter()),
		SettlementUC: clearing.NewSettlementUseCase(policy, txRunner, store.Settlements(), store.Branches(), log),
		TransferUC: transfer.NewUseCase(policy, txRunner, store.Transfers(), store.Branches(), store.Products(),
			nil, nil, transfer.Options{}, log),
		StockEntryUC: inventory.NewStockEntryUseCase(policy, txRunner, store.StockEntries(), store.Branches(), store.Products(), log),
		Modules:      store.Modules(),
		JWTSecret:    testJWTSecret,
		Log:          log,
	})
	return app, store
}

func bearer(t *testing.T, branchID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "user-"+role, branchID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorCode(t *testing.T, data []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestSettlementFlow_HTTP(t *testing.T) {
	app, _ := newAPI(t)
	deudora := bearer(t, centro, access.RoleCajero)
	acreedora := bearer(t, norte, access.RoleCajero)

	resp, data := call(t, app, http.MethodPost, "/api/clearing/settlements", deudora,
		map[string]string{"target_branch_id": norte, "amount": "60"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var s dto.SettlementResponse
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, entity.SettlementPending, s.Status)

	resp, data = call(t, app, http.MethodPatch, "/api/clearing/settlements/"+s.ID, deudora,
		map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, data).Code)

	resp, data = call(t, app, http.MethodPatch, "/api/clearing/settlements/"+s.ID, acreedora,
		map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = call(t, app, http.MethodPatch, "/api/clearing/settlements/"+s.ID, acreedora,
		map[string]string{"status": "REJECTED"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", errorCode(t, data).Code)

	resp, data = call(t, app, http.MethodGet, "/api/clearing/balance", deudora, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var bal dto.BalanceResponse
	require.NoError(t, json.Unmarshal(data, &bal))
	require.Len(t, bal.Balances, 1)
	assert.True(t, dec("40").Equal(bal.Balances[0].RemainingDebt))

	resp, data = call(t, app, http.MethodGet, "/api/clearing/settlements/no-existe", deudora, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, data).Code)
}

func TestCreateSettlement_HTTPValidacionConCampo(t *testing.T) {
	app, _ := newAPI(t)
	resp, data := call(t, app, http.MethodPost, "/api/clearing/settlements", bearer(t, centro, access.RoleCajero),
		map[string]string{"target_branch_id": norte, "amount": "0"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := errorCode(t, data)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "amount", e.Field)
}

func TestModuloDeshabilitado_SoloBloqueaRolesAcotados(t *testing.T) {
	app, store := newAPI(t)
	store.SetModule(access.ModuleClearing, false)

	resp, data := call(t, app, http.MethodGet, "/api/clearing/balance", bearer(t, centro, access.RoleCajero), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MODULE_DISABLED", errorCode(t, data).Code)

	resp, data = call(t, app, http.MethodGet, "/api/clearing/balance?branch_id="+norte, bearer(t, "", access.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var bal dto.BalanceResponse
	require.NoError(t, json.Unmarshal(data, &bal))
	assert.Equal(t, norte, bal.BranchID)
}

func TestCajeroNoOperaOtraSucursal_HTTP(t *testing.T) {
	app, _ := newAPI(t)
	resp, data := call(t, app, http.MethodGet, "/api/clearing/balance?branch_id="+norte, bearer(t, centro, access.RoleCajero), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, data).Code)
}

func TestRolDesconocido_HTTP(t *testing.T) {
	app, _ := newAPI(t)
	resp, _ := call(t, app, http.MethodGet, "/api/transfers", bearer(t, centro, "BODEGUERO"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestExportBalance_HTTPDevuelveXLSX(t *testing.T) {
	app, _ := newAPI(t)
	resp, data := call(t, app, http.MethodGet, "/api/clearing/balance/export", bearer(t, centro, access.RoleSupervisor), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "clearing_"+centro)
	assert.Equal(t, "PK", string(data[:2]), "xlsx es un zip")
}

func TestTransferEmit_HTTPStockInsuficiente(t *testing.T) {
	app, store := newAPI(t)
	origen := bearer(t, centro, access.RoleSupervisor)

	resp, data := call(t, app, http.MethodPost, "/api/transfers", origen, map[string]interface{}{
		"target_branch_id": norte,
		"items":            []map[string]string{{"product_id": "p-norte", "quantity": "5"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var tr dto.TransferResponse
	require.NoError(t, json.Unmarshal(data, &tr))
	assert.Equal(t, entity.TransferPending, tr.Status)

	resp, data = call(t, app, http.MethodPost, "/api/transfers/"+tr.ID+"/emit", origen, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, data).Code)
	assert.True(t, dec("2").Equal(store.StockOf("p-norte", centro)))

	resp, data = call(t, app, http.MethodPost, "/api/transfers/"+tr.ID+"/cancel", origen, map[string]string{"reason": "sin stock"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	require.NoError(t, json.Unmarshal(data, &tr))
	assert.Equal(t, entity.TransferCancelled, tr.Status)
}

func TestStockEntry_HTTP(t *testing.T) {
	app, store := newAPI(t)
	auth := bearer(t, norte, access.RoleSupervisor)

	resp, data := call(t, app, http.MethodPost, "/api/stock-entries", auth, map[string]interface{}{
		"supplier_name": "Tostadores SA",
		"items":         []map[string]interface{}{{"product_id": "p-norte", "quantity": "3", "unit_cost": "40"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.True(t, dec("3").Equal(store.StockOf("p-norte", norte)))

	resp, data = call(t, app, http.MethodGet, "/api/stock-entries?limit=5", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var list dto.StockEntryListResponse
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)
}
