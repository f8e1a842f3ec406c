package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/report"
	"github.com/jhoicas/wms-api/internal/application/shipping"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/wms-api/internal/interfaces/http"
)

// apiClient envuelve una app completa sobre el store en memoria.
type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	_, err := authUC.SeedDefaultUsers(context.Background(), auth.DefaultAccounts("admin123", "user123"))
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  usecase.NewProductUseCase(store.Products()),
		MovementUC: inventory.NewMovementUseCase(store, store.Movements()),
		ShipmentUC: shipping.NewShipmentUseCase(store, store.Shipments(), store.Products()),
		UserUC:     usecase.NewUserUseCase(store.Users()),
		ReportUC:   report.NewReportUseCase(store.Products(), store.Movements(), store.Users(), pdf.NewMarotoStockReport(time.UTC)),
		JWTSecret:  testJWTSecret,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path, token string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

// call hace la petición, exige el status y decodifica el cuerpo en out (si no es nil).
func (a *apiClient) call(method, path, token string, body any, status int, out any) {
	a.t.Helper()
	resp := a.do(method, path, token, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	require.Equal(a.t, status, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(raw, out))
	}
}

func (a *apiClient) login(username, password string) string {
	a.t.Helper()
	var out dto.LoginResponse
	a.call(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password}, http.StatusOK, &out)
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func (a *apiClient) createProduct(token, code string, qty int) dto.ProductResponse {
	a.t.Helper()
	var p dto.ProductResponse
	a.call(http.MethodPost, "/api/products", token, dto.CreateProductRequest{
		Code: code, Name: "Producto " + code, Category: "General", Quantity: qty,
	}, http.StatusCreated, &p)
	return p
}

func TestAPI_LoginInvalido(t *testing.T) {
	api := newAPI(t)

	var e dto.ErrorResponse
	api.call(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"}, http.StatusUnauthorized, &e)
	assert.Equal(t, "UNAUTHORIZED", e.Code)

	api.call(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"}, http.StatusBadRequest, &e)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Message, "password")
}

func TestAPI_RutasProtegidasSinToken(t *testing.T) {
	api := newAPI(t)

	var e dto.ErrorResponse
	api.call(http.MethodGet, "/api/products", "", nil, http.StatusUnauthorized, &e)
	assert.Equal(t, "MISSING_TOKEN", e.Code)
}

func TestAPI_FlujoDeMovimientos(t *testing.T) {
	api := newAPI(t)
	token := api.login("user", "user123")
	p := api.createProduct(token, "P-001", 10)

	var mov dto.MovementResponse
	api.call(http.MethodPost, "/api/movements", token, dto.RegisterMovementRequest{
		ProductID: p.ID, Type: entity.MovementTypeSaida, Quantity: 4,
	}, http.StatusCreated, &mov)
	assert.Equal(t, 10, mov.PreviousQuantity)

	var stockErr apphttp.InsufficientStockResponse
	api.call(http.MethodPost, "/api/movements", token, dto.RegisterMovementRequest{
		ProductID: p.ID, Type: entity.MovementTypeSaida, Quantity: 20,
	}, http.StatusConflict, &stockErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", stockErr.Code)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 6, stockErr.Available)
	assert.Equal(t, 20, stockErr.Required)

	var e dto.ErrorResponse
	api.call(http.MethodPost, "/api/movements", token, dto.RegisterMovementRequest{
		ProductID: p.ID, Type: "transferencia", Quantity: 1,
	}, http.StatusBadRequest, &e)
	assert.Equal(t, "VALIDATION", e.Code)

	var got dto.ProductResponse
	api.call(http.MethodGet, "/api/products/"+p.ID, token, nil, http.StatusOK, &got)
	assert.Equal(t, 6, got.Quantity)

	var list []dto.MovementResponse
	api.call(http.MethodGet, "/api/movements?product_id="+p.ID, token, nil, http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Producto P-001", list[0].ProductName)

	api.call(http.MethodDelete, "/api/movements/"+mov.ID, token, nil, http.StatusNoContent, nil)
	api.call(http.MethodGet, "/api/products/"+p.ID, token, nil, http.StatusOK, &got)
	assert.Equal(t, 10, got.Quantity)
}

func TestAPI_ProductosRutasFijasAntesDeID(t *testing.T) {
	api := newAPI(t)
	token := api.login("user", "user123")
	api.createProduct(token, "P-001", 3)
	api.createProduct(token, "P-002", 50)

	var stats dto.StockStatsResponse
	api.call(http.MethodGet, "/api/products/stats", token, nil, http.StatusOK, &stats)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 53, stats.TotalItems)
	assert.Equal(t, 1, stats.LowStock)

	var low []dto.ProductResponse
	api.call(http.MethodGet, "/api/products/low-stock", token, nil, http.StatusOK, &low)
	require.Len(t, low, 1)
	assert.Equal(t, "P-001", low[0].Code)

	var e dto.ErrorResponse
	api.call(http.MethodGet, "/api/products/no-existe", token, nil, http.StatusNotFound, &e)
	assert.Equal(t, "NOT_FOUND", e.Code)

	api.call(http.MethodPost, "/api/products", token, dto.CreateProductRequest{Code: "P-001", Name: "x", Category: "y"}, http.StatusConflict, &e)
	assert.Equal(t, "DUPLICATE", e.Code)
}

func TestAPI_FlujoDeExpedicion(t *testing.T) {
	api := newAPI(t)
	token := api.login("user", "user123")
	p := api.createProduct(token, "P-001", 5)

	var s dto.ShipmentResponse
	api.call(http.MethodPost, "/api/shipments", token, dto.CreateShipmentRequest{
		OrderNumber: "PED-1", CustomerName: "Cliente", CustomerAddress: "Calle 1",
	}, http.StatusCreated, &s)
	assert.Equal(t, entity.ShipmentStatusPending, s.Status)

	var item dto.ShipmentItemResponse
	api.call(http.MethodPost, "/api/shipments/"+s.ID+"/items", token, dto.AddShipmentItemRequest{ProductID: p.ID, Quantity: 3}, http.StatusCreated, &item)
	api.call(http.MethodPost, "/api/shipments/"+s.ID+"/items", token, dto.AddShipmentItemRequest{ProductID: p.ID, Quantity: 3}, http.StatusCreated, nil)

	// 3+3 > 5: el despacho falla completo y el saldo no cambia
	var stockErr apphttp.InsufficientStockResponse
	api.call(http.MethodPatch, "/api/shipments/"+s.ID+"/status", token, dto.UpdateShipmentStatusRequest{Status: entity.ShipmentStatusShipped}, http.StatusConflict, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Required)

	api.call(http.MethodDelete, "/api/shipments/items/"+item.ID, token, nil, http.StatusNoContent, nil)
	api.call(http.MethodPatch, "/api/shipments/"+s.ID+"/status", token, dto.UpdateShipmentStatusRequest{Status: entity.ShipmentStatusShipped}, http.StatusOK, &s)
	assert.Equal(t, entity.ShipmentStatusShipped, s.Status)
	require.NotNil(t, s.ShippedAt)

	var got dto.ProductResponse
	api.call(http.MethodGet, "/api/products/"+p.ID, token, nil, http.StatusOK, &got)
	assert.Equal(t, 2, got.Quantity)

	var stats dto.ShipmentStatsResponse
	api.call(http.MethodGet, "/api/shipments/stats", token, nil, http.StatusOK, &stats)
	assert.Equal(t, 1, stats.Shipped)

	api.call(http.MethodDelete, "/api/shipments/"+s.ID, token, nil, http.StatusNoContent, nil)
	api.call(http.MethodGet, "/api/products/"+p.ID, token, nil, http.StatusOK, &got)
	assert.Equal(t, 5, got.Quantity, "eliminar una expedición despachada devuelve el stock")
}

func TestAPI_AdminUsuarios(t *testing.T) {
	api := newAPI(t)
	adminTok := api.login("admin", "admin123")
	userTok := api.login("user", "user123")

	var e dto.ErrorResponse
	api.call(http.MethodGet, "/api/admin/users", userTok, nil, http.StatusForbidden, &e)
	assert.Equal(t, "FORBIDDEN", e.Code)

	var users []dto.UserResponse
	api.call(http.MethodGet, "/api/admin/users", adminTok, nil, http.StatusOK, &users)
	require.Len(t, users, 2)

	var created dto.UserResponse
	api.call(http.MethodPost, "/api/admin/users", adminTok, dto.CreateUserRequest{
		Username: "bodega", Email: "bodega@wms.local", Password: "secreto1", Name: "Bodega",
	}, http.StatusCreated, &created)
	assert.Equal(t, entity.RoleUser, created.Role)
	assert.True(t, created.Active)

	// Un token emitido antes de desactivar la cuenta deja de servir.
	bodegaTok := api.login("bodega", "secreto1")
	api.call(http.MethodPatch, "/api/admin/users/"+created.ID+"/toggle-status", adminTok, nil, http.StatusOK, &created)
	assert.False(t, created.Active)
	api.call(http.MethodGet, "/api/products", bodegaTok, nil, http.StatusForbidden, &e)
	assert.Equal(t, "USER_INACTIVE", e.Code)

	api.call(http.MethodDelete, "/api/admin/users/"+created.ID, adminTok, nil, http.StatusNoContent, nil)
	api.call(http.MethodGet, "/api/products", bodegaTok, nil, http.StatusForbidden, &e)
	api.call(http.MethodDelete, "/api/admin/users/"+created.ID, adminTok, nil, http.StatusNotFound, &e)
	assert.Equal(t, "USER_NOT_FOUND", e.Code)
}

func TestAPI_Reportes(t *testing.T) {
	api := newAPI(t)
	token := api.login("user", "user123")
	p := api.createProduct(token, "P-001", 7)
	api.call(http.MethodPost, "/api/movements", token, dto.RegisterMovementRequest{
		ProductID: p.ID, Type: entity.MovementTypeEntrada, Quantity: 3,
	}, http.StatusCreated, nil)

	var series dto.MovementSeriesResponse
	api.call(http.MethodGet, "/api/reports/movements?days=3", token, nil, http.StatusOK, &series)
	assert.Len(t, series.Labels, 3)

	var activity []dto.ActivityResponse
	api.call(http.MethodGet, "/api/reports/activity?limit=5", token, nil, http.StatusOK, &activity)
	assert.Len(t, activity, 1)

	resp := api.do(http.MethodGet, "/api/reports/stock.csv", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), `attachment; filename="inventario_`))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "P-001,Producto P-001,General")

	pdfResp := api.do(http.MethodGet, "/api/reports/stock.pdf", token, nil)
	defer pdfResp.Body.Close()
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
}
