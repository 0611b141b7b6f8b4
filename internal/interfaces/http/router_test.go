package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/portal-api/internal/application/auth"
	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/inventory"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/application/purchasing"
	"github.com/jhoicas/portal-api/internal/application/reporting"
	"github.com/jhoicas/portal-api/internal/application/sales"
	"github.com/jhoicas/portal-api/internal/application/usecase"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
	"github.com/jhoicas/portal-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/portal-api/internal/interfaces/http"
	"github.com/jhoicas/portal-api/pkg/logger"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

type stubPDF struct{}

func (stubPDF) PurchaseOrderPDF(*ports.PurchaseOrderDocument) ([]byte, error) {
	return []byte("%PDF-po"), nil
}

func (stubPDF) SalesReportPDF(*ports.SalesReportDocument) ([]byte, error) {
	return []byte("%PDF-sales"), nil
}

type noImages struct{}

func (noImages) Fetch(context.Context, string) ([]byte, error) { return nil, nil }

const testPassword = "Secreta123!"

type apiFixture struct {
	app      *fiber.App
	store    *memstore.Store
	supplier string
	product  string
}

// newAPI arma el router completo sobre memstore con un usuario por rol.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	revoker := memstore.NewTokenRevoker()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	for _, role := range []string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor} {
		require.NoError(t, store.Users().Create(ctx, &entity.User{
			ID: uuid.NewString(), Email: role + "@portal.test", PasswordHash: string(hash),
			Name: role, Role: role, Status: entity.UserStatusActive,
		}))
	}

	f := &apiFixture{store: store, supplier: uuid.NewString(), product: uuid.NewString()}
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: f.supplier, Name: "Tostadores SAS"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: f.product, SKU: "CAF-500", Name: "Café 500g", Price: decimal.RequireFromString("32.00"),
	}))
	require.NoError(t, store.Stocks().Create(ctx, &entity.Stock{ProductID: f.product, QuantityAvailable: 2}))

	orders := sales.NewOrderUseCase(store, store.Orders(), nopPublisher{})
	deps := apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(store.Users(), revoker, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		RegistrationUC:  auth.NewRegistrationUseCase(store, store.RegistrationRequests(), store.Users(), nopPublisher{}),
		UserUC:          usecase.NewUserUseCase(store.Users()),
		ProductUC:       usecase.NewProductUseCase(store, store.Products(), store.Stocks()),
		StockUC:         inventory.NewStockUseCase(store, store.Stocks(), store.StockChanges()),
		SupplierUC:      usecase.NewSupplierUseCase(store.Suppliers()),
		VehicleUC:       usecase.NewVehicleUseCase(store.Vehicles()),
		PurchaseOrderUC: purchasing.NewPurchaseOrderUseCase(store, store.PurchaseOrders(), store.Suppliers(), store.Products(), nopPublisher{}, stubPDF{}),
		OrderUC:         orders,
		ShipmentUC:      sales.NewShipmentUseCase(store, store.Shipments(), orders),
		ReportUC:        reporting.NewReportUseCase(store.Reports(), stubPDF{}, noImages{}),
		Revoked:         revoker,
		JWTSecret:       testJWTSecret,
		Metrics:         metrics.New("portal_test"),
	}

	log := logger.Nop()
	f.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log, false)})
	f.app.Use(apphttp.RequestLogger(log, deps.Metrics))
	apphttp.Router(f.app, deps)
	return f
}

func (f *apiFixture) login(t *testing.T, role string) string {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: role + "@portal.test", Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// do envía body como JSON; si body es string se manda tal cual.
func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e
}

func TestRouter_HealthYMetrics(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "portal_test_http_requests_total")
}

func TestRouter_CampoDesconocido_Retorna400(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleAdmin)

	resp, body := f.do(t, http.MethodPost, "/api/suppliers", token, `{"name":"Molinos","fax":"123"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, body).Code)
}

func TestRouter_ErrorDeValidacion_IncluyeCampos(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleAdmin)

	resp, body := f.do(t, http.MethodPost, "/api/suppliers", token, `{"name":"","email":"no-es-email"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, body)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "email")
}

func TestRouter_TransicionInvalida_409SinPersistir(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleBodeguero)

	resp, body := f.do(t, http.MethodPost, "/api/purchase-orders", token, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: f.product, Quantity: 5, UnitPrice: decimal.NewFromInt(20)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var po dto.PurchaseOrderResponse
	require.NoError(t, json.Unmarshal(body, &po))
	assert.Equal(t, entity.PurchaseOrderDraft, entity.PurchaseOrderStatus(po.Status))

	resp, body = f.do(t, http.MethodPatch, "/api/purchase-orders/"+po.ID+"/status", token, dto.ChangeStatusRequest{Status: "received"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decodeError(t, body).Code)

	resp, body = f.do(t, http.MethodGet, "/api/purchase-orders/"+po.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &po))
	assert.Equal(t, "draft", po.Status)

	stock, err := f.store.Stocks().Get(context.Background(), f.product)
	require.NoError(t, err)
	assert.Equal(t, 2, stock.QuantityAvailable)
	assert.Zero(t, stock.QuantityOrdered)
	changes, err := f.store.StockChanges().ListByProduct(context.Background(), f.product, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRouter_OrdenYRecepcion_ActualizanStock(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleBodeguero)

	_, body := f.do(t, http.MethodPost, "/api/purchase-orders", token, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: f.product, Quantity: 5, UnitPrice: decimal.NewFromInt(20)}},
	})
	var po dto.PurchaseOrderResponse
	require.NoError(t, json.Unmarshal(body, &po))

	for _, status := range []string{"ordered", "received"} {
		resp, raw := f.do(t, http.MethodPatch, "/api/purchase-orders/"+po.ID+"/status", token, dto.ChangeStatusRequest{Status: status})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	}

	resp, body := f.do(t, http.MethodGet, "/api/products/"+f.product+"/stock", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stock dto.StockResponse
	require.NoError(t, json.Unmarshal(body, &stock))
	assert.Equal(t, 7, stock.Available)
	assert.Zero(t, stock.Ordered)

	resp, body = f.do(t, http.MethodGet, "/api/purchase-orders/"+po.ID+"/pdf", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "%PDF-po", string(body))
}

func TestRouter_PedidoSinStock_409SinPedido(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleVendedor)

	resp, body := f.do(t, http.MethodPost, "/api/orders", token, dto.CreateOrderRequest{
		CustomerName: "Luis Gómez",
		Address:      "Cra 7 # 12-40",
		Items:        []dto.OrderItemRequest{{ProductID: f.product, Quantity: 3}},
		Payment:      dto.PaymentRequest{Method: entity.PaymentMethodCash},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, body).Code)

	resp, body = f.do(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.OrderListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Items)
}

func TestRouter_Roles(t *testing.T) {
	f := newAPI(t)
	seller := f.login(t, entity.RoleVendedor)

	resp, body := f.do(t, http.MethodGet, "/api/suppliers", seller, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, body).Code)

	resp, _ = f.do(t, http.MethodGet, "/api/products", seller, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/reports/sales?from=2026-01-01&to=2026-01-31", seller, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := f.login(t, entity.RoleAdmin)
	resp, body = f.do(t, http.MethodGet, "/api/reports/sales?from=2026-01-01&to=2026-01-31", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/reports/sales?from=31-01-2026&to=2026-01-31", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, body).Code)
}

func TestRouter_LoginFallido_401(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@portal.test", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, body).Code)
}

func TestRouter_Logout_RevocaToken(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleAdmin)

	resp, _ := f.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "REVOKED_TOKEN", decodeError(t, body).Code)
}

func TestRouter_SolicitudDeRegistro_Publica(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/auth/registration-requests", "", dto.RegistrationRequestInput{
		Email: "nuevo@portal.test", Name: "Nuevo", RequestedRole: entity.RoleVendedor,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	admin := f.login(t, entity.RoleAdmin)
	resp, body = f.do(t, http.MethodGet, "/api/registration-requests", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.RegistrationRequestListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
}

func TestRouter_NoEncontrado_404(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, entity.RoleAdmin)
	resp, body := f.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Code)
}
