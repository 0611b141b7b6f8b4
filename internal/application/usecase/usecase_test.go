package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-api/internal/application/dto"
	appinventory "github.com/jhoicas/portal-api/internal/application/inventory"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
)

func strPtr(s string) *string { return &s }

func TestProductUseCase_CreateWithStock(t *testing.T) {
	store := memstore.New()
	uc := NewProductUseCase(store, store.Products(), store.Stocks())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "CAF-250", Name: "Café 250g", Price: decimal.RequireFromString("18.90")})
	require.NoError(t, err)
	require.NotNil(t, out.Stock)
	assert.Equal(t, 0, out.Stock.Available)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "CAF-250", got.SKU)
	require.NotNil(t, got.Stock)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "CAF-250", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_UpdateListDelete(t *testing.T) {
	store := memstore.New()
	uc := NewProductUseCase(store, store.Products(), store.Stocks())
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TE-01", Name: "Té"})
	require.NoError(t, err)

	price := decimal.NewFromInt(7)
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: strPtr("Té verde"), Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Té verde", out.Name)
	assert.True(t, price.Equal(out.Price))

	list, err := uc.List(ctx, dto.PageRequest{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, dto.MaxLimit, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_DeleteConservaLibroDeStock(t *testing.T) {
	store := memstore.New()
	uc := NewProductUseCase(store, store.Products(), store.Stocks())
	stockUC := appinventory.NewStockUseCase(store, store.Stocks(), store.StockChanges())
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "CAF-1K", Name: "Café 1kg"})
	require.NoError(t, err)
	_, err = stockUC.Adjust(ctx, p.ID, "u1", dto.StockAdjustmentRequest{Delta: 10, Reason: "conteo inicial"})
	require.NoError(t, err)

	before, err := store.StockChanges().ListByProduct(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, before, 1)

	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrConflict)

	after, err := store.StockChanges().ListByProduct(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, after, 1)
	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Stock)
	assert.Equal(t, 10, got.Stock.Available)
}

func TestSupplierUseCase_CRUD(t *testing.T) {
	store := memstore.New()
	uc := NewSupplierUseCase(store.Suppliers())
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.SupplierRequest{Name: "Distribuidora Andina", Email: "compras@andina.test"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, s.ID, dto.SupplierRequest{Name: "Andina SAS", Phone: "3001234567"})
	require.NoError(t, err)
	assert.Equal(t, "Andina SAS", out.Name)
	assert.Empty(t, out.Email)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, s.ID))
	_, err = uc.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVehicleUseCase_Maintenance(t *testing.T) {
	store := memstore.New()
	uc := NewVehicleUseCase(store.Vehicles())
	ctx := context.Background()

	v, err := uc.Create(ctx, dto.VehicleRequest{Plate: "ABC123", Brand: "Chevrolet", Model: "NHR", Year: 2019, Mileage: 1000})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.VehicleRequest{Plate: "ABC123", Brand: "Otra", Model: "X", Year: 2020})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m, err := uc.AddMaintenance(ctx, v.ID, dto.MaintenanceRequest{Description: "Cambio de aceite", Cost: decimal.NewFromInt(180000), Mileage: 5000, Date: &date})
	require.NoError(t, err)
	assert.Equal(t, date, m.Date)

	got, err := uc.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000, got.Mileage, "el kilometraje del vehículo avanza")

	history, err := uc.ListMaintenance(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = uc.AddMaintenance(ctx, "no-existe", dto.MaintenanceRequest{Description: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUseCase_AdminRules(t *testing.T) {
	store := memstore.New()
	uc := NewUserUseCase(store.Users())
	ctx := context.Background()

	admin, err := uc.Create(ctx, dto.CreateUserRequest{Email: "admin@portal.test", Password: "secreto123", Name: "Admin", Role: entity.RoleAdmin})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "admin@portal.test", Password: "secreto123", Name: "Otro", Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Update(ctx, admin.ID, admin.ID, dto.UpdateUserRequest{Status: strPtr(entity.UserStatusInactive)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	seller, err := uc.Create(ctx, dto.CreateUserRequest{Email: "ventas@portal.test", Password: "secreto123", Name: "Ventas", Role: entity.RoleVendedor})
	require.NoError(t, err)
	out, err := uc.Update(ctx, admin.ID, seller.ID, dto.UpdateUserRequest{Role: strPtr(entity.RoleBodeguero), Status: strPtr(entity.UserStatusInactive)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodeguero, out.Role)
	assert.Equal(t, entity.UserStatusInactive, out.Status)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestUserUseCase_EnsureAdmin(t *testing.T) {
	store := memstore.New()
	uc := NewUserUseCase(store.Users())
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "root@portal.test", "Secreta123!")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "root@portal.test", "OtraClave99")
	require.NoError(t, err)
	assert.False(t, created, "un segundo arranque no duplica ni cambia el admin")

	u, err := store.Users().GetByEmail(ctx, "root@portal.test")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}
