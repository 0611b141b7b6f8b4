package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/portal-api/internal/application/auth"
	"github.com/jhoicas/portal-api/internal/application/inventory"
	"github.com/jhoicas/portal-api/internal/application/purchasing"
	"github.com/jhoicas/portal-api/internal/application/reporting"
	"github.com/jhoicas/portal-api/internal/application/sales"
	"github.com/jhoicas/portal-api/internal/application/usecase"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	RegistrationUC  *auth.RegistrationUseCase
	UserUC          *usecase.UserUseCase
	ProductUC       *usecase.ProductUseCase
	StockUC         *inventory.StockUseCase
	SupplierUC      *usecase.SupplierUseCase
	VehicleUC       *usecase.VehicleUseCase
	PurchaseOrderUC *purchasing.PurchaseOrderUseCase
	OrderUC         *sales.OrderUseCase
	ShipmentUC      *sales.ShipmentUseCase
	ReportUC        *reporting.ReportUseCase
	Revoked         RevocationChecker
	JWTSecret       string
	Metrics         *metrics.Metrics // nil = sin /metrics
}

// publicRoutes rutas de /api que no exigen token.
var publicRoutes = map[string]bool{
	fiber.MethodPost + " /api/auth/login":                 true,
	fiber.MethodPost + " /api/auth/registration-requests": true,
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api", AuthMiddleware(AuthConfig{
		Secret:  deps.JWTSecret,
		Revoked: deps.Revoked,
		Public:  publicRoutes,
	}))

	admin := RequireRole(entity.RoleAdmin)
	warehouse := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	seller := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.RegistrationUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Post("/auth/registration-requests", authHandler.SubmitRegistration)

	registrations := api.Group("/registration-requests", admin)
	registrations.Get("/", authHandler.ListRegistrations)
	registrations.Post("/:id/approve", authHandler.ApproveRegistration)
	registrations.Post("/:id/reject", authHandler.RejectRegistration)

	// Users (solo admin)
	users := api.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)

	// Products + stock: lectura para todos, escritura bodega
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Get("/:id/stock", anyRole, productHandler.GetStock)
	products.Get("/:id/stock/changes", warehouse, productHandler.ListStockChanges)
	products.Post("/", warehouse, productHandler.Create)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Delete("/:id", warehouse, productHandler.Delete)
	products.Post("/:id/stock/adjustments", warehouse, productHandler.AdjustStock)

	// Suppliers
	suppliers := api.Group("/suppliers", warehouse)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Purchase orders
	purchaseOrders := api.Group("/purchase-orders", warehouse)
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	purchaseOrders.Post("/", poHandler.Create)
	purchaseOrders.Get("/", poHandler.List)
	purchaseOrders.Get("/:id", poHandler.GetByID)
	purchaseOrders.Put("/:id", poHandler.Update)
	purchaseOrders.Patch("/:id/status", poHandler.ChangeStatus)
	purchaseOrders.Get("/:id/pdf", poHandler.PDF)

	// Orders: consulta para todos, escritura ventas
	orderHandler := NewOrderHandler(deps.OrderUC, deps.ShipmentUC)
	orders := api.Group("/orders")
	orders.Get("/", anyRole, orderHandler.List)
	orders.Get("/:id", anyRole, orderHandler.GetByID)
	orders.Post("/", seller, orderHandler.Create)
	orders.Patch("/:id/status", seller, orderHandler.ChangeStatus)

	// Shipments
	shipments := api.Group("/shipments", anyRole)
	shipments.Post("/", orderHandler.CreateShipment)
	shipments.Get("/", orderHandler.ListShipments)
	shipments.Get("/:id", orderHandler.GetShipment)
	shipments.Patch("/:id/status", orderHandler.ChangeShipmentStatus)

	// Vehicles
	vehicles := api.Group("/vehicles", warehouse)
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Put("/:id", vehicleHandler.Update)
	vehicles.Delete("/:id", vehicleHandler.Delete)
	vehicles.Post("/:id/maintenance", vehicleHandler.AddMaintenance)
	vehicles.Get("/:id/maintenance", vehicleHandler.ListMaintenance)

	// Reports
	reports := api.Group("/reports", admin)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/sales/pdf", reportHandler.SalesPDF)
}
