package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/portal-api/docs"
	"github.com/jhoicas/portal-api/internal/application/auth"
	"github.com/jhoicas/portal-api/internal/application/inventory"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/application/purchasing"
	"github.com/jhoicas/portal-api/internal/application/reporting"
	"github.com/jhoicas/portal-api/internal/application/sales"
	"github.com/jhoicas/portal-api/internal/application/usecase"
	"github.com/jhoicas/portal-api/internal/infrastructure/imagefetch"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
	"github.com/jhoicas/portal-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/portal-api/internal/infrastructure/pdf"
	"github.com/jhoicas/portal-api/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/portal-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/portal-api/internal/interfaces/http"
	"github.com/jhoicas/portal-api/pkg/config"
	"github.com/jhoicas/portal-api/pkg/logger"
)

// @title       Portal API
// @version     1.0
// @description Backend del portal de gestión: pedidos, compras, inventario, envíos y reportes.
// @BasePath    /
// @securityDefinitions.apikey Bearer
// @in          header
// @name        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	m := metrics.New("portal")

	store, err := openStorage(ctx, cfg.DB, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	// Revocación de tokens: Redis si está configurado, si no en memoria del proceso.
	var revoker ports.TokenRevoker = memstore.NewTokenRevoker()
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		revoker = infraredis.NewTokenRevoker(client)
	}

	// Eventos de dominio: RabbitMQ si está configurado, si no solo se registran en log.
	var events ports.EventPublisher = rabbitmq.NewLogPublisher(log.Component("events").Zerolog())
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := rabbitmq.Dial(cfg.RabbitMQ, log.Component("rabbitmq").Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer rabbit.Close()
		events = rabbit
	}
	publishErr := func(routingKey string, err error) {
		log.Error().Err(err).Str("routing_key", routingKey).Msg("publicar evento")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	images := imagefetch.New(cfg.ImageFetch, log.Component("imagefetch").Zerolog())

	authUC := auth.NewAuthUseCase(store.users, revoker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	registrationUC := auth.NewRegistrationUseCase(store.uow, store.registrationRequests, store.users, events)
	registrationUC.OnPublishError(publishErr)

	userUC := usecase.NewUserUseCase(store.users)
	if cfg.Bootstrap.AdminEmail != "" {
		created, err := userUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear admin inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("admin inicial creado")
		}
	}

	purchaseOrderUC := purchasing.NewPurchaseOrderUseCase(
		store.uow, store.purchaseOrders, store.suppliers, store.products, events, pdfGenerator,
		purchasing.WithObserver(m),
		purchasing.WithPublishErrorHandler(publishErr),
		purchasing.WithLookupErrorHandler(func(id string, err error) {
			log.Warn().Err(err).Str("id", id).Msg("orden de compra: lectura omitida")
		}),
	)
	orderUC := sales.NewOrderUseCase(store.uow, store.orders, events)
	orderUC.OnPublishError(publishErr)

	reportUC := reporting.NewReportUseCase(store.reports, pdfGenerator, images)
	reportUC.OnFetchError(func(url string, err error) {
		log.Warn().Err(err).Str("url", url).Msg("imagen omitida en reporte")
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http"), cfg.App.IsProduction()),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Portal API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		RegistrationUC:  registrationUC,
		UserUC:          userUC,
		ProductUC:       usecase.NewProductUseCase(store.uow, store.products, store.stocks),
		StockUC:         inventory.NewStockUseCase(store.uow, store.stocks, store.stockChanges),
		SupplierUC:      usecase.NewSupplierUseCase(store.suppliers),
		VehicleUC:       usecase.NewVehicleUseCase(store.vehicles),
		PurchaseOrderUC: purchaseOrderUC,
		OrderUC:         orderUC,
		ShipmentUC:      sales.NewShipmentUseCase(store.uow, store.shipments, orderUC),
		ReportUC:        reportUC,
		Revoked:         revoker,
		JWTSecret:       cfg.JWT.Secret,
		Metrics:         m,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
