// notifier consume los eventos de dominio publicados por la API y envía los correos
// correspondientes (cambio de estado de pedido, orden de compra, aprobación de registro).
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/infrastructure/email"
	"github.com/jhoicas/portal-api/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/portal-api/pkg/config"
	"github.com/jhoicas/portal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("notifier")

	if cfg.RabbitMQ.URL == "" {
		log.Fatal().Msg("RABBITMQ_URL es obligatorio para el notificador")
	}

	renderer, err := email.NewRenderer(cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar plantillas de correo")
	}
	notifier := email.NewNotifier(renderer, email.NewSMTPSender(cfg.SMTP), log.Zerolog())

	rabbit, err := rabbitmq.Dial(cfg.RabbitMQ, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a RabbitMQ")
	}
	defer rabbit.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.RabbitMQ.Queue).Msg("consumiendo eventos")
	err = rabbit.Consume(ctx, cfg.RabbitMQ.Queue, map[string]rabbitmq.Handler{
		ports.EventOrderStatusChanged:   notifier.HandleOrderStatusChanged,
		ports.EventPurchaseOrderOrdered: notifier.HandlePurchaseOrderOrdered,
		ports.EventRegistrationApproved: notifier.HandleRegistrationApproved,
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("consumo de eventos finalizado")
	}
	log.Info().Msg("notificador detenido")
}
