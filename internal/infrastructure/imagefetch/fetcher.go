// Package imagefetch descarga miniaturas de producto para los reportes. Reintenta con
// backoff exponencial y corta con un circuit breaker cuando el origen falla seguido.
package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/pkg/config"
)

// MaxImageBytes tamaño máximo aceptado por imagen.
const MaxImageBytes = 2 << 20

var _ ports.ImageFetcher = (*Fetcher)(nil)

// errPermanent respuestas que no tiene sentido reintentar (4xx, tamaño excedido).
var errPermanent = errors.New("imagefetch: error permanente")

// Fetcher cliente HTTP con reintentos y circuit breaker.
type Fetcher struct {
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxElapsed time.Duration
	initial    time.Duration
	log        zerolog.Logger
}

// New construye el fetcher a partir de la configuración.
func New(cfg config.ImageFetchConfig, log zerolog.Logger) *Fetcher {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	f := &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		maxElapsed: cfg.MaxElapsed,
		initial:    200 * time.Millisecond,
		log:        log,
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "imagefetch",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		// Las respuestas 4xx son del recurso, no del origen: no cuentan como fallo.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errPermanent)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cambio de estado")
		},
	})
	return f
}

// Fetch descarga url. Devuelve error si el circuito está abierto o si se agotan los reintentos.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initial
	b.MaxElapsedTime = f.maxElapsed

	var body []byte
	op := func() error {
		out, err := f.breaker.Execute(func() (any, error) { return f.get(ctx, url) })
		if err != nil {
			if errors.Is(err, errPermanent) || errors.Is(err, gobreaker.ErrOpenState) ||
				errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = out.([]byte)
		return nil
	}
	notify := func(err error, wait time.Duration) {
		f.log.Debug().Err(err).Str("url", url).Dur("retry_in", wait).Msg("reintentando descarga de imagen")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPermanent, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", errPermanent, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: imagen mayor a %d bytes", errPermanent, MaxImageBytes)
	}
	return data, nil
}
