// Package redis guarda en Redis los identificadores (jti) de tokens revocados.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/portal-api/pkg/config"
)

const revokedKeyPrefix = "auth:revoked:"

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// TokenRevoker lista de revocación: una clave por jti que expira junto con el token.
type TokenRevoker struct {
	client *goredis.Client
}

// NewTokenRevoker construye el adaptador sobre un cliente ya abierto.
func NewTokenRevoker(client *goredis.Client) *TokenRevoker {
	return &TokenRevoker{client: client}
}

// Revoke marca jti como revocado hasta expiresAt. Un token ya vencido no se guarda.
func (r *TokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked indica si jti fue revocado y aún no expiró.
func (r *TokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
