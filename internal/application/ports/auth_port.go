package ports

import (
	"context"
	"time"
)

// TokenRevoker lista de tokens revocados por logout (por jti).
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
