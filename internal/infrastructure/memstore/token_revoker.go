package memstore

import (
	"context"
	"sync"
	"time"
)

// TokenRevoker lista de revocación en memoria del proceso, usada cuando no hay Redis.
// Las entradas vencidas se purgan al revocar.
type TokenRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewTokenRevoker crea la lista vacía.
func NewTokenRevoker() *TokenRevoker {
	return &TokenRevoker{revoked: map[string]time.Time{}, now: time.Now}
}

// Revoke marca jti como revocado hasta expiresAt.
func (r *TokenRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, k)
		}
	}
	if expiresAt.After(now) {
		r.revoked[jti] = expiresAt
	}
	return nil
}

// IsRevoked indica si jti sigue revocado.
func (r *TokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.revoked[jti]
	return ok && exp.After(r.now()), nil
}
