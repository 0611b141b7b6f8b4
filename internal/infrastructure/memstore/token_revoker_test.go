package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRevoker(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	r := NewTokenRevoker()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	_ = r.Revoke(ctx, "a", now.Add(time.Minute))
	_ = r.Revoke(ctx, "expired", now.Add(-time.Minute))

	revoked, _ := r.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = r.IsRevoked(ctx, "expired")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = r.IsRevoked(ctx, "a")
	assert.False(t, revoked)
}
