package ctxutil

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// private keys to avoid collisions
type key int

const (
	keyTenantID key = iota
	keyProfileID
	keyRole
	keyOpName
)

// WithTenantID / TenantID — tenant scope travels with the request context.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, keyTenantID, tenantID)
}

func TenantID(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(keyTenantID)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// WithProfileID / ProfileID — the authenticated profile, if any.
func WithProfileID(ctx context.Context, profileID uuid.UUID) context.Context {
	return context.WithValue(ctx, keyProfileID, profileID)
}

func ProfileID(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(keyProfileID)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, keyRole, role)
}

func Role(ctx context.Context) (string, bool) {
	v := ctx.Value(keyRole)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WithOp / Op — operation name (for logs/traces).
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var DefaultDBTimeout = 5 * time.Second

func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout — standard DB timeout; never extends a parent deadline that
// is already shorter.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
