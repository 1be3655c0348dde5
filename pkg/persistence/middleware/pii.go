package middleware

import (
	"context"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type piiMiddleware struct {
	next   ports.StateStore
	fields []domain.Field
}

// NewPIIMiddleware creates a middleware that masks the given fields of forms that
// reached StateSubmitted. Reads of a masked form return Mask until the reset
// discards the values. With no fields, every form field is masked.
func NewPIIMiddleware(fields ...domain.Field) Middleware {
	if len(fields) == 0 {
		fields = domain.Fields
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, fields: fields}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.FormState) error {
	if state.Status != domain.StateSubmitted {
		return m.next.Save(ctx, sessionID, state)
	}

	// Clone to avoid side effects on the state the caller keeps using.
	cloned := state.Snapshot()
	for _, f := range m.fields {
		if cloned.Input.Get(f) != "" {
			cloned.Input.Set(f, Mask)
		}
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.FormState, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
