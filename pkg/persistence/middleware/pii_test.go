package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := NewMockStore()
	mw := middleware.NewPIIMiddleware(domain.FieldEmail, domain.FieldMessage)
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"
	state := secretState(sessionID)
	state.Status = domain.StateSubmitted

	if err := secureStore.Save(ctx, sessionID, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify In-Memory State is NOT MODIFIED (Immutability check)
	if state.Input.Email != "ada@example.com" {
		t.Error("Middleware modified original state in memory!")
	}

	stored, _ := underlyingStore.Load(ctx, sessionID)
	if stored.Input.Email != middleware.Mask {
		t.Errorf("Expected email to be masked, got %q", stored.Input.Email)
	}
	if stored.Input.Message != middleware.Mask {
		t.Errorf("Expected message to be masked, got %q", stored.Input.Message)
	}
	if stored.Input.Name != "Ada" {
		t.Errorf("Expected name to be kept, got %q", stored.Input.Name)
	}
}

func TestPIIMiddleware_LeavesActiveFormsAlone(t *testing.T) {
	ctx := context.Background()
	secureStore := middleware.NewPIIMiddleware()(NewMockStore())

	for _, status := range []domain.SubmissionState{domain.StateIdle, domain.StateSubmitting} {
		state := secretState("active")
		state.Status = status
		if err := secureStore.Save(ctx, "active", state); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, _ := secureStore.Load(ctx, "active")
		if loaded.Input.Message != "my-secret-sauce" {
			t.Errorf("%s: form values must survive, got %q", status, loaded.Input.Message)
		}
	}
}

func TestChain_Order(t *testing.T) {
	ctx := context.Background()
	underlying := NewMockStore()
	// Redaction runs before sealing so the ciphertext holds masked values.
	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware(),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	state := secretState("chain")
	state.Status = domain.StateSubmitted
	if err := store.Save(ctx, "chain", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, _ := underlying.Load(ctx, "chain")
	if raw.Sealed == "" {
		t.Fatal("Expected sealed envelope in underlying store")
	}

	loaded, err := store.Load(ctx, "chain")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Input.Name != middleware.Mask {
		t.Errorf("Expected masked name inside ciphertext, got %q", loaded.Input.Name)
	}
}
