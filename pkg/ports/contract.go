package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewFormState(sessionID)
		state.Input = domain.FormInput{Name: "Jane Doe", Email: "jane@example.com", Message: "Line one\nLine two"}
		state.Errors = domain.ValidationErrors{
			domain.FieldMessage: {Field: domain.FieldMessage, Kind: domain.KindTooShort, Message: "Message must be at least 10 characters"},
		}
		state.Attempt = 3
		state.UpdatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, state.Input, loaded.Input)
		assert.Equal(t, state.Status, loaded.Status)
		assert.Equal(t, state.Attempt, loaded.Attempt)
		assert.Equal(t, state.Errors, loaded.Errors)
		assert.True(t, state.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Input.Name = "mutated"
		delete(loaded.Errors, domain.FieldMessage)

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", again.Input.Name)
		assert.True(t, again.Errors.Has(domain.FieldMessage))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewFormState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewFormState(id1))
		_ = store.Save(ctx, id2, domain.NewFormState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
