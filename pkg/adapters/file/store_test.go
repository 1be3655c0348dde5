package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/devcraft/pkg/adapters/file"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		err := store.Save(ctx, id, domain.NewFormState(id))
		assert.ErrorIs(t, err, file.ErrInvalidSessionID, id)
		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, file.ErrInvalidSessionID, id)
	}
}

func TestFileStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewFormState("s1")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-s2-123.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = store.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
