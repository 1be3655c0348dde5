package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/devcraft"
	"github.com/aretw0/devcraft/pkg/adapters/sqlite"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it printed.
// Flags keep their values between runs, so they are reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "devcraft version "+devcraft.Version+"\n", out)
}

func TestPagesCommand(t *testing.T) {
	out, err := run(t, "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "/portfolio")
	assert.Contains(t, out, "not-found")
}

func TestRenderCommand(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		out, err := run(t, "render", "about")
		require.NoError(t, err)
		assert.Contains(t, out, "<html")
	})

	t.Run("Directory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := run(t, "render", "--out", dir)
		require.NoError(t, err)

		for _, name := range []string{"index.html", "about/index.html", "contact/index.html", "404.html"} {
			_, err := os.Stat(filepath.Join(dir, name))
			assert.NoError(t, err, name)
		}
	})

	t.Run("Unknown Page", func(t *testing.T) {
		_, err := run(t, "render", "pricing")
		assert.Error(t, err)
	})
}

func TestContentCommand(t *testing.T) {
	out, err := run(t, "content", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "), out[:min(len(out), 80)])
	assert.Contains(t, out, "Website Development")
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph", "lifecycle", "--current", "submitted")
	require.NoError(t, err)
	assert.Contains(t, out, "stateDiagram-v2")
	assert.Contains(t, out, "class submitted current")

	out, err = run(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	_, err = run(t, "graph", "erd")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("store:\n  backend: etcd\n"), 0o600))
	_, err = run(t, "validate", "--config", bad)
	assert.ErrorContains(t, err, "store.backend")
}

func TestInboxCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "inbox.db")
	inbox, err := sqlite.Open(db)
	require.NoError(t, err)
	require.NoError(t, inbox.Deliver(context.Background(), domain.Submission{
		ID:         uuid.New(),
		SessionID:  "s1",
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Message:    "Please build me an analytical engine.",
		ReceivedAt: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}))
	require.NoError(t, inbox.Close())

	out, err := run(t, "inbox", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "1 of 1 messages")

	out, err = run(t, "inbox", "--db", db, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "ada@example.com"`)
}
