package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/filebridge"
	"github.com/vk/calcnote/internal/mathengine"
	"github.com/vk/calcnote/internal/session"
)

// TestPersistence_FileStoreRoundTrip edits a notebook, closes it and opens
// it again from the same YAML file.
func TestPersistence_FileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.yaml")

	first, err := session.Open(ctx, session.Options{
		Bridge: filebridge.New(path),
		Engine: mathengine.New(),
		Seed:   []string{"a = 5", "b = a + 1"},
	})
	require.NoError(t, err)

	// --- Act ---
	nb := first.Notebook()
	require.True(t, nb.SetInput(0, "a = 10"))
	nb.InsertAfter(1)
	require.True(t, nb.SetInput(2, "b * 2"))
	require.NoError(t, first.Close(ctx))

	second, err := session.Open(ctx, session.Options{
		Bridge: filebridge.New(path),
		Engine: mathengine.New(),
		Seed:   []string{"unused"},
	})
	require.NoError(t, err)
	defer second.Close(ctx)

	// --- Assert ---
	lines := second.Notebook().Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "a = 10", lines[0].Input)
	assert.Equal(t, "11", lines[1].Result)
	assert.Equal(t, "22", lines[2].Result)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "input: a = 10")
}

// TestPersistence_SeedIsNotWrittenUntilEdited checks that opening a fresh
// store leaves no file behind.
func TestPersistence_SeedIsNotWrittenUntilEdited(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.yaml")

	s, err := session.Open(ctx, session.Options{Bridge: filebridge.New(path)})
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
