package local_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	"github.com/shopkeeper-dev/storefront-backend/pkg/storage/local"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*local.Store, string) {
	t.Helper()
	root := t.TempDir()
	store, err := local.NewStore(config.StorageConfig{Root: root})
	require.NoError(t, err)
	return store, root
}

func TestPutStoresBlobUnderNamespace(t *testing.T) {
	store, root := newTestStore(t)

	relPath, err := store.Put("images", "photo.PNG", strings.NewReader("pixels"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(relPath, "images/"))
	require.True(t, strings.HasSuffix(relPath, ".png"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	require.NoError(t, err)
	require.Equal(t, "pixels", string(data))
}

func TestPutGeneratesUniqueNames(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Put("images", "photo.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Put("images", "photo.jpg", strings.NewReader("b"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDeleteRemovesBlob(t *testing.T) {
	store, root := newTestStore(t)

	relPath, err := store.Put("images", "photo.jpg", strings.NewReader("pixels"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(relPath))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
	require.True(t, os.IsNotExist(err))
}

func TestDeleteMissingBlobIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Delete("images/does-not-exist.jpg"))
}

func TestExists(t *testing.T) {
	store, _ := newTestStore(t)

	relPath, err := store.Put("images", "photo.jpg", strings.NewReader("pixels"))
	require.NoError(t, err)

	ok, err := store.Exists(relPath)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Exists("images/missing.jpg")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRejectsPathEscape(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Delete("../outside.txt")
	require.Error(t, err)

	_, err = store.Exists("../../etc/passwd")
	require.Error(t, err)
}
