package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Json604/labubu-ecom/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token())

	user := &domain.User{ID: "u1", Name: "A", Email: "a@example.com"}
	require.NoError(t, store.Save("tok-123", user))

	// A fresh store reading the same file sees the credential.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", reopened.Token())
	require.NotNil(t, reopened.User())
	assert.Equal(t, "a@example.com", reopened.User().Email)
}

func TestFileStore_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("tok-123", nil))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Clearing again is not an error.
	assert.NoError(t, store.Clear())
}

func TestFileStore_CorruptFileReadsAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestMemStore_RoundTrip(t *testing.T) {
	store := NewMemStore()
	assert.Empty(t, store.Token())

	require.NoError(t, store.Save("tok", &domain.User{ID: "u1"}))
	assert.Equal(t, "tok", store.Token())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}
