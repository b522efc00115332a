package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "state.json"))
	require.NoError(t, err)
	return s
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, domainauth.TokenKey)
	require.ErrorIs(t, err, ports.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, domainauth.TokenKey, "Bearer xyz"))
	require.NoError(t, s.Set(ctx, domainauth.LanguageKey, "de"))

	got, err := s.Get(ctx, domainauth.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "Bearer xyz", got)

	require.NoError(t, s.Delete(ctx, domainauth.TokenKey))
	_, err = s.Get(ctx, domainauth.TokenKey)
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	lang, err := s.Get(ctx, domainauth.LanguageKey)
	require.NoError(t, err)
	assert.Equal(t, "de", lang)
}

func TestStore_SurvivesReopen(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Set(context.Background(), domainauth.DarkModeKey, "true"))

	reopened, err := New(s.Path())
	require.NoError(t, err)
	got, err := reopened.Get(context.Background(), domainauth.DarkModeKey)
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_DeleteMissing(t *testing.T) {
	s := newStore(t)

	assert.ErrorIs(t, s.Delete(context.Background(), domainauth.TokenKey), ports.ErrKeyNotFound)
}

func TestStore_CorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.Get(context.Background(), domainauth.TokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrKeyNotFound)
}
