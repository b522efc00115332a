package service

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	mockauth "github.com/gpse/sesam-client/internal/mocks/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_DarkMode(t *testing.T) {
	tests := []struct {
		name string
		seed map[string]string
		want bool
	}{
		{name: "unset", seed: nil, want: false},
		{name: "true", seed: map[string]string{domainauth.DarkModeKey: "true"}, want: true},
		{name: "false", seed: map[string]string{domainauth.DarkModeKey: "false"}, want: false},
		{name: "only literal true enables", seed: map[string]string{domainauth.DarkModeKey: "TRUE"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := NewPreferences(mockauth.NewMemoryStore(tt.seed))
			got, err := prefs.DarkMode(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreferences_SetDarkMode(t *testing.T) {
	store := mockauth.NewMemoryStore(nil)
	prefs := NewPreferences(store)

	require.NoError(t, prefs.SetDarkMode(context.Background(), true))
	v, ok := store.Lookup(domainauth.DarkModeKey)
	require.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, prefs.SetDarkMode(context.Background(), false))
	v, _ = store.Lookup(domainauth.DarkModeKey)
	assert.Equal(t, "false", v)
}

func TestPreferences_Language(t *testing.T) {
	ctx := context.Background()
	store := mockauth.NewMemoryStore(nil)
	prefs := NewPreferences(store)

	lang, err := prefs.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)

	require.NoError(t, prefs.SetLanguage(ctx, " DE "))
	lang, err = prefs.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "de", lang)

	err = prefs.SetLanguage(ctx, "fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)

	require.NoError(t, prefs.SetLanguage(ctx, ""))
	_, ok := store.Lookup(domainauth.LanguageKey)
	assert.False(t, ok)

	// clearing twice is not an error
	require.NoError(t, prefs.SetLanguage(ctx, ""))
}

func TestPreferences_StorageErrors(t *testing.T) {
	boom := errors.New("disk full")
	store := mockauth.NewMemoryStore(nil)
	store.GetErr = boom
	store.SetErr = boom
	prefs := NewPreferences(store)
	ctx := context.Background()

	_, err := prefs.DarkMode(ctx)
	require.ErrorIs(t, err, boom)
	_, err = prefs.Language(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, prefs.SetDarkMode(ctx, true), boom)
	require.ErrorIs(t, prefs.SetLanguage(ctx, "en"), boom)
}
