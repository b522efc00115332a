package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/ports"
)

// DefaultLanguage is reported when no language preference has been stored.
const DefaultLanguage = "en"

// ErrUnsupportedLanguage is returned by SetLanguage for locales without translations.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var supportedLanguages = map[string]bool{"en": true, "de": true}

// Preferences reads and writes the UI preferences persisted next to the token.
type Preferences struct {
	store ports.KeyValueStore
}

// NewPreferences returns Preferences backed by store.
func NewPreferences(store ports.KeyValueStore) *Preferences {
	return &Preferences{store: store}
}

// DarkMode reports the stored dark mode flag. Only the literal "true" enables it.
func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	raw, err := p.store.Get(ctx, domainauth.DarkModeKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read dark mode: %w", err)
	}
	return raw == "true", nil
}

// SetDarkMode persists the dark mode flag.
func (p *Preferences) SetDarkMode(ctx context.Context, on bool) error {
	if err := p.store.Set(ctx, domainauth.DarkModeKey, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("store dark mode: %w", err)
	}
	return nil
}

// Language returns the stored UI language or DefaultLanguage.
func (p *Preferences) Language(ctx context.Context) (string, error) {
	raw, err := p.store.Get(ctx, domainauth.LanguageKey)
	if errors.Is(err, ports.ErrKeyNotFound) || (err == nil && strings.TrimSpace(raw) == "") {
		return DefaultLanguage, nil
	}
	if err != nil {
		return "", fmt.Errorf("read language: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

// SetLanguage persists the UI language. An empty value restores the default.
func (p *Preferences) SetLanguage(ctx context.Context, lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang != "" && !supportedLanguages[lang] {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if lang == "" {
		if err := p.store.Delete(ctx, domainauth.LanguageKey); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
			return fmt.Errorf("clear language: %w", err)
		}
		return nil
	}
	if err := p.store.Set(ctx, domainauth.LanguageKey, lang); err != nil {
		return fmt.Errorf("store language: %w", err)
	}
	return nil
}
