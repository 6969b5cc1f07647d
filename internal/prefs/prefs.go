// Package prefs stores per-client display preferences. The only preference is
// the board theme, light or dark.
package prefs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight

	keyPrefix = "chess-theme:"
)

var ErrInvalidTheme = errors.New("theme must be light or dark")

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", ErrInvalidTheme
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Store persists a theme per client id. Theme returns DefaultTheme for
// clients that never stored one.
type Store interface {
	Theme(ctx context.Context, clientID string) (Theme, error)
	SetTheme(ctx context.Context, clientID string, theme Theme) error
}

// Toggle flips the stored theme and returns the new value
func Toggle(ctx context.Context, s Store, clientID string) (Theme, error) {
	cur, err := s.Theme(ctx, clientID)
	if err != nil {
		return "", err
	}
	next := cur.Toggle()
	if err := s.SetTheme(ctx, clientID, next); err != nil {
		return "", err
	}
	return next, nil
}

func key(clientID string) string {
	return keyPrefix + strings.TrimSpace(clientID)
}

// MemoryStore keeps themes in process; entries expire after ttl when ttl > 0
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	theme   Theme
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Theme(_ context.Context, clientID string) (Theme, error) {
	k := key(clientID)

	m.mu.RLock()
	e, ok := m.entries[k]
	m.mu.RUnlock()

	if !ok {
		return DefaultTheme, nil
	}
	if e.expired(time.Now()) {
		m.mu.Lock()
		if cur, ok := m.entries[k]; ok && cur.expired(time.Now()) {
			delete(m.entries, k)
		}
		m.mu.Unlock()
		return DefaultTheme, nil
	}
	return e.theme, nil
}

// SetTheme also evicts every expired entry
func (m *MemoryStore) SetTheme(_ context.Context, clientID string, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	now := time.Now()
	e := memoryEntry{theme: theme}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, old := range m.entries {
		if old.expired(now) {
			delete(m.entries, k)
		}
	}
	m.entries[key(clientID)] = e
	return nil
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}
