package store

import (
	"context"
	"fmt"
	"sync"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
)

// ThemeStore holds the appearance and notification settings.
type ThemeStore struct {
	mu       sync.RWMutex
	settings model.Settings
	deps     Deps
}

func NewThemeStore(deps Deps) *ThemeStore {
	return &ThemeStore{deps: deps.withDefaults(), settings: model.DefaultSettings()}
}

func (s *ThemeStore) Load(ctx context.Context) error {
	snap := model.DefaultSettings()
	found, err := s.deps.load(ctx, ThemeStorageKey, &snap)
	if err != nil || !found {
		return err
	}
	if !snap.Theme.Valid() {
		snap.Theme = model.ThemeSystem
	}
	s.mu.Lock()
	s.settings = snap
	s.mu.Unlock()
	return nil
}

func (s *ThemeStore) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *ThemeStore) Set(theme model.Theme) (model.Settings, error) {
	if !theme.Valid() {
		return model.Settings{}, fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.update(func(st *model.Settings) { st.Theme = theme }, fmt.Sprintf("Theme set to %s", theme))
}

func (s *ThemeStore) SetNotifications(enabled bool) (model.Settings, error) {
	return s.update(func(st *model.Settings) { st.NotificationsEnabled = enabled },
		fmt.Sprintf("Notifications enabled=%t", enabled))
}

func (s *ThemeStore) update(apply func(*model.Settings), message string) (model.Settings, error) {
	s.mu.Lock()
	apply(&s.settings)
	updated := s.settings
	s.deps.persist(ThemeStorageKey, updated)
	s.mu.Unlock()

	s.deps.publish(model.EntitySettings, "settings_updated", uuid.Nil, updated, message)
	return updated, nil
}
