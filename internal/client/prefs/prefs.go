// Package prefs is the typed preference store of the client.
//
// Callers never touch raw storage: every logical key has a getter that falls
// back to its default and a setter that never fails the caller. Unreadable
// values are reset to the default and logged.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/cfhelper/internal/client/storage"
	"github.com/iudanet/cfhelper/internal/client/storage/snapshot"
	"github.com/iudanet/cfhelper/internal/models"
)

// Store provides typed access to persisted preferences
type Store struct {
	storage storage.Storage
	logger  *slog.Logger

	// mu сериализует read-modify-write операций над списками
	mu sync.Mutex
}

// New creates a preference store over raw storage
func New(s storage.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: s,
		logger:  logger,
	}
}

// DarkMode returns the persisted theme flag (default false)
func (s *Store) DarkMode(ctx context.Context) bool {
	return load(ctx, s, storage.KeyDarkMode, false)
}

// SetDarkMode persists the theme flag
func (s *Store) SetDarkMode(ctx context.Context, enabled bool) {
	s.persist(ctx, storage.KeyDarkMode, enabled)
}

// Visibility returns persisted visibility flags (default: everything shown)
func (s *Store) Visibility(ctx context.Context) models.VisibilityPrefs {
	return load(ctx, s, storage.KeyVisibility, models.DefaultVisibilityPrefs())
}

// SetVisibility persists visibility flags
func (s *Store) SetVisibility(ctx context.Context, v models.VisibilityPrefs) {
	s.persist(ctx, storage.KeyVisibility, v)
}

// Favorites returns favorite problem IDs in insertion order
func (s *Store) Favorites(ctx context.Context) []string {
	return s.loadList(ctx, storage.KeyFavorites)
}

// Solved returns solved problem IDs in insertion order
func (s *Store) Solved(ctx context.Context) []string {
	return s.loadList(ctx, storage.KeySolved)
}

// SaveFavorites replaces the favorites list and reports write errors
func (s *Store) SaveFavorites(ctx context.Context, ids []string) error {
	return s.save(ctx, storage.KeyFavorites, dedupe(ids))
}

// SaveSolved replaces the solved list and reports write errors
func (s *Store) SaveSolved(ctx context.Context, ids []string) error {
	return s.save(ctx, storage.KeySolved, dedupe(ids))
}

// ToggleFavorite flips membership of id in the favorites set.
// Returns whether id is a favorite after the call.
func (s *Store) ToggleFavorite(ctx context.Context, id string) bool {
	return s.toggle(ctx, storage.KeyFavorites, id)
}

// ToggleSolved flips membership of id in the solved set.
// Returns whether id is solved after the call.
func (s *Store) ToggleSolved(ctx context.Context, id string) bool {
	return s.toggle(ctx, storage.KeySolved, id)
}

// MarkSolved adds ids to the solved set, keeping existing order.
// Returns how many ids were new.
func (s *Store) MarkSolved(ctx context.Context, ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.loadList(ctx, storage.KeySolved)
	seen := make(map[string]struct{}, len(current))
	for _, id := range current {
		seen[id] = struct{}{}
	}

	added := 0
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		current = append(current, id)
		added++
	}

	if added > 0 {
		s.persist(ctx, storage.KeySolved, current)
	}
	return added
}

// CurrentUser returns the stored profile, if any
func (s *Store) CurrentUser(ctx context.Context) (*models.UserProfile, bool) {
	profile := load[*models.UserProfile](ctx, s, storage.KeyCurrentUser, nil)
	if profile == nil || profile.Handle == "" {
		return nil, false
	}
	return profile, true
}

// SetCurrentUser replaces the stored profile
func (s *Store) SetCurrentUser(ctx context.Context, profile *models.UserProfile) {
	if profile == nil {
		s.ClearCurrentUser(ctx)
		return
	}
	s.persist(ctx, storage.KeyCurrentUser, profile)
}

// ClearCurrentUser removes the stored profile (logout)
func (s *Store) ClearCurrentUser(ctx context.Context) {
	s.remove(ctx, storage.KeyCurrentUser)
}

// LoadBackup returns the durable catalog snapshot, if a readable one exists.
// An unreadable snapshot is removed.
func (s *Store) LoadBackup(ctx context.Context) (*models.CachedCatalog, bool) {
	data, err := s.storage.Get(ctx, storage.KeyProblemsCache)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to read catalog backup", "error", err)
		}
		return nil, false
	}

	catalog, err := snapshot.Decode(data)
	if err != nil {
		s.logger.Warn("Catalog backup is corrupt, discarding", "error", err)
		s.remove(ctx, storage.KeyProblemsCache)
		return nil, false
	}

	return catalog, true
}

// SaveBackup writes the durable catalog snapshot
func (s *Store) SaveBackup(ctx context.Context, catalog *models.CachedCatalog) error {
	data, err := snapshot.Encode(catalog)
	if err != nil {
		return err
	}
	if err := s.storage.Put(ctx, storage.KeyProblemsCache, data); err != nil {
		return fmt.Errorf("failed to save catalog backup: %w", err)
	}
	return nil
}

// BackupSavedAt reports when the catalog backup was written. Engines that
// record write times answer without decoding the snapshot; otherwise the
// snapshot's fetch time is used.
func (s *Store) BackupSavedAt(ctx context.Context) (time.Time, bool) {
	if ts, ok := s.storage.(storage.Timestamped); ok {
		at, err := ts.UpdatedAt(ctx, storage.KeyProblemsCache)
		switch {
		case err == nil:
			return at, true
		case errors.Is(err, storage.ErrNotFound):
			return time.Time{}, false
		default:
			s.logger.Warn("Failed to read catalog backup time", "error", err)
		}
	}

	backup, ok := s.LoadBackup(ctx)
	if !ok {
		return time.Time{}, false
	}
	return backup.FetchedAt, true
}

// ClearBackup removes the durable catalog snapshot
func (s *Store) ClearBackup(ctx context.Context) error {
	if err := s.storage.Delete(ctx, storage.KeyProblemsCache); err != nil {
		return fmt.Errorf("failed to clear catalog backup: %w", err)
	}
	return nil
}

// toggle переключает принадлежность id списку под ключом key
func (s *Store) toggle(ctx context.Context, key storage.Key, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.loadList(ctx, key)
	member := false
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
		member = true
	}

	s.persist(ctx, key, ids)
	return member
}

// loadList читает упорядоченный список ID без дубликатов
func (s *Store) loadList(ctx context.Context, key storage.Key) []string {
	return dedupe(load(ctx, s, key, []string{}))
}

// load читает и декодирует значение, при любой ошибке возвращает def.
// Нечитаемое значение удаляется, чтобы следующее чтение получило значение по умолчанию.
func load[T any](ctx context.Context, s *Store, key storage.Key, def T) T {
	data, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to read preference, using default", "key", key, "error", err)
		}
		return def
	}

	// null и отсутствующие поля оставляют значения по умолчанию
	value := def
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("Preference is corrupt, resetting to default", "key", key, "error", err)
		s.remove(ctx, key)
		return def
	}

	return value
}

// save кодирует и записывает значение
func (s *Store) save(ctx context.Context, key storage.Key, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.storage.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// persist записывает значение; ошибка записи только логируется
func (s *Store) persist(ctx context.Context, key storage.Key, value any) {
	if err := s.save(ctx, key, value); err != nil {
		s.logger.Error("Failed to persist preference", "key", key, "error", err)
	}
}

// remove удаляет ключ; ошибка только логируется
func (s *Store) remove(ctx context.Context, key storage.Key) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to remove preference", "key", key, "error", err)
	}
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
