package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

// Manager owns the single session aggregate. All reads and mutations go
// through it: mutations are serialized by the mutex and persisted wholesale
// before they return, so the snapshot on disk always matches memory.
type Manager struct {
	mu      sync.Mutex
	store   SnapshotStore
	engine  *hunt.Engine
	catalog hunt.Catalog
	sess    hunt.Session
	logger  *slog.Logger
}

// NewManager loads the persisted snapshot, or on first run expands the
// catalog into a fresh session and persists it.
func NewManager(ctx context.Context, store SnapshotStore, engine *hunt.Engine, catalog hunt.Catalog, logger *slog.Logger) (*Manager, error) {
	m := &Manager{
		store:   store,
		engine:  engine,
		catalog: catalog,
		logger:  logger,
	}

	sess, err := store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		sess = hunt.NewSession(catalog)
		if err := store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("saving initial session: %w", err)
		}
		logger.Info("initialized new game session",
			"teams", len(sess.Teams),
			"clues", len(sess.Clues),
		)
	} else if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	m.sess = sess
	return m, nil
}

func (m *Manager) Engine() *hunt.Engine { return m.engine }

// View runs fn with read access to the session.
func (m *Manager) View(fn func(s *hunt.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.sess)
}

// Update runs fn against the session and persists the result. When fn
// returns an error nothing is persisted, so fn must leave the session
// unchanged on failure.
func (m *Manager) Update(ctx context.Context, fn func(s *hunt.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fn(&m.sess); err != nil {
		return err
	}
	if err := m.store.Save(ctx, m.sess); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// Reset discards all progress: the snapshot is erased and the session is
// rebuilt from the catalog.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Reset(ctx); err != nil {
		return fmt.Errorf("erasing snapshot: %w", err)
	}
	m.sess = hunt.NewSession(m.catalog)
	if err := m.store.Save(ctx, m.sess); err != nil {
		return fmt.Errorf("saving fresh session: %w", err)
	}
	m.logger.Info("game reset to initial state")
	return nil
}
