package server

import (
	"context"
	"errors"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

var ErrNotFound = errors.New("not found")

// snapshotKey is the fixed key the whole session is persisted under.
const snapshotKey = "ignite_treasure_hunt_v1"

// SnapshotStore reads and writes the complete session as one atomic value.
// Load returns ErrNotFound on first run.
type SnapshotStore interface {
	Load(ctx context.Context) (hunt.Session, error)
	Save(ctx context.Context, s hunt.Session) error
	Reset(ctx context.Context) error
}

type authSession struct {
	Token  string
	TeamID string
	Role   string
}

const (
	roleTeam  = "team"
	roleAdmin = "admin"
)

// SessionStore issues and resolves opaque login tokens.
type SessionStore interface {
	Create(ctx context.Context, teamID, role string) (string, error)
	Get(ctx context.Context, token string) (authSession, error)
	Delete(ctx context.Context, token string) error
	DeleteAll(ctx context.Context) error
}
