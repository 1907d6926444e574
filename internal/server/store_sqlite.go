package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

// SQLiteStore backs both the session snapshot and login tokens with the
// local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (hunt.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE key = ?
	`, snapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return hunt.Session{}, ErrNotFound
	}
	if err != nil {
		return hunt.Session{}, err
	}

	var sess hunt.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return hunt.Session{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sess hunt.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, snapshotKey, string(data))
	return err
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, snapshotKey)
	return err
}

func (s *SQLiteStore) Create(ctx context.Context, teamID, role string) (string, error) {
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, team_id, role) VALUES (?, ?, ?)
	`, token, teamID, role)
	return token, err
}

func (s *SQLiteStore) Get(ctx context.Context, token string) (authSession, error) {
	var sess authSession
	err := s.db.QueryRowContext(ctx, `
		SELECT token, team_id, role FROM sessions WHERE token = ?
	`, token).Scan(&sess.Token, &sess.TeamID, &sess.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return authSession{}, ErrNotFound
	}
	return sess, err
}

func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}
