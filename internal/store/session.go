package store

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

// SessionTTL is how long a login stays valid.
const SessionTTL = 7 * 24 * time.Hour

const tokenBytes = 32

// SessionStore persists logins. Only a SHA-256 digest of each token is
// stored, so a leaked database cannot be replayed as cookies.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Create opens a session for userID. The returned Token is the only copy of
// the plaintext.
func (s *SessionStore) Create(userID int64) (*model.Session, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	sess := &model.Session{
		Token:     hex.EncodeToString(raw),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	sess.ExpiresAt = sess.CreatedAt.Add(SessionTTL)

	err := s.db.QueryRow(
		`INSERT INTO sessions (token_hash, user_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		hashToken(sess.Token), userID, sess.ExpiresAt, sess.CreatedAt,
	).Scan(&sess.ID)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetByToken resolves a cookie value to a live session. Unknown and expired
// tokens both yield nil.
func (s *SessionStore) GetByToken(token string) (*model.Session, error) {
	sess := model.Session{Token: token}
	err := s.db.QueryRow(
		`SELECT id, user_id, expires_at, created_at FROM sessions
		 WHERE token_hash = ? AND expires_at > ?`,
		hashToken(token), s.now(),
	).Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	return &sess, nil
}

// DeleteByToken ends the session for token, if any.
func (s *SessionStore) DeleteByToken(token string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token_hash = ?`, hashToken(token)); err != nil {
		return fmt.Errorf("delete session by token: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions past their expiry and reports how many.
func (s *SessionStore) DeleteExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
