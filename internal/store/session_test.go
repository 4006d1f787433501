package store

import (
	"testing"
	"time"

	"github.com/dukerupert/choreboard/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreate(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, err := us.Create("Alice", "hash", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl < SessionTTL-time.Minute || ttl > SessionTTL {
		t.Errorf("expires in %v, want about %v", ttl, SessionTTL)
	}
}

func TestSessionGetByToken(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Alice", "hash", "")
	created, _ := ss.Create(u.ID)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.ID != created.ID {
		t.Errorf("id = %d, want %d", sess.ID, created.ID)
	}
}

func TestSessionGetByTokenNotFound(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	sess, err := ss.GetByToken("nonexistent")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for nonexistent token")
	}
}

func TestSessionExpired(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Alice", "hash", "")
	created, _ := ss.Create(u.ID)

	later := created.ExpiresAt.Add(time.Second)
	ss.now = func() time.Time { return later }

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for expired session")
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
}

func TestSessionStoresOnlyTokenHash(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Alice", "hash", "")
	created, _ := ss.Create(u.ID)

	var stored string
	if err := ss.db.QueryRow(`SELECT token_hash FROM sessions WHERE id = ?`, created.ID).Scan(&stored); err != nil {
		t.Fatalf("read token hash: %v", err)
	}
	if stored == created.Token {
		t.Error("plaintext token written to the database")
	}
	if stored != hashToken(created.Token) {
		t.Errorf("stored %q, want sha256 of token", stored)
	}
}

func TestSessionDeleteByToken(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Alice", "hash", "")
	created, _ := ss.Create(u.ID)

	if err := ss.DeleteByToken(created.Token); err != nil {
		t.Fatalf("delete by token: %v", err)
	}
	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if sess != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionCascadesOnUserDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Alice", "hash", "")
	created, _ := ss.Create(u.ID)

	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get after user delete: %v", err)
	}
	if sess != nil {
		t.Error("expected session to be removed with its user")
	}
}
