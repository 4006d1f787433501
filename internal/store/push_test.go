package store

import (
	"testing"
	"time"

	"github.com/dukerupert/choreboard/internal/database"
)

func setupPushTestDB(t *testing.T) (*PushStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db), NewUserStore(db)
}

func TestPushSubscribe(t *testing.T) {
	ps, us := setupPushTestDB(t)
	alice, _ := us.Create("Alice", "hash", "")
	bob, _ := us.Create("Bob", "hash", "")

	sub, err := ps.Subscribe(alice.ID, "https://push.example/abc", "p256", "auth", "Kitchen tablet")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if sub.UserID != alice.ID || sub.DeviceName != "Kitchen tablet" {
		t.Errorf("sub = %+v", sub)
	}

	// Same endpoint from another login moves the subscription.
	again, err := ps.Subscribe(bob.ID, "https://push.example/abc", "p256-new", "auth-new", "")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if again.ID != sub.ID {
		t.Errorf("id = %d, want %d", again.ID, sub.ID)
	}
	if again.UserID != bob.ID || again.P256dhKey != "p256-new" {
		t.Errorf("resubscribed = %+v", again)
	}

	subs, err := ps.ListByUser(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("alice subs = %d, want 0", len(subs))
	}

	ids, err := ps.ListUserIDs()
	if err != nil {
		t.Fatalf("list user ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != bob.ID {
		t.Errorf("user ids = %v, want [%d]", ids, bob.ID)
	}
}

func TestPushUnsubscribe(t *testing.T) {
	ps, us := setupPushTestDB(t)
	alice, _ := us.Create("Alice", "hash", "")
	bob, _ := us.Create("Bob", "hash", "")
	ps.Subscribe(alice.ID, "https://push.example/a", "k", "a", "")

	removed, err := ps.Unsubscribe(bob.ID, "https://push.example/a")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if removed {
		t.Error("another user's subscription was removed")
	}

	removed, err = ps.Unsubscribe(alice.ID, "https://push.example/a")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if !removed {
		t.Error("expected subscription to be removed")
	}
	if sub, _ := ps.GetByEndpoint("https://push.example/a"); sub != nil {
		t.Errorf("subscription still present: %+v", sub)
	}
}

func TestPushSubscriptionsDeletedWithUser(t *testing.T) {
	ps, us := setupPushTestDB(t)
	alice, _ := us.Create("Alice", "hash", "")
	ps.Subscribe(alice.ID, "https://push.example/a", "k", "a", "")

	if err := us.Delete(alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if sub, _ := ps.GetByEndpoint("https://push.example/a"); sub != nil {
		t.Error("subscription should cascade with its user")
	}
}

func TestPushMarkSent(t *testing.T) {
	ps, _ := setupPushTestDB(t)

	first, err := ps.MarkSent("chore_due", "1-2026-04-01")
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if !first {
		t.Error("first mark should report new")
	}
	second, _ := ps.MarkSent("chore_due", "1-2026-04-01")
	if second {
		t.Error("second mark should report duplicate")
	}
	other, _ := ps.MarkSent("chore_due", "1-2026-04-02")
	if !other {
		t.Error("different reference should be new")
	}

	n, err := ps.DeleteSentBefore(time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("delete sent: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if again, _ := ps.MarkSent("chore_due", "1-2026-04-01"); !again {
		t.Error("mark after cleanup should report new")
	}
}
