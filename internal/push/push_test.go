package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/choreboard/internal/model"
)

func TestGenerateKeys(t *testing.T) {
	pub, priv, err := GenerateKeys()
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}

	pubBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(pub, "="))
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}
	privBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(priv, "="))
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) == 0 || len(privBytes) > 32 {
		t.Errorf("private key length = %d, want at most 32", len(privBytes))
	}

	pub2, _, _ := GenerateKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{PublicKey: "a"}).Enabled() {
		t.Error("config with only a public key should be disabled")
	}
	if !(Config{PublicKey: "a", PrivateKey: "b"}).Enabled() {
		t.Error("config with both keys should be enabled")
	}
}

// browserSubscription builds keys the way a browser would hand them out.
func browserSubscription(t *testing.T, endpoint string) *model.PushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate client key: %v", err)
	}
	secret := make([]byte, 16)
	rand.Read(secret)
	return &model.PushSubscription{
		Endpoint:  endpoint,
		P256dhKey: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		AuthKey:   base64.RawURLEncoding.EncodeToString(secret),
	}
}

func testService(t *testing.T) *Service {
	t.Helper()
	pub, priv, err := GenerateKeys()
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	return NewService(Config{PublicKey: pub, PrivateKey: priv})
}

func TestSend(t *testing.T) {
	var gotAuth, gotEncoding, gotTTL string
	var bodyLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotEncoding = r.Header.Get("Content-Encoding")
		gotTTL = r.Header.Get("TTL")
		body, _ := io.ReadAll(r.Body)
		bodyLen = len(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := testService(t)
	payload := Payload{Title: "Chore reminder", Body: "Due today: Vacuum", Tag: "chore-due"}
	if err := svc.Send(context.Background(), browserSubscription(t, srv.URL+"/push/abc"), payload); err != nil {
		t.Fatalf("send: %v", err)
	}

	if !strings.HasPrefix(gotAuth, "vapid t=") || !strings.Contains(gotAuth, "k=") {
		t.Errorf("Authorization = %q, want a vapid header", gotAuth)
	}
	if gotEncoding != "aes128gcm" {
		t.Errorf("Content-Encoding = %q, want aes128gcm", gotEncoding)
	}
	if gotTTL != "43200" {
		t.Errorf("TTL = %q, want 43200", gotTTL)
	}
	if bodyLen == 0 {
		t.Error("expected an encrypted body")
	}
}

func TestSendStatuses(t *testing.T) {
	tests := []struct {
		status  int
		expired bool
	}{
		{http.StatusGone, true},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := testService(t).Send(context.Background(), browserSubscription(t, srv.URL), Payload{Title: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrExpired); got != tt.expired {
				t.Errorf("errors.Is(err, ErrExpired) = %v, want %v (err %v)", got, tt.expired, err)
			}
		})
	}
}
