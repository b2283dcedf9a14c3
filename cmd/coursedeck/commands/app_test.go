package commands

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/store"
)

// setTestEnv points the app at a temp state dir and the given gateway URL,
// and returns the state dir. Commands built afterwards run fully isolated:
// no config file, no shared token store. Tests using it cannot be parallel.
func setTestEnv(t *testing.T, gatewayURL string) string {
	t.Helper()

	stateDir := t.TempDir()
	t.Setenv("COURSEDECK_STATE_DIR", stateDir)
	t.Setenv("COURSEDECK_CONFIG", filepath.Join(stateDir, "no-config.yaml"))
	t.Setenv("COURSEDECK_GATEWAY_URL", gatewayURL)
	t.Setenv("COURSEDECK_CALLBACK_ADDR", "127.0.0.1:0")
	return stateDir
}

// mintToken builds a compact HS256-signed session token the way the gateway
// issues them.
func mintToken(t *testing.T, name string, role models.Role) string {
	t.Helper()

	tok, err := jwt.NewBuilder().
		Claim("id", "u-100").
		Claim("name", name).
		Claim("email", "user@example.com").
		Claim("role", string(role)).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(24 * time.Hour)).
		Build()
	if err != nil {
		t.Fatalf("building token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("test-key")))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return string(signed)
}

// seedSession writes a token into the state dir's store, as if a previous
// run had logged in. The store is closed again so the command under test can
// open it.
func seedSession(t *testing.T, stateDir, token string) {
	t.Helper()

	s, err := store.Open(filepath.Join(stateDir, "session.db"))
	if err != nil {
		t.Fatalf("opening token store: %v", err)
	}
	if err := s.Set(token); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing token store: %v", err)
	}
}

// syncBuffer is a bytes.Buffer safe to read while a command writes to it
// from another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
