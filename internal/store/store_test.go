package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *TokenStore {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestSetGetClear(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	if _, ok := s.Get(); ok {
		t.Error("Expected empty store to report absence")
	}

	if err := s.Set("tok-one"); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}
	got, ok := s.Get()
	if !ok || got != "tok-one" {
		t.Errorf("Expected ('tok-one', true), got ('%s', %v)", got, ok)
	}

	// Last write wins.
	if err := s.Set("tok-two"); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}
	got, _ = s.Get()
	if got != "tok-two" {
		t.Errorf("Expected 'tok-two' after overwrite, got '%s'", got)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if _, ok := s.Get(); ok {
		t.Error("Expected absence after Clear()")
	}
}

func TestClearIdempotent(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear() #%d returned error: %v", i+1, err)
		}
	}
	if _, ok := s.Get(); ok {
		t.Error("Expected store to remain empty")
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if err := s.Set("persisted"); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer func() {
		if err := s2.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	}()

	got, ok := s2.Get()
	if !ok || got != "persisted" {
		t.Errorf("Expected token to survive reopen, got ('%s', %v)", got, ok)
	}
}
