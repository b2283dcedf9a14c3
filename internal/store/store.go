// Package store persists the session token between CLI invocations. It is
// the terminal analogue of origin-scoped browser storage: one durable key,
// last write wins, shared by every process pointed at the same state dir.
package store

import (
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	bucketAuth = []byte("auth")
	keyToken   = []byte("token")
)

// TokenStore holds the single bearer token in a bbolt file.
type TokenStore struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the token database at path.
func Open(path string) (*TokenStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening token db: %w", err)
	}
	return &TokenStore{db: db}, nil
}

// Close closes the underlying database.
func (s *TokenStore) Close() error {
	return s.db.Close()
}

// Set overwrites the stored token. Failure leaves the caller logged out on
// the next run, nothing worse, so callers may treat the error as a warning.
func (s *TokenStore) Set(token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketAuth)
		if err != nil {
			return err
		}
		return b.Put(keyToken, []byte(token))
	})
}

// Get returns the stored token and whether one is present. It never fails
// hard: any read problem reports absence.
func (s *TokenStore) Get() (string, bool) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAuth)
		if b == nil {
			return nil
		}
		if v := b.Get(keyToken); v != nil {
			token = string(v)
		}
		return nil
	})
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *TokenStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAuth)
		if b == nil {
			return nil
		}
		return b.Delete(keyToken)
	})
}
