// Package store defines the byte-keyed entity store every component
// persists through, plus the key scheme and scalar helpers shared by the
// repositories.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNotFound indicates a requested key is missing.
var ErrNotFound = errors.New("key not found")

// Store is the persistent key-value collaborator. Keys are opaque UTF-8
// strings; one logical record per key. Operations are atomic per call.
type Store interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetCounter reads a uint64 counter, returning zero when the key is
// missing.
func GetCounter(ctx context.Context, s Store, key string) (uint64, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("counter %s: malformed value of %d bytes", key, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// SetCounter writes a uint64 counter.
func SetCounter(ctx context.Context, s Store, key string, v uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, v)
	return s.Set(ctx, key, raw)
}

// IncrementCounter bumps a counter and returns the new value.
func IncrementCounter(ctx context.Context, s Store, key string) (uint64, error) {
	v, err := GetCounter(ctx, s, key)
	if err != nil {
		return 0, err
	}
	v++
	if err := SetCounter(ctx, s, key, v); err != nil {
		return 0, err
	}
	return v, nil
}

// GetFlag reads a boolean flag, returning false when the key is missing.
func GetFlag(ctx context.Context, s Store, key string) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(raw) == 1 && raw[0] == 1, nil
}

// SetFlag writes a boolean flag.
func SetFlag(ctx context.Context, s Store, key string, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return s.Set(ctx, key, []byte{b})
}
