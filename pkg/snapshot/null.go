package snapshot

import (
	"context"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
)

// NullStore never stores anything. Every Load reports a first run.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Load always returns ErrNotFound.
func (NullStore) Load(ctx context.Context) (*Record, error) { return nil, ErrNotFound }

// Save does nothing.
func (NullStore) Save(ctx context.Context, s datamodel.Snapshot) error { return nil }

// Clear does nothing.
func (NullStore) Clear(ctx context.Context) error { return nil }

// Location returns "none".
func (NullStore) Location() string { return "none" }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
