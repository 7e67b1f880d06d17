// Package snapshot persists the last known data model between runs and
// decides whether a freshly fetched model is new.
//
// A [Store] holds exactly one [Record]. Four backends exist:
//
//   - [FileStore]: a JSON file in the working directory (default cache.json)
//   - [RedisStore]: a single Redis key, for hosts without a stable disk
//   - [MongoStore]: a single MongoDB document, upserted on every save
//   - [NullStore]: never remembers anything, so every run is a first run
//
// [Detector] ties a store to the change decision.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

var (
	// ErrNotFound is returned by Store.Load when nothing has been saved yet.
	ErrNotFound = errors.New("snapshot not found")

	// ErrCorrupt marks a stored record that cannot be decoded.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// FormatVersion is the envelope version written by Encode.
const FormatVersion = 1

// Store persists a single snapshot.
type Store interface {
	// Load returns the stored record, or ErrNotFound on first run.
	// A record that exists but cannot be decoded yields an error
	// matching ErrCorrupt.
	Load(ctx context.Context) (*Record, error)
	// Save replaces the stored record.
	Save(ctx context.Context, s datamodel.Snapshot) error
	// Clear removes the stored record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Location describes where the record lives, for messages.
	Location() string
	Close() error
}

// Record is a stored snapshot plus its envelope metadata.
type Record struct {
	datamodel.Snapshot
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
}

// Digest returns a SHA-256 of the snapshot content, independent of SavedAt.
func (r *Record) Digest() string {
	data, _ := json.Marshal(r.Snapshot)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Encode wraps s in a versioned envelope stamped with now.
func Encode(s datamodel.Snapshot, now time.Time) ([]byte, error) {
	rec := Record{Snapshot: normalize(s), Version: FormatVersion, SavedAt: now.UTC()}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSnapshot, err, "encode snapshot")
	}
	return data, nil
}

// Decode parses an envelope written by Encode.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeSnapshot, errors.Join(ErrCorrupt, err), "decode snapshot")
	}
	if rec.Version != FormatVersion {
		return nil, errs.Wrap(errs.ErrCodeSnapshot, ErrCorrupt, "unsupported snapshot version %d", rec.Version)
	}
	rec.Snapshot = normalize(rec.Snapshot)
	return &rec, nil
}

func normalize(s datamodel.Snapshot) datamodel.Snapshot {
	if s.Objects == nil {
		s.Objects = []string{}
	}
	if s.Facts == nil {
		s.Facts = []datamodel.FactBinding{}
	}
	return s
}
