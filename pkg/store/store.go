// Package store persists the single snapshot carried from one run to the next.
package store

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/srodi/cgstats/pkg/types"
)

// ErrNoSnapshot means no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Store loads and replaces the persisted snapshot.
type Store interface {
	Load(ctx context.Context) (*types.Snapshot, error)
	Save(ctx context.Context, snap *types.Snapshot) error
}

// SaveError reports a snapshot that could not be written to its location.
type SaveError struct {
	Location string
	Err      error
}

func (e *SaveError) Error() string { return fmt.Sprintf("saving snapshot to %s: %v", e.Location, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// Encode serializes snap as YAML.
func Encode(snap *types.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a YAML snapshot and rejects documents without a timestamp.
func Decode(data []byte) (*types.Snapshot, error) {
	var snap types.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.CapturedAt.IsZero() {
		return nil, errors.New("decoding snapshot: missing time")
	}
	if snap.User == nil {
		snap.User = make(map[string]types.UsageCounter)
	}
	if snap.System == nil {
		snap.System = make(map[string]types.UsageCounter)
	}
	return &snap, nil
}
