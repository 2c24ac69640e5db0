// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"errors"
	"fmt"

	"github.com/0xsoniclabs/ballot/database/store"
	"github.com/golang/snappy"
)

// snapshotKey is the store key under which the ledger state is kept.
var snapshotKey = []byte("ledger/snapshot")

// saveSnapshot writes the given snapshot as a single, snappy compressed
// entry such that a store always holds a complete state.
func saveSnapshot(s store.Store, snapshot *snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode ledger snapshot: %w", err)
	}
	if err := s.Set(snapshotKey, snappy.Encode(nil, data)); err != nil {
		return fmt.Errorf("failed to write ledger snapshot: %w", err)
	}
	return nil
}

// loadSnapshot reads the snapshot stored in s. If there is none, nil is
// returned without error.
func loadSnapshot(s store.Store) (*snapshot, error) {
	compressed, err := s.Get(snapshotKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return decodeSnapshot(data)
}
