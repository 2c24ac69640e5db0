// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/0xsoniclabs/ballot/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const (
	ErrNotFound       = common.ConstError("not found")
	ErrUnknownBackend = common.ConstError("unknown store backend")
)

// Store is a minimal key-value store used to persist ledger data.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	Memory  Backend = "memory"
	LevelDb Backend = "leveldb"
	Sqlite  Backend = "sqlite"
)

// Open creates a store of the given backend kind in the given path. The path
// is ignored for in-memory stores.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case Memory, "":
		return NewMemory(), nil
	case LevelDb:
		return NewLevelDb(path)
	case Sqlite:
		return NewSqlite(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// levelDbStore is a Store implementation using LevelDB.
type levelDbStore struct {
	db *leveldb.DB
}

func NewLevelDb(path string) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb in %s: %w", path, err)
	}
	return &levelDbStore{db: db}, nil
}

func (s *levelDbStore) Get(key []byte) ([]byte, error) {
	data, err := s.db.Get(key, &opt.ReadOptions{})
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *levelDbStore) Set(key []byte, value []byte) error {
	return s.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

func (s *levelDbStore) Close() error {
	return s.db.Close()
}

// memoryStore is an in-memory implementation of Store, mainly for tests and
// transient ledgers.
type memoryStore struct {
	store map[string][]byte
	mu    sync.Mutex
}

func NewMemory() Store {
	return &memoryStore{store: make(map[string][]byte)}
}

func (s *memoryStore) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.store[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

func (s *memoryStore) Set(key []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[string(key)] = bytes.Clone(value)
	return nil
}

func (s *memoryStore) Close() error {
	// No resources to clean up for in-memory store.
	return nil
}
