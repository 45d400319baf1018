// Package memstore provides the in-memory global value store used by the host
// emulation layer. Entries are kept in a goleveldb memdb skiplist ordered by the
// canonical key encoding, so iteration order matches key ordering.
package memstore

import (
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
)

// defaultCapacity is the initial memdb arena size in bytes.
const defaultCapacity = 64 * 1024

type storeConfig struct {
	capacity int
	logger   *slog.Logger
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		capacity: defaultCapacity,
		logger:   slog.Default(),
	}
}

// StoreOption configures a Store instance.
type StoreOption func(*storeConfig)

// WithCapacity sets the initial arena capacity in bytes.
func WithCapacity(capacity int) StoreOption {
	return func(c *storeConfig) {
		c.capacity = capacity
	}
}

// WithLogger sets the logger used for debug traces of store mutations.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// Store implements ports.GlobalStore on top of memdb.
type Store struct {
	db     *memdb.DB
	logger *slog.Logger
}

var _ ports.GlobalStore = (*Store)(nil)

// New creates an empty Store.
func New(opts ...StoreOption) *Store {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{
		db:     memdb.New(comparer.DefaultComparer, cfg.capacity),
		logger: cfg.logger,
	}
}

// Read returns the value stored under key.
func (s *Store) Read(key entities.Key) (entities.CLValue, error) {
	raw, err := s.db.Get(storeKey(key))
	if stdErrors.Is(err, memdb.ErrNotFound) {
		return entities.CLValue{}, errors.ErrValueNotFound
	}
	if err != nil {
		return entities.CLValue{}, fmt.Errorf("memstore: read %s: %w", key, err)
	}
	v, err := entities.CLValueFromBytes(raw)
	if err != nil {
		return entities.CLValue{}, &errors.WireFormatError{Err: err, Operation: "decode", Type: "CLValue"}
	}
	return v, nil
}

// Write replaces the value under key.
func (s *Store) Write(key entities.Key, value entities.CLValue) {
	// memdb.Put always returns nil.
	_ = s.db.Put(storeKey(key), value.Bytes())
	s.logger.Debug("memstore: write", "key", key.Normalize().String(), "type", value.Type().String())
}

// Add merges value into the stored value under key.
func (s *Store) Add(key entities.Key, value entities.CLValue) error {
	current, err := s.Read(key)
	if err != nil {
		return err
	}
	merged, err := current.Add(value)
	if err != nil {
		return err
	}
	s.Write(key, merged)
	return nil
}

// Contains reports whether key has an entry.
func (s *Store) Contains(key entities.Key) bool {
	return s.db.Contains(storeKey(key))
}

// Keys returns every stored key in canonical order.
func (s *Store) Keys() []entities.Key {
	it := s.db.NewIterator(nil)
	defer it.Release()

	var keys []entities.Key
	for it.Next() {
		k, err := entities.KeyFromBytes(it.Key())
		if err != nil {
			// Only Store writes keys, so this is unreachable short of memory corruption.
			panic(fmt.Sprintf("memstore: corrupt key %x: %v", it.Key(), err))
		}
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return s.db.Len()
}

// Reset drops every entry.
func (s *Store) Reset() {
	s.db.Reset()
}

func storeKey(key entities.Key) []byte {
	return key.Normalize().Bytes()
}
