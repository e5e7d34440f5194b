/*
Package storage provides the durable key-value store backing the
pending-batch queue. Backends are selected through configuration, BoltDB
being the default.
*/
package storage

import (
	"errors"
	"fmt"

	"github.com/FACINGS/collection-manager/pkg/config"
)

// ErrKeyNotFound is returned when the requested key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Store is the interface the pending queue persists through. A batch
// queue is local to one client, no cross-process locking is provided.
type Store interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Close() error
}

// Backend names accepted in DBConfiguration.Type.
const (
	BoltDB   = "boltdb"
	LevelDB  = "leveldb"
	InMemory = "inmemory"
)

// NewStore creates a storage backend from the given configuration.
func NewStore(cfg config.DBConfiguration) (Store, error) {
	switch cfg.Type {
	case BoltDB:
		return NewBoltDBStore(cfg.Path)
	case LevelDB:
		return NewLevelDBStore(cfg.Path)
	case InMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}
