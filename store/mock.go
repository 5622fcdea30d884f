package store

import (
	"sync"

	tmdb "github.com/tendermint/tm-db"
	"github.com/tendermint/tm-db/memdb"
)

// MemStore is an in-memory DB for tests, backed by tm-db's memdb so it
// exercises the same tmdb.DB contract KVStore does without touching
// disk, mirroring the teacher's MockStore seam.
type MemStore struct {
	mtx sync.RWMutex
	db  tmdb.DB
}

func NewMemStore() *MemStore {
	return &MemStore{db: memdb.NewDB()}
}

func (m *MemStore) Get(prefix byte, key []byte) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.db.Get(namespacedKey(prefix, key))
}

func (m *MemStore) PutSync(prefix byte, key []byte, value []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.db.SetSync(namespacedKey(prefix, key), value)
}

func (m *MemStore) Close() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.db.Close()
}
