// fork from chainbft_demo/store/kv_store.go
//
// Package store is the crash-durable key/value collaborator the codec's
// checkpoint load/save (§4.6, §6) is written against. The teacher used
// this file's KVStore to apply SmallBank application transactions to a
// LevelDB-backed ledger; that application logic is out of scope here
// (§1 Non-goals: no ledger/state-machine execution), so only the
// underlying tm-db wiring survives, repurposed as a flat namespaced
// byte store.
package store

import (
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"
	leveldb "github.com/tendermint/tm-db/goleveldb"
)

// DB is the narrow persistence contract the checkpoint file needs: a
// namespaced get/put over durable storage. prefix separates callers
// sharing one physical database (e.g. the checkpoint's fixed key
// alongside a node's other state) the way the teacher's table constants
// separated SmallBank's account/saving/checking rows.
type DB interface {
	// Get looks up key within prefix. Returns (nil, nil) if absent.
	Get(prefix byte, key []byte) ([]byte, error)
	// PutSync writes key within prefix and fsyncs before returning, the
	// durability Context.Save requires (§4.6).
	PutSync(prefix byte, key []byte, value []byte) error
	// Close releases the underlying database handle.
	Close() error
}

// KVStore is a DB backed by tm-db's goleveldb engine, the same engine
// and construction path chainbft_demo/store.NewKVStore used.
type KVStore struct {
	db     tmdb.DB
	logger log.Logger
}

// NewKVStore opens (or creates) a goleveldb database named name under
// dir.
func NewKVStore(name, dir string, logger log.Logger) (*KVStore, error) {
	db, err := leveldb.NewDB(name, dir)
	if err != nil {
		return nil, err
	}
	return NewKVStoreWithDB(db, logger), nil
}

// NewKVStoreWithDB wraps an already-open tm-db database, mirroring the
// teacher's NewKVStoreWithDB seam used by tests to inject a memdb.
func NewKVStoreWithDB(db tmdb.DB, logger log.Logger) *KVStore {
	return &KVStore{db: db, logger: logger}
}

func (kv *KVStore) Get(prefix byte, key []byte) ([]byte, error) {
	return kv.db.Get(namespacedKey(prefix, key))
}

func (kv *KVStore) PutSync(prefix byte, key []byte, value []byte) error {
	return kv.db.SetSync(namespacedKey(prefix, key), value)
}

func (kv *KVStore) Close() error {
	return kv.db.Close()
}

// GetDB exposes the underlying tm-db handle, e.g. for a caller that
// wants to open its own batch alongside the checkpoint's writes.
func (kv *KVStore) GetDB() tmdb.DB { return kv.db }

func namespacedKey(prefix byte, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = prefix
	copy(out[1:], key)
	return out
}
