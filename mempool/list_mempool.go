// fork from chainbft_demo/mempool/list_mempool.go
package mempool

import (
	"sync"
	"sync/atomic"

	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/clist"
	"github.com/tendermint/tendermint/libs/log"

	"dbftcore/metrics"
	"dbftcore/types"
)

// NewListMempool builds a ListMempool at the given height, matching the
// teacher's constructor signature and functional-option style.
func NewListMempool(config *cfg.MempoolConfig, height int64, options ...ListMempoolOption) *ListMempool {
	mem := &ListMempool{
		height: height,
		config: config,
		txs:    clist.New(),
		cache:  nopTxCache{},
		logger: log.NewNopLogger(),
	}

	for _, option := range options {
		option(mem)
	}

	return mem
}

// ListMempool is a clist-backed pending pool: a doubly linked list plus a
// hash index for O(1) duplicate checks, the shape chainbft_demo used to
// let a reactor stream newly-added transactions.
type ListMempool struct {
	height   int64
	txsBytes int64

	config *cfg.MempoolConfig

	updateMtx sync.RWMutex
	preCheck  PreCheckFunc

	txs    *clist.CList
	txsMap sync.Map

	cache txCache

	logger  log.Logger
	metrics *metrics.Set
}

type ListMempoolOption func(mem *ListMempool)

// SetPreCheck installs an admission hook.
func SetPreCheck(precheck PreCheckFunc) ListMempoolOption {
	return func(mem *ListMempool) { mem.preCheck = precheck }
}

// SetMetrics stores a metrics.Set on the pool. ListMempool registers no
// instruments in it and reports nothing to it; pool size and byte count
// are available through Size and TxsBytes.
func SetMetrics(m *metrics.Set) ListMempoolOption {
	return func(mem *ListMempool) { mem.metrics = m }
}

func (mem *ListMempool) SetLogger(logger log.Logger) {
	mem.logger = logger
}

func (mem *ListMempool) CheckTx(data []byte, info TxInfo) error {
	if mem.preCheck != nil {
		if err := mem.preCheck(data); err != nil {
			return err
		}
	}

	hash := types.SumHash256(data)
	key := txKey(hash)
	if !mem.cache.Push(key) {
		return ErrTxInCache
	}
	if _, loaded := mem.txsMap.Load(key); loaded {
		return ErrTxInMap
	}

	tx := types.NewTransaction(data, hash)
	memTx := &mempoolTx{height: mem.height, tx: tx}
	memTx.senders.Store(info.SenderID, struct{}{})

	mem.logger.Debug("added tx", "hash", hash.String(), "sender", info.SenderID)
	mem.addTx(memTx)
	return nil
}

// GetSortedVerifiedTransactions returns the pool's contents in admission
// order, the order chainbft_demo's ReapTxs walked the clist front-to-back.
func (mem *ListMempool) GetSortedVerifiedTransactions() []*types.Transaction {
	out := make([]*types.Transaction, 0, mem.txs.Len())
	for e := mem.txs.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*mempoolTx).tx)
	}
	return out
}

func (mem *ListMempool) Lock()   { mem.updateMtx.Lock() }
func (mem *ListMempool) Unlock() { mem.updateMtx.Unlock() }

// Update removes committed transactions from the pool after a block
// lands, matching the teacher's Update contract: caller holds Lock.
func (mem *ListMempool) Update(committed []types.Hash256) error {
	committedSet := make(map[[types.HashKeySize]byte]bool, len(committed))
	for _, h := range committed {
		committedSet[txKey(h)] = true
	}

	for e := mem.txs.Front(); e != nil; {
		next := e.Next()
		memTx := e.Value.(*mempoolTx)
		key := txKey(memTx.tx.Hash())
		if committedSet[key] {
			mem.removeTx(e, memTx)
		}
		e = next
	}
	return nil
}

// Flush empties the pool and resets the dedup cache.
func (mem *ListMempool) Flush() {
	mem.updateMtx.Lock()
	defer mem.updateMtx.Unlock()

	for e := mem.txs.Front(); e != nil; e = e.Next() {
		mem.txs.Remove(e)
		e.DetachPrev()
	}
	mem.txsMap = sync.Map{}
	atomic.StoreInt64(&mem.txsBytes, 0)
	mem.cache.Reset()
}

func (mem *ListMempool) Size() int { return mem.txs.Len() }

func (mem *ListMempool) TxsBytes() int64 { return atomic.LoadInt64(&mem.txsBytes) }

func (mem *ListMempool) addTx(memTx *mempoolTx) {
	e := mem.txs.PushBack(memTx)
	mem.txsMap.Store(txKey(memTx.tx.Hash()), e)
	atomic.AddInt64(&mem.txsBytes, memTx.tx.Size())
}

func (mem *ListMempool) removeTx(e *clist.CElement, memTx *mempoolTx) {
	mem.txs.Remove(e)
	e.DetachPrev()
	mem.txsMap.Delete(txKey(memTx.tx.Hash()))
	atomic.AddInt64(&mem.txsBytes, -memTx.tx.Size())
}

// TxsWaitChan fires once a height when the pool transitions from empty to
// non-empty, the same wakeup a Block Assembler poll loop could use.
func (mem *ListMempool) TxsWaitChan() <-chan struct{} {
	return mem.txs.WaitChan()
}

// ------------------------------

type txCache interface {
	Reset()
	Push(key [types.HashKeySize]byte) bool
	Remove(key [types.HashKeySize]byte)
}

type nopTxCache struct{}

func (nopTxCache) Reset()                                 {}
func (nopTxCache) Push(key [types.HashKeySize]byte) bool  { return true }
func (nopTxCache) Remove(key [types.HashKeySize]byte)     {}

type mempoolTx struct {
	height int64
	tx     *types.Transaction

	senders sync.Map
}

func (memTx *mempoolTx) Height() int64 { return atomic.LoadInt64(&memTx.height) }

// txKey turns a hash into a fixed-size array so it can be used as a map
// key, matching the teacher's TxKey helper.
func txKey(hash types.Hash256) [types.HashKeySize]byte {
	var key [types.HashKeySize]byte
	copy(key[:], hash)
	return key
}
