// fork from chainbft_demo/store/mock.go
package ledger

import (
	"sync"

	"github.com/pkg/errors"
	cfg "github.com/tendermint/tendermint/config"

	"dbftcore/mempool"
	"dbftcore/types"
)

// MockChain is an in-memory Blockchain used by dbft's and ledger's
// tests. It never mutates state on
// its own; tests advance it explicitly via Commit. Its mempool is a real
// mempool.ListMempool rather than a bespoke fake, so MakePrepareRequest's
// GetSortedVerifiedTransactions call exercises the same dedup-cache,
// clist-backed pool a running node would.
type MockChain struct {
	mtx sync.Mutex

	height     uint32
	headers    map[string]*types.Header
	currentHdr *types.Header

	validators     *types.ValidatorSet
	nextValidators *types.ValidatorSet

	mempool *mempool.ListMempool
}

// NewMockChain seeds a chain at height 0 with genesis, whose validator
// set is used for both height 0 and height 1 until changed.
func NewMockChain(genesis *types.Header, validators *types.ValidatorSet) *MockChain {
	c := &MockChain{
		headers:        make(map[string]*types.Header),
		currentHdr:     genesis,
		validators:     validators,
		nextValidators: validators,
		mempool:        mempool.NewListMempool(&cfg.MempoolConfig{}, int64(genesis.Index)),
	}
	c.headers[genesis.Hash().String()] = genesis
	return c
}

func (c *MockChain) MemPool() MemPool { return c.mempool }

// AddTx submits a transaction to the underlying mempool, the way a
// reactor's CheckTx entry point would, so tests can populate
// MakePrepareRequest's transaction pool.
func (c *MockChain) AddTx(data []byte) error {
	return c.mempool.CheckTx(data, mempool.TxInfo{})
}

func (c *MockChain) Snapshot() (Snapshot, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return &mockSnapshot{
		height:         c.height,
		current:        c.currentHdr,
		validators:     c.validators.Copy(),
		nextValidators: c.nextValidators.Copy(),
		headers:        c.headers,
	}, nil
}

// Commit advances the mock chain by one block, the way a real ledger
// would after a Context's CreateBlock result is executed and persisted.
func (c *MockChain) Commit(header *types.Header, nextValidators *types.ValidatorSet) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.height = header.Index
	c.currentHdr = header
	c.headers[header.Hash().String()] = header
	c.validators = c.nextValidators
	if nextValidators != nil {
		c.nextValidators = nextValidators
	}
}

type mockSnapshot struct {
	height         uint32
	current        *types.Header
	validators     *types.ValidatorSet
	nextValidators *types.ValidatorSet
	headers        map[string]*types.Header
}

func (s *mockSnapshot) Height() uint32                    { return s.height }
func (s *mockSnapshot) CurrentBlockHash() types.Hash256    { return s.current.Hash() }
func (s *mockSnapshot) Validators() *types.ValidatorSet     { return s.validators }
func (s *mockSnapshot) NextBlockValidators() *types.ValidatorSet { return s.nextValidators }
func (s *mockSnapshot) Release()                          {}

func (s *mockSnapshot) GetHeader(hash types.Hash256) (*types.Header, error) {
	if s.current.Hash().String() == hash.String() {
		return s.current, nil
	}
	if h, ok := s.headers[hash.String()]; ok {
		return h, nil
	}
	return nil, errors.New("ledger: header not found")
}

func (s *mockSnapshot) ConsensusAddress(vals *types.ValidatorSet) types.Address {
	return types.Address(vals.Hash()[:20])
}
