package dbft

import (
	"math/rand"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/tendermint/tendermint/libs/log"

	"dbftcore/ledger"
	"dbftcore/metrics"
	"dbftcore/payload"
	"dbftcore/policy"
	"dbftcore/store"
	"dbftcore/types"
	"dbftcore/wallet"
)

// TimeProvider supplies the current wall-clock time, injectable for
// deterministic tests (§6: "Time provider ... injectable for
// determinism in tests"). It replaces chainbft_demo's process-wide
// time.Now() calls sprinkled through consensus/state.go.
type TimeProvider func() uint64

// systemTime is the default TimeProvider, in milliseconds since epoch.
func systemTime() uint64 { return uint64(time.Now().UnixNano() / int64(time.Millisecond)) }

// Context is the root entity (§3): the block under construction, the
// four payload arrays, primary-rotation state, and the collaborators
// (ledger, wallet, store) it borrows. It is not internally synchronized
// (§5); callers must serialize access externally.
type Context struct {
	Block types.Block

	ViewNumber byte
	Validators *types.ValidatorSet
	MyIndex    int32

	TransactionHashes []types.Hash256
	Transactions      map[string]*types.Transaction

	PreparationPayloads []*payload.ConsensusPayload
	CommitPayloads      []*payload.ConsensusPayload
	ChangeViewPayloads  []*payload.ConsensusPayload
	LastChangeViewPayloads []*payload.ConsensusPayload

	LastSeenMessage []int64

	Snapshot ledger.Snapshot
	KeyPair  *wallet.KeyPair

	staged map[uint32][]*payload.ConsensusPayload

	chain    ledger.Blockchain
	wal      wallet.Wallet
	db       store.DB
	policies []policy.Policy
	logger   log.Logger
	metrics  *metrics.Set
	now      TimeProvider
	rand     *rand.Rand

	viewStartedAt uint64
	viewGauge     gometrics.Gauge
	commitGauge   gometrics.Gauge
	quorumTimer   gometrics.Timer
}

// Option configures a Context at construction, mirroring the teacher's
// functional-option ConsensusOption pattern (consensus/state.go).
type Option func(*Context)

// WithLogger installs a structured logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithMetrics installs a metrics.Set the Context reports counters and
// gauges into, the way the teacher's libs/metric.MetricSet is handed to
// ConsensusState at construction. Registers the view-number gauge, the
// commit-count gauge, and the time-to-quorum timer SPEC_FULL.md's
// AMBIENT STACK names; an already-populated Set (its labels already
// taken by another Context) leaves the corresponding instrument nil, and
// every call site below is a no-op when its instrument is nil.
func WithMetrics(m *metrics.Set) Option {
	return func(c *Context) {
		c.metrics = m
		c.viewGauge, _ = m.Gauge("dbft.view_number")
		c.commitGauge, _ = m.Gauge("dbft.commit_count")
		c.quorumTimer, _ = m.Timer("dbft.time_to_quorum")
	}
}

// WithTimeProvider overrides the wall-clock source, for deterministic
// tests (§6).
func WithTimeProvider(now TimeProvider) Option {
	return func(c *Context) { c.now = now }
}

// WithRandSource overrides the nonce random source. The spec is explicit
// that this need not be cryptographically strong (§5, §9): security
// rests on signatures, not nonce entropy.
func WithRandSource(r *rand.Rand) Option {
	return func(c *Context) { c.rand = r }
}

// WithPolicies installs the ordered policy plugin chain MakePrepareRequest
// filters transactions through (§4.3, §6).
func WithPolicies(policies ...policy.Policy) Option {
	return func(c *Context) { c.policies = policies }
}

// NewContext constructs a Context bound to its ledger, wallet, and
// durable store collaborators (§3 Lifecycle: "constructed once per node
// process, bound to a wallet and store"). Reset(0) must be called before
// any other operation.
func NewContext(chain ledger.Blockchain, wal wallet.Wallet, db store.DB, opts ...Option) *Context {
	c := &Context{
		chain:   chain,
		wal:     wal,
		db:      db,
		MyIndex: -1,
		logger:  log.NewNopLogger(),
		now:     systemTime,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispose releases the ledger snapshot held by this Context, if any
// (§3 invariant 9, §5 "Guaranteed release on all exit paths").
func (c *Context) Dispose() {
	if c.Snapshot != nil {
		c.Snapshot.Release()
		c.Snapshot = nil
	}
}

// N is the committee size for the height.
func (c *Context) N() int { return c.Validators.Size() }

// F is the maximum tolerated Byzantine faults: (N-1)/3.
func (c *Context) F() int { return c.Validators.F() }

// M is the honest quorum size: N-F.
func (c *Context) M() int { return c.Validators.M() }

// BlockSlotStart is the timestamp basis a view-change timer should
// measure elapsed time from (§9 supplemented feature). The Context does
// not own timers itself (§1 Non-goals), but it exposes this the same
// raw ingredient the teacher's reviseSlotTime reads off
// state.LastCommitedBlock.SlotStartTime: this height's own proposed
// timestamp once MakePrepareRequest/a received proposal has set one,
// otherwise the parent block's timestamp.
func (c *Context) BlockSlotStart() uint64 {
	if c.Block.Timestamp != 0 {
		return c.Block.Timestamp
	}
	return c.prevHeaderTimestamp()
}

// StagePayload records a payload addressed to a height this Context has
// not reached yet, e.g. last_seen_message[i] > block.index (§3), instead
// of dropping it (§9 supplemented feature). It mirrors the teacher's
// futureProposal map (consensus/state.go's TryAddFutureProposal) and
// never mutates current-height state.
func (c *Context) StagePayload(index uint32, p *payload.ConsensusPayload) {
	if c.staged == nil {
		c.staged = make(map[uint32][]*payload.ConsensusPayload)
	}
	c.staged[index] = append(c.staged[index], p)
}

// DrainStaged returns and forgets whatever StagePayload recorded for the
// height Reset(0) just entered, mirroring triggleFutureProposal's replay
// of a staged proposal once its slot arrives. Returns nil if nothing was
// staged for this height.
func (c *Context) DrainStaged() []*payload.ConsensusPayload {
	if c.staged == nil {
		return nil
	}
	staged := c.staged[c.Block.Index]
	delete(c.staged, c.Block.Index)
	return staged
}

// transactionsList returns Transactions in TransactionHashes order,
// e.g. for CreateBlock's attachment step.
func (c *Context) transactionsList() []*types.Transaction {
	if c.TransactionHashes == nil {
		return nil
	}
	out := make([]*types.Transaction, len(c.TransactionHashes))
	for i, h := range c.TransactionHashes {
		out[i] = c.Transactions[h.String()]
	}
	return out
}
