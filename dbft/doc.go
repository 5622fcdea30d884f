// Package dbft is the delegated-Byzantine-Fault-Tolerant consensus core:
// a single Context object carrying the block under construction, the
// four payload arrays, and the primary-rotation state a surrounding
// consensus service drives one message at a time (§5). It generalizes
// chainbft_demo/consensus's ConsensusState — that type mixed the state
// model with a channel-driven orchestration loop, slot-timeout clock,
// and p2p reactor wiring; all of that belongs to the surrounding
// service and is out of scope here (§1). What survives, adapted, is
// ConsensusState's shape: a logger, a mutex-free single-owner state
// struct, and functional-option construction.
package dbft
