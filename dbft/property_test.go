package dbft_test

import (
	"testing"

	"pgregory.net/rapid"

	"dbftcore/crypto/bls"
	"dbftcore/dbft"
	"dbftcore/ledger"
	"dbftcore/payload"
	"dbftcore/store"
	"dbftcore/types"
	"dbftcore/wallet"
)

// §4.2/§8: PrimaryIndex(v) must always land in [0, N) for any block index
// and view, and rotating v by exactly N must return to the same primary.
func TestPropertyPrimaryIndexInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 21).Draw(rt, "n")
		vals := make([]*types.Validator, n)
		for i := 0; i < n; i++ {
			vals[i] = types.NewValidator(bls.GenPrivKey().PubKey())
		}
		index := rapid.Uint32Range(0, 1<<20).Draw(rt, "index")
		v := byte(rapid.IntRange(0, 255).Draw(rt, "v"))

		ctx := &dbft.Context{
			Block:      types.Block{Header: types.Header{Index: index}},
			Validators: types.NewValidatorSet(vals),
		}

		p := ctx.PrimaryIndex(v)
		if p >= uint32(n) {
			rt.Fatalf("PrimaryIndex(%d) = %d out of range [0, %d)", v, p, n)
		}

		wrapped := ctx.PrimaryIndex(byte(int(v) + n))
		if n <= 255 && int(v)+n <= 255 {
			if wrapped != p {
				rt.Fatalf("primary rotation did not cycle after N views: got %d want %d", wrapped, p)
			}
		}
	})
}

// §3: F and M are always consistent with the quorum inequalities the
// safety argument depends on: 3F < N <= 3F+3 and M = N-F > 2F.
func TestPropertyQuorumInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(rt, "n")
		vals := make([]*types.Validator, n)
		for i := 0; i < n; i++ {
			vals[i] = &types.Validator{}
		}
		vs := types.NewValidatorSet(vals)

		f := vs.F()
		m := vs.M()

		if 3*f >= n {
			rt.Fatalf("F=%d too large for N=%d", f, n)
		}
		if m <= 2*f {
			rt.Fatalf("M=%d does not exceed 2F=%d", m, 2*f)
		}
		if m+f != n {
			rt.Fatalf("M+F=%d != N=%d", m+f, n)
		}
	})
}

// §4.6 invariant #2: Encode/Decode round-trips every Context state, not
// just the one concrete scenario TestCodecRoundTrip exercises — primary
// or backup, with or without a proposal, with or without a pending
// change-view request.
func TestPropertyCodecRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 7).Draw(rt, "n")
		myIndex := rapid.IntRange(0, n-1).Draw(rt, "myIndex")
		wantChangeView := rapid.Bool().Draw(rt, "changeView")

		privs := make([]bls.PrivateKey, n)
		vals := make([]*types.Validator, n)
		for i := 0; i < n; i++ {
			privs[i] = bls.GenPrivKey()
			vals[i] = types.NewValidator(privs[i].PubKey())
		}
		vs := types.NewValidatorSet(vals)
		genesis := &types.Header{Version: 0, Index: 0}
		chain := ledger.NewMockChain(genesis, vs)

		w := wallet.NewFileWallet()
		w.AddAccount(privs[myIndex])

		ctx := dbft.NewContext(chain, w, store.NewMemStore())
		if err := ctx.Reset(0); err != nil {
			rt.Fatalf("Reset: %v", err)
		}

		if ctx.IsPrimary() {
			ctx.MakePrepareRequest()
		}
		if !ctx.WatchOnly() && ctx.TransactionHashes != nil {
			ctx.MakeCommit()
		}
		if wantChangeView && !ctx.WatchOnly() {
			ctx.MakeChangeView(payload.CVTimeout)
		}

		data := ctx.Encode()

		restoredWallet := wallet.NewFileWallet()
		restoredWallet.AddAccount(privs[myIndex])
		restored := dbft.NewContext(chain, restoredWallet, store.NewMemStore())
		if err := restored.Reset(0); err != nil {
			rt.Fatalf("Reset: %v", err)
		}
		if err := restored.Decode(data); err != nil {
			rt.Fatalf("Decode: %v", err)
		}

		if restored.ViewNumber != ctx.ViewNumber {
			rt.Fatalf("view number mismatch: got %d want %d", restored.ViewNumber, ctx.ViewNumber)
		}
		if restored.Block.Timestamp != ctx.Block.Timestamp {
			rt.Fatalf("timestamp mismatch")
		}
		if restored.Block.ConsensusData.Nonce != ctx.Block.ConsensusData.Nonce {
			rt.Fatalf("nonce mismatch")
		}
		if len(restored.TransactionHashes) != len(ctx.TransactionHashes) {
			rt.Fatalf("transaction hash count mismatch: got %d want %d", len(restored.TransactionHashes), len(ctx.TransactionHashes))
		}
		if (restored.TransactionHashes == nil) != (restored.Transactions == nil) {
			rt.Fatalf("invariant #4 violated: transaction_hashes nil-ness %v does not match transactions nil-ness %v", restored.TransactionHashes == nil, restored.Transactions == nil)
		}
		// An empty proposal is encoded as count 0, which Decode reads back
		// as nil (§4.6: empty ⇒ null on read).
		wantNilTxs := len(ctx.TransactionHashes) == 0
		if (restored.Transactions == nil) != wantNilTxs {
			rt.Fatalf("transactions nilness mismatch: got nil=%v want nil=%v", restored.Transactions == nil, wantNilTxs)
		}
		if (restored.CommitPayloads[myIndex] == nil) != (ctx.CommitPayloads[myIndex] == nil) {
			rt.Fatalf("commit slot presence mismatch")
		}
		if (restored.ChangeViewPayloads[myIndex] == nil) != (ctx.ChangeViewPayloads[myIndex] == nil) {
			rt.Fatalf("change-view slot presence mismatch")
		}
	})
}
