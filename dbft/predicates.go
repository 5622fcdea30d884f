package dbft

import "dbftcore/payload"

// Predicates are pure functions over Context state (§4.1). They are
// computed fresh on every call — never cached — because inbound
// messages can mutate the payload arrays between calls.

// IsPrimary reports whether this node is the primary for the current
// (index, view).
func (c *Context) IsPrimary() bool {
	return c.MyIndex >= 0 && uint32(c.MyIndex) == c.Block.ConsensusData.PrimaryIndex
}

// IsBackup reports whether this node is a validator but not the primary.
func (c *Context) IsBackup() bool {
	return c.MyIndex >= 0 && !c.IsPrimary()
}

// WatchOnly reports whether this node is not a validator this height.
func (c *Context) WatchOnly() bool {
	return c.MyIndex < 0
}

// Watching is a documented wrapper over WatchOnly for a service's own
// boot log line (§9 supplemented feature), mirroring the teacher's
// enterPropose "I'm not slot leader" log branch off the equivalent state.
func (c *Context) Watching() bool {
	return c.WatchOnly()
}

// CountCommitted is the number of non-nil commit_payloads slots.
func (c *Context) CountCommitted() int {
	n := 0
	for _, p := range c.CommitPayloads {
		if p != nil {
			n++
		}
	}
	return n
}

// CountFailed is the number of validators whose last-seen block index
// trails the current one by more than one, treated as unresponsive.
func (c *Context) CountFailed() int {
	n := 0
	threshold := int64(c.Block.Index) - 1
	for _, seen := range c.LastSeenMessage {
		if seen < threshold {
			n++
		}
	}
	return n
}

// RequestSentOrReceived reports whether the current primary's
// PrepareRequest slot is populated.
func (c *Context) RequestSentOrReceived() bool {
	idx := c.Block.ConsensusData.PrimaryIndex
	return int(idx) < len(c.PreparationPayloads) && c.PreparationPayloads[idx] != nil
}

// ResponseSent reports whether this (non-watch-only) node's own
// preparation slot is populated.
func (c *Context) ResponseSent() bool {
	if c.WatchOnly() {
		return false
	}
	return c.PreparationPayloads[c.MyIndex] != nil
}

// CommitSent reports whether this node's commit slot is populated. The
// slot is cleared only by Reset(0), so a commit from an earlier view of
// the same height still counts.
func (c *Context) CommitSent() bool {
	if c.WatchOnly() {
		return false
	}
	return c.CommitPayloads[c.MyIndex] != nil
}

// BlockSent reports whether CreateBlock has already attached
// transactions to the block.
func (c *Context) BlockSent() bool {
	return c.Block.Transactions != nil
}

// ViewChanging reports whether this node has asked to move to a view
// beyond the current one.
func (c *Context) ViewChanging() bool {
	if c.WatchOnly() {
		return false
	}
	p := c.ChangeViewPayloads[c.MyIndex]
	if p == nil {
		return false
	}
	cv, ok := p.Message.(*payload.ChangeView)
	if !ok {
		return false
	}
	return cv.NewViewNumber > c.ViewNumber
}

// MoreThanFNodesCommittedOrLost is the safety valve (§4.1): once more
// than F nodes are effectively absent or have committed past this view,
// a node must stop refusing payloads even while it wants to change
// view, to avoid stalling the network or splitting views.
func (c *Context) MoreThanFNodesCommittedOrLost() bool {
	return c.CountCommitted()+c.CountFailed() > c.F()
}

// NotAcceptingPayloadsDueToViewChanging reports whether inbound
// payloads should currently be ignored because this node is mid
// view-change and the safety valve has not tripped.
func (c *Context) NotAcceptingPayloadsDueToViewChanging() bool {
	return c.ViewChanging() && !c.MoreThanFNodesCommittedOrLost()
}
