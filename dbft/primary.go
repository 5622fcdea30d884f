package dbft

// PrimaryIndex computes the deterministic leader for view v at the
// current block height (§4.2): every honest node reaches the same
// primary under the same (index, view), since it depends only on public
// state.
func (c *Context) PrimaryIndex(v byte) uint32 {
	n := int32(c.N())
	p := (int32(c.Block.Index) - int32(v)) % n
	if p < 0 {
		p += n
	}
	return uint32(p)
}
