package dbft

// checkpointPrefix and checkpointKey are the fixed location every
// persisted Context lives at (§4.6, §6): "Single record at key
// (prefix=0xf4, key=empty)".
const checkpointPrefix = 0xf4

var checkpointKey = []byte{}

// Load restores the last persisted Context from the durable store. The
// caller must have already Reset(0) this Context to the current chain
// height before calling Load, matching Decode's contract. Any codec
// error — format or state-mismatch — is swallowed into (false, nil): a
// corrupt or stale checkpoint never blocks startup (§7, §4.6); only a
// transient store I/O error is returned.
func (c *Context) Load() (bool, error) {
	data, err := c.db.Get(checkpointPrefix, checkpointKey)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := c.Decode(data); err != nil {
		c.logger.Info("dbft: discarding unusable checkpoint", "err", err)
		return false, nil
	}
	return true, nil
}

// Save persists the current Context with a sync/durable write barrier,
// so it survives a crash (§4.6).
func (c *Context) Save() error {
	return c.db.PutSync(checkpointPrefix, checkpointKey, c.Encode())
}
