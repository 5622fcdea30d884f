package dbft

import "github.com/pkg/errors"

// Error categories per §7. Programmer errors (violated preconditions)
// panic rather than return an error, matching the spec's
// "panic-equivalent; not recoverable" treatment; the errors below cover
// the categories that are surfaced to a caller instead.

// ErrFormat is returned by Decode when the persisted stream is
// malformed: a version mismatch, a truncated field, an invalid var_int,
// or a count exceeding its bound.
var ErrFormat = errors.New("dbft: malformed checkpoint stream")

// ErrStateMismatch is returned by Decode when the persisted record's
// index does not match the height the Context was just Reset to,
// meaning the checkpoint belongs to a different height and must be
// discarded (§7: same policy as a format error).
var ErrStateMismatch = errors.New("dbft: checkpoint height does not match current context")

// ErrQuorumUnreachable is a precondition violation raised by CreateBlock
// when fewer than M eligible commits are available at the current view.
// Callers must check CountCommitted against M before calling CreateBlock
// (§7); this module surfaces it as a panic (see block_assembler.go),
// and this error value exists for callers that want to pre-check
// defensively and report the same category.
var ErrQuorumUnreachable = errors.New("dbft: fewer than M commits at the current view")
