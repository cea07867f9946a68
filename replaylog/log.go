// Package replaylog provides a reference implementation of the loader's
// optional ReplayLog collaborator: a condensed record of write_pointer
// effects meant to be re-applied verbatim on a later low-power (S3)
// resume path. Each successful write_pointer appends one condensed entry
// before the corresponding transport write, and the whole log is only
// durably committed once the run as a whole succeeds.
package replaylog

import (
	"github.com/sriramkidambi/acpi-fwcfg-loader/loader"
)

// Entry is one condensed write_pointer effect.
type Entry struct {
	Item   loader.ItemID
	Width  uint8
	Offset uint64
	Value  uint64
}

// CondensedLog is an in-memory loader.ReplayLog. Entries appended before a
// successful Commit are retained; Release discards anything still pending.
type CondensedLog struct {
	pending   []Entry
	committed []Entry
	released  bool
}

// NewCondensedLog returns an empty log.
func NewCondensedLog() *CondensedLog {
	return &CondensedLog{}
}

// Append implements loader.ReplayLog.
func (l *CondensedLog) Append(item loader.ItemID, width uint8, offset uint64, value uint64) error {
	l.pending = append(l.pending, Entry{Item: item, Width: width, Offset: offset, Value: value})
	return nil
}

// Commit implements loader.ReplayLog: it durably transfers the pending
// entries accumulated so far to the committed log.
func (l *CondensedLog) Commit() error {
	l.committed = append(l.committed, l.pending...)
	l.pending = nil
	return nil
}

// Release implements loader.ReplayLog: it discards anything not yet
// committed. Called by the loader only on the rollback path, before
// ownership of the log passes to the caller on commit.
func (l *CondensedLog) Release() {
	l.pending = nil
	l.released = true
}

// Entries returns the committed entries, for test assertions and for the
// actual resume-replay path (outside this module's scope).
func (l *CondensedLog) Entries() []Entry {
	return l.committed
}
