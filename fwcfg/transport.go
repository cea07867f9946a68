// Package fwcfg provides a reference implementation of the loader's
// Transport collaborator: a named-item byte-stream with an implicit
// per-selection cursor, modelled after QEMU's fw_cfg device.
//
// FakeTransport is an in-memory stand-in used by tests and the demo binary;
// a production firmware would instead talk to the real fw_cfg MMIO/PIO
// device.
package fwcfg

import (
	"github.com/pkg/errors"

	"github.com/sriramkidambi/acpi-fwcfg-loader/loader"
)

var errCursorOutOfRange = errors.New("fwcfg: read/skip/write past end of item")
var errNoItemSelected = errors.New("fwcfg: no item selected")

type item struct {
	name string
	data []byte
}

// FakeTransport is a deterministic, in-memory loader.Transport: a bounded
// forward cursor over each item's byte slice with explicit overrun checks.
type FakeTransport struct {
	items    []*item
	byName   map[string]loader.ItemID
	selected *item
	cursor   int
}

// NewFakeTransport returns an empty transport. Use AddItem to populate it.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{byName: make(map[string]loader.ItemID)}
}

// AddItem registers a named item with the given initial contents. Calling
// AddItem twice with the same name replaces the item's contents in place
// (callers needing mutable "write_pointer" targets add them with AddItem
// up-front and then observe mutations through Bytes).
func (t *FakeTransport) AddItem(name string, data []byte) {
	if id, ok := t.byName[name]; ok {
		it := t.items[id]
		it.data = append([]byte(nil), data...)
		return
	}
	it := &item{name: name, data: append([]byte(nil), data...)}
	id := loader.ItemID(len(t.items))
	t.items = append(t.items, it)
	t.byName[name] = id
}

// Bytes returns the current contents of the named item, or nil if it
// doesn't exist. Useful in tests to observe write_pointer effects and their
// rollback.
func (t *FakeTransport) Bytes(name string) []byte {
	id, ok := t.byName[name]
	if !ok {
		return nil
	}
	return t.items[id].data
}

// Find implements loader.Transport.
func (t *FakeTransport) Find(name string) (loader.ItemID, uint64, bool) {
	id, ok := t.byName[name]
	if !ok {
		return 0, 0, false
	}
	return id, uint64(len(t.items[id].data)), true
}

// Select implements loader.Transport.
func (t *FakeTransport) Select(id loader.ItemID) {
	t.selected = t.items[id]
	t.cursor = 0
}

// Read implements loader.Transport.
func (t *FakeTransport) Read(buf []byte) error {
	if t.selected == nil {
		return errNoItemSelected
	}
	if t.cursor+len(buf) > len(t.selected.data) {
		return errCursorOutOfRange
	}
	copy(buf, t.selected.data[t.cursor:t.cursor+len(buf)])
	t.cursor += len(buf)
	return nil
}

// Skip implements loader.Transport.
func (t *FakeTransport) Skip(n uint64) error {
	if t.selected == nil {
		return errNoItemSelected
	}
	if t.cursor+int(n) > len(t.selected.data) {
		return errCursorOutOfRange
	}
	t.cursor += int(n)
	return nil
}

// Write implements loader.Transport.
func (t *FakeTransport) Write(buf []byte) error {
	if t.selected == nil {
		return errNoItemSelected
	}
	if t.cursor+len(buf) > len(t.selected.data) {
		return errCursorOutOfRange
	}
	copy(t.selected.data[t.cursor:t.cursor+len(buf)], buf)
	t.cursor += len(buf)
	return nil
}
