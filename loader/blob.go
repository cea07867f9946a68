package loader

// Blob is a named, hypervisor-provided byte array materialised into
// page-aligned guest memory.
type Blob struct {
	Name  string
	Size  uint64
	Base  uint64
	Pages uint64

	// Opaque is false initially ("hosts only ACPI table data") and
	// becomes true once the host learns this blob's address via
	// write_pointer, or the second-pass installer decides a pointed-to
	// region inside it isn't a recognisable ACPI table.
	Opaque bool

	// data is the host-side mirror of the blob's bytes. In a real
	// firmware this would simply be the memory at Base; here the
	// Allocator only hands back an address, so the loader keeps its own
	// staging buffer and mutates it in place, exactly mirroring what
	// add_pointer/add_checksum would do to guest memory at Base.
	data []byte
}

// Data returns the blob's current byte contents, including the zeroed tail
// beyond Size up to Pages*PageSize.
func (b *Blob) Data() []byte { return b.data }

// blobRegistry is an ordered, insert-unique associative map from blob name
// to *Blob. Ordering is by insertion, which the rollback path relies on for
// deterministic drain order.
type blobRegistry struct {
	byName map[string]*Blob
	order  []*Blob
}

func newBlobRegistry() *blobRegistry {
	return &blobRegistry{byName: make(map[string]*Blob)}
}

// Lookup returns the blob registered under name, if any.
func (r *blobRegistry) Lookup(name string) (*Blob, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// InsertUnique adds b to the registry. It returns false if name is already
// registered, leaving the registry unchanged.
func (r *blobRegistry) InsertUnique(b *Blob) bool {
	if _, exists := r.byName[b.Name]; exists {
		return false
	}
	r.byName[b.Name] = b
	r.order = append(r.order, b)
	return true
}

// Ordered returns every blob in insertion order. The returned slice must not
// be mutated by callers.
func (r *blobRegistry) Ordered() []*Blob {
	return r.order
}

// Drain empties the registry and returns every blob in insertion order. It
// is called exactly once, at teardown time (commit or rollback); ownership
// of each blob's pages transfers to the caller's free-or-retain decision.
func (r *blobRegistry) Drain() []*Blob {
	out := r.order
	r.byName = make(map[string]*Blob)
	r.order = nil
	return out
}
