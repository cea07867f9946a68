package loader

import "github.com/pkg/errors"

// ErrOutOfMemory is the sentinel an Allocator implementation should return
// (directly or wrapped) from AllocPages when no placement satisfies the
// request. execAllocate compares against it with errors.Is to classify the
// failure as KindOutOfMemory rather than the generic KindDownstream.
var ErrOutOfMemory = errors.New("loader: allocator out of memory")

// ItemID identifies a selected transport item for the duration of a
// contiguous read/skip/write sequence. It is opaque to the core; only the
// Transport implementation interprets it.
type ItemID uint64

// Transport is the firmware-configuration byte-stream collaborator. The core
// never interleaves a read/skip/write sequence on one item with a Select of
// another: it selects immediately before each contiguous access, since the
// device keeps one implicit cursor.
type Transport interface {
	// Find locates a named item and returns its id and byte length, or
	// ok == false if no such item exists.
	Find(name string) (id ItemID, size uint64, ok bool)

	// Select positions the shared cursor at the start of the named item.
	Select(id ItemID)

	// Read reads len(buf) bytes from the current cursor position,
	// advancing it.
	Read(buf []byte) error

	// Skip advances the cursor by n bytes without transferring data.
	Skip(n uint64) error

	// Write writes buf at the current cursor position, advancing it.
	Write(buf []byte) error
}

// AllocClass distinguishes allocation pools at the Allocator. The loader
// always requests the ACPI NVS class.
type AllocClass uint8

// AllocClassACPINVS is the only class the loader requests: ACPI NVS memory,
// which survives into the OS runtime and must not be reclaimed by it.
const AllocClassACPINVS AllocClass = 1

// Allocator is the page-allocation collaborator.
type Allocator interface {
	// AllocPages returns a page-aligned base address for a run of pages
	// contiguous pages such that base+pages*PageSize-1 <= maxAddress.
	AllocPages(class AllocClass, pages uint64, maxAddress uint64) (base uint64, err error)

	// FreePages releases a run of pages previously returned by AllocPages.
	FreePages(base uint64, pages uint64)
}

// TableHandle is an opaque key returned by Registry.Install and required by
// Registry.Uninstall.
type TableHandle uint64

// Registry is the ACPI table registry collaborator. It is expected to
// synthesize RSDT and XSDT itself; the core never installs tables bearing
// those signatures.
type Registry interface {
	Install(table []byte) (TableHandle, error)
	Uninstall(handle TableHandle) error
}

// ReplayLog is the optional condensed resume-replay sink. A nil ReplayLog
// means replay capture is disabled for this run.
type ReplayLog interface {
	Append(item ItemID, width uint8, offset uint64, value uint64) error
	Commit() error
	Release()
}

// MeasureKind distinguishes what is being measured.
type MeasureKind uint8

const (
	// MeasureKindScript tags the measurement of the raw loader script.
	MeasureKindScript MeasureKind = iota
	// MeasureKindBlob tags the measurement of a freshly loaded blob,
	// taken after its bytes are read but before any patch command can
	// touch them.
	MeasureKindBlob
)

// MeasureSink is the attestation collaborator.
type MeasureSink interface {
	Measure(tag string, kind MeasureKind, data []byte)
}
