// Package pagealloc provides a reference implementation of the loader's
// Allocator collaborator: a page allocator that can be asked to place an
// allocation below a given address ceiling, the way firmware NVS pools
// honour 32-bit placement constraints.
package pagealloc

import (
	"github.com/sriramkidambi/acpi-fwcfg-loader/loader"
)

// ErrOutOfMemory is returned by AllocPages when no sufficiently large,
// sufficiently low run of free pages exists. It is an alias for
// loader.ErrOutOfMemory so the core can classify the failure as
// KindOutOfMemory via errors.Is rather than a generic downstream error.
var ErrOutOfMemory = loader.ErrOutOfMemory

// BitmapAllocator is an in-memory loader.Allocator. It manages a single
// contiguous arena starting at ArenaBase, divided into fixed-size pages:
// one used-flag per page, a free-run scan, and a free-page counter kept in
// sync so callers can report utilization without rescanning.
type BitmapAllocator struct {
	arenaBase  uint64
	pageSize   uint64
	totalPages uint64
	freeCount  uint64

	// used[i] is true if page i (address arenaBase+i*pageSize) is
	// currently allocated.
	used []bool
}

// NewBitmapAllocator creates an allocator managing totalPages pages of size
// pageSize starting at arenaBase.
func NewBitmapAllocator(arenaBase, pageSize, totalPages uint64) *BitmapAllocator {
	return &BitmapAllocator{
		arenaBase:  arenaBase,
		pageSize:   pageSize,
		totalPages: totalPages,
		freeCount:  totalPages,
		used:       make([]bool, totalPages),
	}
}

// AllocPages implements loader.Allocator. It scans for the first run of
// `pages` contiguous free pages whose end address does not exceed
// maxAddress+1, marks them used, and returns the run's base address.
func (a *BitmapAllocator) AllocPages(_ loader.AllocClass, pages uint64, maxAddress uint64) (uint64, error) {
	if pages == 0 {
		return a.arenaBase, nil
	}
	if pages > a.freeCount {
		return 0, ErrOutOfMemory
	}

	run := uint64(0)
	start := uint64(0)
	for i := uint64(0); i < a.totalPages; i++ {
		if a.used[i] {
			run = 0
			start = i + 1
			continue
		}

		if run == 0 {
			start = i
		}
		run++

		if run < pages {
			continue
		}

		base := a.arenaBase + start*a.pageSize
		end := base + pages*a.pageSize - 1
		if end <= maxAddress {
			for j := start; j < start+pages; j++ {
				a.used[j] = true
			}
			a.freeCount -= pages
			return base, nil
		}

		// This run satisfies contiguity but not the ceiling; since
		// pages only grow further from here while staying above the
		// ceiling, there is no point rescanning from i+1 instead of
		// restarting the run at i+1.
		run = 0
	}

	return 0, ErrOutOfMemory
}

// FreePages implements loader.Allocator.
func (a *BitmapAllocator) FreePages(base uint64, pages uint64) {
	if pages == 0 {
		return
	}
	start := (base - a.arenaBase) / a.pageSize
	for j := start; j < start+pages; j++ {
		if a.used[j] {
			a.used[j] = false
			a.freeCount++
		}
	}
}

// FreePageCount reports the number of currently unallocated pages, useful
// for tests asserting full rollback.
func (a *BitmapAllocator) FreePageCount() uint64 {
	return a.freeCount
}
