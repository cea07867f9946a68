package loader

import (
	"fmt"

	"github.com/pkg/errors"
)

// runFirstPass iterates every command in script, dispatching to the four
// handlers and building the blob registry. It stops at the first error,
// leaving st.written and st.blobs exactly as far as execution reached;
// the caller (Orchestrator) is responsible for rollback.
func runFirstPass(script []byte, st *execState) *Error {
	p, perr := newScriptParser(script)
	if perr != nil {
		return perr
	}

	for {
		cmd, ok := p.Next()
		if !ok {
			return nil
		}

		var err *Error
		switch cmd.kind {
		case cmdAllocate:
			if cmd.malformed {
				err = newErr("exec.allocate", KindBadScript, "malformed file name")
			} else {
				err = execAllocate(cmd.allocate, st)
			}
		case cmdAddPointer:
			if cmd.malformed {
				err = newErr("exec.addPointer", KindBadScript, "malformed file name")
			} else {
				err = execAddPointer(cmd.addPointer, st)
			}
		case cmdAddChecksum:
			if cmd.malformed {
				err = newErr("exec.addChecksum", KindBadScript, "malformed file name")
			} else {
				err = execAddChecksum(cmd.addChecksum, st)
			}
		case cmdWritePointer:
			if cmd.malformed {
				err = newErr("exec.writePointer", KindBadScript, "malformed file name")
			} else {
				err = execWritePointer(cmd.writePointer, st)
			}
		default:
			st.log.WithField("kind", uint32(cmd.kind)).Warn("loader: skipping unknown script command")
		}

		if err != nil {
			return err
		}
	}
}

// execAllocate implements the allocate(name, alignment, zone) command.
func execAllocate(cmd allocateCmd, st *execState) *Error {
	const op = "exec.allocate"

	if cmd.alignment > PageSize {
		return newErrf(op, KindUnsupported, "unsupported alignment 0x%x for %q", cmd.alignment, cmd.name)
	}

	id, size, ok := st.transport.Find(cmd.name)
	if !ok {
		return newErrf(op, KindNotFound, "fw_cfg item %q not found", cmd.name)
	}

	pages := (size + PageSize - 1) / PageSize

	maxAddress := uint64(0xFFFFFFFFFFFFFFFF)
	if st.restrictions.has(cmd.name) {
		maxAddress = 0xFFFFFFFF
	}

	base, aerr := st.alloc.AllocPages(AllocClassACPINVS, pages, maxAddress)
	if aerr != nil {
		if errors.Is(aerr, ErrOutOfMemory) {
			return newErrf(op, KindOutOfMemory, "no placement for %q (%d pages, ceiling 0x%x)", cmd.name, pages, maxAddress)
		}
		return wrapDownstream(op, aerr)
	}

	blob := &Blob{
		Name:  cmd.name,
		Size:  size,
		Base:  base,
		Pages: pages,
		data:  make([]byte, pages*PageSize),
	}

	if !st.blobs.InsertUnique(blob) {
		st.alloc.FreePages(base, pages)
		return newErrf(op, KindBadScript, "duplicate file %q", cmd.name)
	}

	st.transport.Select(id)
	if rerr := st.transport.Read(blob.data[:size]); rerr != nil {
		return wrapDownstream(op, rerr)
	}
	// blob.data is already zero-initialized past size; nothing further to
	// zero for the tail [size, pages*PageSize).

	st.log.WithFields(map[string]interface{}{
		"file":      cmd.name,
		"alignment": cmd.alignment,
		"zone":      cmd.zone,
		"size":      size,
		"base":      fmt.Sprintf("0x%x", base),
	}).Trace("loader: allocated blob")

	// Measure the data downloaded from the host before any later command
	// can patch it, so the attested value matches the hypervisor-provided
	// bytes.
	st.measure.Measure(cmd.name, MeasureKindBlob, blob.data[:size])

	return nil
}

// execAddPointer implements the add_pointer command: it relocates an
// intra-blob offset into an absolute guest address.
func execAddPointer(cmd addPointerCmd, st *execState) *Error {
	const op = "exec.addPointer"

	if !validPointerSize(cmd.pointerSize) {
		return newErrf(op, KindBadScript, "invalid pointer size %d", cmd.pointerSize)
	}

	pointerBlob, ok := st.blobs.Lookup(cmd.pointerFile)
	if !ok {
		return newErrf(op, KindBadScript, "unknown pointer file %q", cmd.pointerFile)
	}
	pointeeBlob, ok := st.blobs.Lookup(cmd.pointeeFile)
	if !ok {
		return newErrf(op, KindBadScript, "unknown pointee file %q", cmd.pointeeFile)
	}

	sz := uint64(cmd.pointerSize)
	if uint64(cmd.pointerOffset) > pointerBlob.Size || sz > pointerBlob.Size-uint64(cmd.pointerOffset) {
		return newErrf(op, KindBadScript, "pointer slot out of bounds in %q", cmd.pointerFile)
	}

	v := readPointer(pointerBlob.data, uint64(cmd.pointerOffset), cmd.pointerSize)
	if v >= pointeeBlob.Size {
		return newErrf(op, KindBadScript, "pointer value 0x%x out of range for %q (size 0x%x)", v, cmd.pointeeFile, pointeeBlob.Size)
	}

	// base + size does not wrap: guaranteed by the Allocator contract.
	v2 := v + pointeeBlob.Base
	if !fitsInWidth(v2, cmd.pointerSize) {
		return newErrf(op, KindBadScript, "relocated pointer 0x%x unrepresentable in %d bytes", v2, cmd.pointerSize)
	}

	writePointerValue(pointerBlob.data, uint64(cmd.pointerOffset), cmd.pointerSize, v2)

	st.log.WithFields(map[string]interface{}{
		"pointer_file": cmd.pointerFile,
		"pointee_file": cmd.pointeeFile,
		"offset":       cmd.pointerOffset,
		"size":         cmd.pointerSize,
	}).Trace("loader: patched pointer")

	return nil
}

func writePointerValue(buf []byte, off uint64, sz uint8, v uint64) {
	writePointer(buf, off, sz, v)
}

// execAddChecksum implements the add_checksum command.
func execAddChecksum(cmd addChecksumCmd, st *execState) *Error {
	const op = "exec.addChecksum"

	blob, ok := st.blobs.Lookup(cmd.file)
	if !ok {
		return newErrf(op, KindBadScript, "unknown file %q", cmd.file)
	}

	if uint64(cmd.resultOffset) >= blob.Size ||
		uint64(cmd.length) > blob.Size ||
		uint64(cmd.start) > blob.Size-uint64(cmd.length) {
		return newErrf(op, KindBadScript, "invalid checksum range in %q", cmd.file)
	}

	blob.data[cmd.resultOffset] = checksum8(blob.data[cmd.start : uint64(cmd.start)+uint64(cmd.length)])

	st.log.WithFields(map[string]interface{}{
		"file":          cmd.file,
		"result_offset": cmd.resultOffset,
		"start":         cmd.start,
		"length":        cmd.length,
	}).Trace("loader: computed checksum")

	return nil
}

// execWritePointer implements the write_pointer command: it tells the host
// the absolute guest address of a blob location by writing it into a
// host-visible transport item.
func execWritePointer(cmd writePointerCmd, st *execState) *Error {
	const op = "exec.writePointer"

	if !validPointerSize(cmd.pointerSize) {
		return newErrf(op, KindBadScript, "invalid pointer size %d", cmd.pointerSize)
	}

	id, itemSize, ok := st.transport.Find(cmd.pointerFile)
	if !ok {
		return newErrf(op, KindNotFound, "fw_cfg item %q not found", cmd.pointerFile)
	}
	sz := uint64(cmd.pointerSize)
	if uint64(cmd.pointerOffset) > itemSize || sz > itemSize-uint64(cmd.pointerOffset) {
		return newErrf(op, KindBadScript, "pointer slot out of bounds in transport item %q", cmd.pointerFile)
	}

	pointeeBlob, ok := st.blobs.Lookup(cmd.pointeeFile)
	if !ok {
		return newErrf(op, KindBadScript, "unknown pointee file %q", cmd.pointeeFile)
	}
	if uint64(cmd.pointeeOffset) >= pointeeBlob.Size {
		return newErrf(op, KindBadScript, "pointee offset 0x%x out of range for %q", cmd.pointeeOffset, cmd.pointeeFile)
	}

	v := pointeeBlob.Base + uint64(cmd.pointeeOffset)
	if !fitsInWidth(v, cmd.pointerSize) {
		return newErrf(op, KindBadScript, "pointer value 0x%x unrepresentable in %d bytes", v, cmd.pointerSize)
	}

	if st.replay != nil {
		if rerr := st.replay.Append(id, cmd.pointerSize, uint64(cmd.pointerOffset), v); rerr != nil {
			return wrapDownstream(op, rerr)
		}
	}

	var tmp [8]byte
	writePointer(tmp[:], 0, cmd.pointerSize, v)

	st.transport.Select(id)
	if terr := st.transport.Skip(uint64(cmd.pointerOffset)); terr != nil {
		return wrapDownstream(op, terr)
	}
	if terr := st.transport.Write(tmp[:cmd.pointerSize]); terr != nil {
		return wrapDownstream(op, terr)
	}

	pointeeBlob.Opaque = true
	st.written = append(st.written, writtenPointer{item: id, offset: uint64(cmd.pointerOffset), size: cmd.pointerSize})

	st.log.WithFields(map[string]interface{}{
		"pointer_file":   cmd.pointerFile,
		"pointee_file":   cmd.pointeeFile,
		"pointer_offset": cmd.pointerOffset,
		"pointee_offset": cmd.pointeeOffset,
	}).Trace("loader: wrote host-visible pointer")

	return nil
}
