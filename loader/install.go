package loader

import (
	"encoding/binary"

	"github.com/sriramkidambi/acpi-fwcfg-loader/acpitable"
)

// seenPointers de-duplicates absolute addresses across AddPointer commands
// during the second pass, so each unique target is classified and installed
// at most once.
type seenPointers map[uint64]struct{}

func (s seenPointers) has(v uint64) bool {
	_, ok := s[v]
	return ok
}

// installState carries the second pass's accumulated state.
type installState struct {
	registry Registry
	blobs    *blobRegistry
	seen     seenPointers
	// installed is the ordered, newest-last list of handles returned by
	// Registry.Install, bounded to InstalledMax.
	installed []TableHandle
}

// runSecondPass re-walks every AddPointer command in script and installs
// any newly discovered, recognisable ACPI table exactly once. It assumes
// Pass 1 has already fully patched every blob.
func runSecondPass(script []byte, st *execState, ist *installState) *Error {
	p, perr := newScriptParser(script)
	if perr != nil {
		return perr
	}

	for {
		cmd, ok := p.Next()
		if !ok {
			return nil
		}
		if cmd.kind != cmdAddPointer || cmd.malformed {
			continue
		}

		if err := processSecondPassPointer(cmd.addPointer, st, ist); err != nil {
			return err
		}
	}
}

func processSecondPassPointer(cmd addPointerCmd, st *execState, ist *installState) *Error {
	const op = "install.addPointer"

	pointerBlob, _ := st.blobs.Lookup(cmd.pointerFile)
	pointeeBlob, _ := st.blobs.Lookup(cmd.pointeeFile)
	if pointerBlob == nil || pointeeBlob == nil {
		// Pass 1 already validated every AddPointer references two
		// registered blobs; this can't happen unless Pass 1 failed,
		// in which case the second pass never runs.
		return newErrf(op, KindBadScript, "unresolved blob reference in %q/%q", cmd.pointerFile, cmd.pointeeFile)
	}

	v := readPointer(pointerBlob.data, uint64(cmd.pointerOffset), cmd.pointerSize)

	// Pass 1 patched this slot to point into pointeeBlob, but a later
	// add_checksum may have clobbered it; re-validate before trusting it
	// as an offset.
	if v < pointeeBlob.Base || v >= pointeeBlob.Base+pointeeBlob.Size {
		return newErrf(op, KindBadScript, "patched pointer 0x%x no longer falls inside %q", v, cmd.pointeeFile)
	}

	if ist.seen.has(v) {
		st.log.WithField("pointer_value", v).Trace("loader: pointer target already processed, skipping")
		return nil
	}
	ist.seen[v] = struct{}{}

	relOffset := v - pointeeBlob.Base
	remaining := pointeeBlob.Size - relOffset

	tableLen, isRSDTorXSDT, recognised := classifyTable(pointeeBlob.data[relOffset:], remaining)
	if !recognised {
		st.log.WithFields(map[string]interface{}{"file": cmd.pointeeFile, "offset": relOffset}).
			Trace("loader: no ACPI header found, marking blob opaque")
		pointeeBlob.Opaque = true
		return nil
	}

	if isRSDTorXSDT {
		// The registry synthesises these itself.
		return nil
	}

	if len(ist.installed) >= InstalledMax {
		delete(ist.seen, v)
		return newErrf(op, KindTooMany, "cannot install more than %d tables", InstalledMax)
	}

	handle, ierr := ist.registry.Install(pointeeBlob.data[relOffset : relOffset+tableLen])
	if ierr != nil {
		delete(ist.seen, v)
		return wrapDownstream(op, ierr)
	}

	ist.installed = append(ist.installed, handle)
	st.log.WithFields(map[string]interface{}{"file": cmd.pointeeFile, "offset": relOffset, "length": tableLen}).
		Debug("loader: installed ACPI table")

	return nil
}

// classifyTable examines the bytes at the start of region (which has
// `remaining` bytes of blob left after it, remaining <= len(region)) and
// decides whether it looks like a well-formed ACPI table.
//
// It returns the accepted table length, whether the accepted signature is
// RSDT/XSDT, and whether anything was recognised at all.
func classifyTable(region []byte, remaining uint64) (length uint64, isRSDTorXSDT bool, recognised bool) {
	if remaining >= acpitable.FACSHeaderLen {
		sig := region[0:4]
		facsLen := uint64(binary.LittleEndian.Uint32(region[4:8]))
		if string(sig) == acpitable.SignatureFACS && facsLen >= acpitable.FACSHeaderLen && facsLen <= remaining {
			return facsLen, false, true
		}
	}

	if remaining >= acpitable.SDTHeaderLen {
		hdrLen := uint64(binary.LittleEndian.Uint32(region[4:8]))
		if hdrLen >= acpitable.SDTHeaderLen && hdrLen <= remaining && sum8(region[:hdrLen]) == 0 {
			sig := string(region[0:4])
			return hdrLen, sig == acpitable.SignatureRSDT || sig == acpitable.SignatureXSDT, true
		}
	}

	return 0, false, false
}
