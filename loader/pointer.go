package loader

import "encoding/binary"

// validPointerSize reports whether sz is one of the widths the wire format
// allows for a relocatable pointer slot.
func validPointerSize(sz uint8) bool {
	switch sz {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// readPointer reads the sz-byte little-endian value at buf[off:off+sz],
// zero-extended to 64 bits.
func readPointer(buf []byte, off uint64, sz uint8) uint64 {
	var tmp [8]byte
	copy(tmp[:sz], buf[off:off+uint64(sz)])
	return binary.LittleEndian.Uint64(tmp[:])
}

// fitsInWidth reports whether v is representable in sz bytes.
func fitsInWidth(v uint64, sz uint8) bool {
	if sz >= 8 {
		return true
	}
	return v>>(sz*8) == 0
}

// writePointer stores the low sz bytes of v, little-endian, into
// buf[off:off+sz]. The caller must have already checked fitsInWidth.
func writePointer(buf []byte, off uint64, sz uint8, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	copy(buf[off:off+uint64(sz)], tmp[:sz])
}
