package loader

import "encoding/binary"

// ScriptBuilder assembles a raw loader script byte-for-byte, the inverse of
// the decoding done in wire.go and parser.go. It exists for tests and for
// any caller (e.g. the demo binary) that needs to synthesize a script
// rather than receive one from a real fw_cfg device.
type ScriptBuilder struct {
	buf []byte
}

// NewScriptBuilder returns an empty builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{}
}

// Bytes returns the assembled script.
func (b *ScriptBuilder) Bytes() []byte {
	return b.buf
}

func putName(body []byte, off int, name string) {
	if len(name) >= NameMax {
		panic("loader: name exceeds NameMax")
	}
	copy(body[off:off+len(name)], name)
}

func (b *ScriptBuilder) appendRecord(kind commandKind, fill func(body []byte)) *ScriptBuilder {
	rec := make([]byte, recordSize)
	binary.LittleEndian.PutUint32(rec[0:4], uint32(kind))
	fill(rec[4:])
	b.buf = append(b.buf, rec...)
	return b
}

// Allocate appends an Allocate(name, alignment, zone) command.
func (b *ScriptBuilder) Allocate(name string, alignment uint32, zone uint8) *ScriptBuilder {
	return b.appendRecord(cmdAllocate, func(body []byte) {
		putName(body, 0, name)
		binary.LittleEndian.PutUint32(body[NameMax:NameMax+4], alignment)
		body[NameMax+4] = zone
	})
}

// AddPointer appends an AddPointer command.
func (b *ScriptBuilder) AddPointer(pointerFile, pointeeFile string, pointerOffset uint32, pointerSize uint8) *ScriptBuilder {
	return b.appendRecord(cmdAddPointer, func(body []byte) {
		putName(body, 0, pointerFile)
		putName(body, NameMax, pointeeFile)
		off := 2 * NameMax
		binary.LittleEndian.PutUint32(body[off:off+4], pointerOffset)
		body[off+4] = pointerSize
	})
}

// AddChecksum appends an AddChecksum command.
func (b *ScriptBuilder) AddChecksum(file string, resultOffset, start, length uint32) *ScriptBuilder {
	return b.appendRecord(cmdAddChecksum, func(body []byte) {
		putName(body, 0, file)
		off := NameMax
		binary.LittleEndian.PutUint32(body[off:off+4], resultOffset)
		binary.LittleEndian.PutUint32(body[off+4:off+8], start)
		binary.LittleEndian.PutUint32(body[off+8:off+12], length)
	})
}

// WritePointer appends a WritePointer command.
func (b *ScriptBuilder) WritePointer(pointerFile, pointeeFile string, pointerOffset, pointeeOffset uint32, pointerSize uint8) *ScriptBuilder {
	return b.appendRecord(cmdWritePointer, func(body []byte) {
		putName(body, 0, pointerFile)
		putName(body, NameMax, pointeeFile)
		off := 2 * NameMax
		binary.LittleEndian.PutUint32(body[off:off+4], pointerOffset)
		binary.LittleEndian.PutUint32(body[off+4:off+8], pointeeOffset)
		body[off+8] = pointerSize
	})
}

// Unknown appends a record with an unrecognised discriminator, for testing
// forward-compatible skip behaviour.
func (b *ScriptBuilder) Unknown(kind uint32) *ScriptBuilder {
	return b.appendRecord(commandKind(kind), func(body []byte) {})
}
