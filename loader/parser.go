package loader

// command is the tagged variant produced by the parser: exactly one of the
// payload fields is meaningful, selected by kind. Unknown kinds carry no
// payload and are surfaced so callers can log-and-skip them.
type command struct {
	kind commandKind

	allocate     allocateCmd
	addPointer   addPointerCmd
	addChecksum  addChecksumCmd
	writePointer writePointerCmd

	// malformed is set when the record's discriminator is recognised but
	// a fixed-size name field inside its payload lacks a NUL terminator.
	malformed bool
}

// scriptParser walks a raw script byte array one fixed-size record at a
// time: a bounded forward cursor with explicit EOF checks, no look-ahead.
type scriptParser struct {
	data   []byte
	offset int
}

// newScriptParser validates that len(script) is a multiple of the fixed
// record size and returns a parser positioned at the start.
func newScriptParser(script []byte) (*scriptParser, *Error) {
	if len(script)%recordSize != 0 {
		return nil, newErrf("parser.New", KindBadScript,
			"script length %d is not a multiple of the record size %d", len(script), recordSize)
	}
	return &scriptParser{data: script}, nil
}

// EOF reports whether every record has been consumed.
func (p *scriptParser) EOF() bool {
	return p.offset >= len(p.data)
}

// Next decodes the next record into a command. It returns ok == false once
// EOF is reached. Decoding failures for a recognised kind's name fields are
// reported via command.malformed rather than a separate error return, since
// the caller (the first-pass executor) is the one with enough context to
// turn that into the right *Error at the right point in its own ordering
// of checks.
func (p *scriptParser) Next() (command, bool) {
	if p.EOF() {
		return command{}, false
	}

	raw := decodeRawRecord(p.data[p.offset : p.offset+recordSize])
	p.offset += recordSize

	cmd := command{kind: raw.kind}
	switch raw.kind {
	case cmdAllocate:
		a, ok := decodeAllocate(raw.body[:])
		cmd.allocate = a
		cmd.malformed = !ok
	case cmdAddPointer:
		a, ok := decodeAddPointer(raw.body[:])
		cmd.addPointer = a
		cmd.malformed = !ok
	case cmdAddChecksum:
		a, ok := decodeAddChecksum(raw.body[:])
		cmd.addChecksum = a
		cmd.malformed = !ok
	case cmdWritePointer:
		a, ok := decodeWritePointer(raw.body[:])
		cmd.writePointer = a
		cmd.malformed = !ok
	default:
		// Unknown discriminator: forward-compatible, never an error.
	}

	return cmd, true
}

// Reset rewinds the parser to the beginning of the script so a second pass
// can re-walk the same commands.
func (p *scriptParser) Reset() {
	p.offset = 0
}
