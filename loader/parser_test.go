package loader

import "testing"

func TestNewScriptParserRejectsMisalignedLength(t *testing.T) {
	_, err := newScriptParser(make([]byte, recordSize+1))
	if err == nil {
		t.Fatal("expected BadScript for misaligned script length")
	}
	if err.Kind != KindBadScript {
		t.Fatalf("expected KindBadScript, got %v", err.Kind)
	}
}

func TestParserRoundTripsAllCommandKinds(t *testing.T) {
	b := NewScriptBuilder()
	b.Allocate("dsdt", 8, 1)
	b.AddPointer("ptr", "dsdt", 4, 4)
	b.AddChecksum("dsdt", 9, 0, 36)
	b.WritePointer("etc/item", "dsdt", 0, 0, 4)

	p, err := newScriptParser(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	cmd, ok := p.Next()
	if !ok || cmd.kind != cmdAllocate || cmd.allocate.name != "dsdt" || cmd.allocate.alignment != 8 || cmd.allocate.zone != 1 {
		t.Fatalf("unexpected allocate command: %+v", cmd)
	}

	cmd, ok = p.Next()
	if !ok || cmd.kind != cmdAddPointer || cmd.addPointer.pointerFile != "ptr" || cmd.addPointer.pointeeFile != "dsdt" {
		t.Fatalf("unexpected add_pointer command: %+v", cmd)
	}

	cmd, ok = p.Next()
	if !ok || cmd.kind != cmdAddChecksum || cmd.addChecksum.length != 36 {
		t.Fatalf("unexpected add_checksum command: %+v", cmd)
	}

	cmd, ok = p.Next()
	if !ok || cmd.kind != cmdWritePointer || cmd.writePointer.pointerFile != "etc/item" {
		t.Fatalf("unexpected write_pointer command: %+v", cmd)
	}

	if _, ok = p.Next(); ok {
		t.Fatal("expected EOF after four commands")
	}
}

func TestParserSkipsUnknownKind(t *testing.T) {
	b := NewScriptBuilder()
	b.Unknown(0xFEEDFACE)
	b.Allocate("dsdt", 0, 0)

	p, err := newScriptParser(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	cmd, ok := p.Next()
	if !ok || cmd.kind != commandKind(0xFEEDFACE) {
		t.Fatalf("expected unknown command to be yielded, not errored: %+v", cmd)
	}

	cmd, ok = p.Next()
	if !ok || cmd.kind != cmdAllocate {
		t.Fatalf("expected parsing to continue past the unknown command, got %+v", cmd)
	}
}

func TestParserResetRewalksCommands(t *testing.T) {
	b := NewScriptBuilder()
	b.Allocate("dsdt", 0, 0)

	p, err := newScriptParser(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}
	p.Next()
	if !p.EOF() {
		t.Fatal("expected EOF after consuming the only command")
	}
	p.Reset()
	if p.EOF() {
		t.Fatal("expected Reset to rewind the cursor")
	}
	if _, ok := p.Next(); !ok {
		t.Fatal("expected Next to yield the command again after Reset")
	}
}
