package loader

import "testing"

func TestScanRestrictionsNarrowPointerAddsRestriction(t *testing.T) {
	b := NewScriptBuilder()
	b.Allocate("big", PageSize, 0)
	b.AddPointer("ptr", "big", 0, 4)

	set, err := scanRestrictions(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.has("big") {
		t.Fatal("expected \"big\" to be restricted to 32-bit addressing")
	}
}

func TestScanRestrictionsWidePointerSkipsRestriction(t *testing.T) {
	b := NewScriptBuilder()
	b.AddPointer("ptr", "huge", 0, 8)

	set, err := scanRestrictions(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.has("huge") {
		t.Fatal("did not expect \"huge\" to be restricted for an 8-byte pointer")
	}
}

func TestScanRestrictionsIsIdempotent(t *testing.T) {
	b := NewScriptBuilder()
	b.AddPointer("ptr1", "big", 0, 4)
	b.AddPointer("ptr2", "big", 4, 2)

	set, err := scanRestrictions(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.has("big") {
		t.Fatal("expected \"big\" to be restricted")
	}
}
