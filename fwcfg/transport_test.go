package fwcfg

import "testing"

func TestFindMissingItem(t *testing.T) {
	tp := NewFakeTransport()
	if _, _, ok := tp.Find("nope"); ok {
		t.Fatal("expected Find to fail for an unregistered item")
	}
}

func TestReadAdvancesCursorAndRejectsOverrun(t *testing.T) {
	tp := NewFakeTransport()
	tp.AddItem("dsdt", []byte{1, 2, 3, 4})

	id, size, ok := tp.Find("dsdt")
	if !ok || size != 4 {
		t.Fatalf("Find = (%v, %v), want (4, true)", size, ok)
	}
	tp.Select(id)

	buf := make([]byte, 2)
	if err := tp.Read(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[0] != 1 || buf[1] != 2 {
		t.Fatalf("Read = %v, want [1 2]", buf)
	}

	if err := tp.Read(make([]byte, 10)); err == nil {
		t.Fatal("expected overrun read to fail")
	}
}

func TestWriteMutatesInPlace(t *testing.T) {
	tp := NewFakeTransport()
	tp.AddItem("etc/addr", make([]byte, 8))
	id, _, _ := tp.Find("etc/addr")
	tp.Select(id)

	if err := tp.Skip(4); err != nil {
		t.Fatalf("unexpected skip error: %v", err)
	}
	if err := tp.Write([]byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got := tp.Bytes("etc/addr")
	want := []byte{0, 0, 0, 0, 0xAA, 0xBB, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes = %v, want %v", got, want)
		}
	}
}

func TestWriteWithoutSelectFails(t *testing.T) {
	tp := NewFakeTransport()
	tp.AddItem("etc/addr", make([]byte, 8))
	if err := tp.Write([]byte{1}); err == nil {
		t.Fatal("expected write with no item selected to fail")
	}
}

func TestAddItemTwiceReplacesContentsInPlace(t *testing.T) {
	tp := NewFakeTransport()
	tp.AddItem("dsdt", []byte{1, 2})
	idBefore, _, _ := tp.Find("dsdt")
	tp.AddItem("dsdt", []byte{3, 4, 5})
	idAfter, size, _ := tp.Find("dsdt")

	if idBefore != idAfter {
		t.Fatal("expected re-adding an existing item to keep its id stable")
	}
	if size != 3 {
		t.Fatalf("size = %d, want 3", size)
	}
}
