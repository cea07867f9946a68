package loader

import "testing"

func TestReadPointerZeroExtends(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22}
	if got, want := readPointer(buf, 0, 2), uint64(0xBBAA); got != want {
		t.Fatalf("readPointer(2) = 0x%x, want 0x%x", got, want)
	}
	if got, want := readPointer(buf, 0, 8), uint64(0x22_11_FF_EE_DD_CC_BB_AA); got != want {
		t.Fatalf("readPointer(8) = 0x%x, want 0x%x", got, want)
	}
}

func TestWritePointerRoundTrips(t *testing.T) {
	buf := make([]byte, 8)
	writePointer(buf, 0, 4, 0x12345678)
	if got, want := readPointer(buf, 0, 4), uint64(0x12345678); got != want {
		t.Fatalf("round trip = 0x%x, want 0x%x", got, want)
	}
	// Bytes past the written width must be untouched.
	if buf[4] != 0 {
		t.Fatalf("write leaked past the requested width")
	}
}

func TestFitsInWidth(t *testing.T) {
	cases := []struct {
		v    uint64
		sz   uint8
		want bool
	}{
		{0, 1, true},
		{0xFF, 1, true},
		{0x100, 1, false},
		{0xFFFF, 2, true},
		{0x10000, 2, false},
		{0xFFFFFFFF, 4, true},
		{0x100000000, 4, false},
		{0xFFFFFFFFFFFFFFFF, 8, true},
	}
	for _, c := range cases {
		if got := fitsInWidth(c.v, c.sz); got != c.want {
			t.Errorf("fitsInWidth(0x%x, %d) = %v, want %v", c.v, c.sz, got, c.want)
		}
	}
}

func TestValidPointerSize(t *testing.T) {
	for _, sz := range []uint8{1, 2, 4, 8} {
		if !validPointerSize(sz) {
			t.Errorf("validPointerSize(%d) = false, want true", sz)
		}
	}
	for _, sz := range []uint8{0, 3, 5, 6, 7, 16} {
		if validPointerSize(sz) {
			t.Errorf("validPointerSize(%d) = true, want false", sz)
		}
	}
}
