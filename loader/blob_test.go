package loader

import "testing"

func TestBlobRegistryInsertUniqueRejectsDuplicates(t *testing.T) {
	r := newBlobRegistry()

	if !r.InsertUnique(&Blob{Name: "dsdt"}) {
		t.Fatal("first insert of \"dsdt\" should succeed")
	}
	if r.InsertUnique(&Blob{Name: "dsdt"}) {
		t.Fatal("second insert of \"dsdt\" should fail")
	}

	if _, ok := r.Lookup("dsdt"); !ok {
		t.Fatal("expected \"dsdt\" to be registered")
	}
	if _, ok := r.Lookup("ssdt"); ok {
		t.Fatal("did not expect \"ssdt\" to be registered")
	}
}

func TestBlobRegistryOrderedPreservesInsertionOrder(t *testing.T) {
	r := newBlobRegistry()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		r.InsertUnique(&Blob{Name: n})
	}

	ordered := r.Ordered()
	if len(ordered) != len(names) {
		t.Fatalf("expected %d blobs, got %d", len(names), len(ordered))
	}
	for i, n := range names {
		if ordered[i].Name != n {
			t.Fatalf("ordered[%d].Name = %q, want %q", i, ordered[i].Name, n)
		}
	}
}

func TestBlobRegistryDrainEmptiesRegistry(t *testing.T) {
	r := newBlobRegistry()
	r.InsertUnique(&Blob{Name: "dsdt"})

	drained := r.Drain()
	if len(drained) != 1 {
		t.Fatalf("expected 1 drained blob, got %d", len(drained))
	}
	if len(r.Ordered()) != 0 {
		t.Fatal("expected registry to be empty after Drain")
	}
	if _, ok := r.Lookup("dsdt"); ok {
		t.Fatal("expected \"dsdt\" to be gone after Drain")
	}
}
