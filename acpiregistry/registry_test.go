package acpiregistry

import "testing"

func sdt(sig string, length int) []byte {
	b := make([]byte, length)
	copy(b[0:4], sig)
	return b
}

func TestInstallAndUninstallRoundTrip(t *testing.T) {
	r := NewTableRegistry()
	handle, err := r.Install(sdt("DSDT", 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}

	if err := r.Uninstall(handle); err != nil {
		t.Fatalf("unexpected uninstall error: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after uninstall", r.Len())
	}
}

func TestInstallRejectsRSDTAndXSDT(t *testing.T) {
	r := NewTableRegistry()
	for _, sig := range []string{"RSDT", "XSDT"} {
		if _, err := r.Install(sdt(sig, 40)); err == nil {
			t.Fatalf("expected %s install to be rejected", sig)
		}
	}
}

func TestInstallRejectsTooShortTable(t *testing.T) {
	r := NewTableRegistry()
	if _, err := r.Install(make([]byte, 10)); err == nil {
		t.Fatal("expected a too-short table to be rejected")
	}
}

func TestUninstallRejectsUnknownHandle(t *testing.T) {
	r := NewTableRegistry()
	if err := r.Uninstall(999); err == nil {
		t.Fatal("expected uninstall of an unknown handle to fail")
	}
}

func TestSignaturesReportsInstalledTables(t *testing.T) {
	r := NewTableRegistry()
	r.Install(sdt("DSDT", 40))
	r.Install(sdt("SSDT", 40))

	sigs := map[string]bool{}
	for _, s := range r.Signatures() {
		sigs[s] = true
	}
	if !sigs["DSDT"] || !sigs["SSDT"] {
		t.Fatalf("Signatures = %v, want DSDT and SSDT", r.Signatures())
	}
}
