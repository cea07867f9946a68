// Package acpitable defines the on-the-wire ACPI table header layouts the
// loader's second pass needs in order to recognise a patched pointer target
// as a table, rather than opaque data.
package acpitable

// Signature lengths/offsets, shared by the header-sniffing code in
// loader/install.go.
const (
	// SDTHeaderLen is sizeof(SDTHeader): the minimum size of a standard
	// ACPI table header.
	SDTHeaderLen = 36

	// FACSHeaderLen is the minimum size of an FACS (64 bytes). The
	// FACSHeader struct below declares only its leading 16 bytes.
	FACSHeaderLen = 64
)

// Well-known signatures the second-pass installer treats specially.
const (
	SignatureFACS = "FACS"
	SignatureRSDT = "RSDT"
	SignatureXSDT = "XSDT"
)

// SDTHeader is the common header shared by every standard ACPI table
// (everything except the FACS, which has its own non-standard layout).
type SDTHeader struct {
	Signature [4]byte
	Length    uint32

	Revision uint8
	Checksum uint8

	OEMID       [6]byte
	OEMTableID  [8]byte
	OEMRevision uint32

	CreatorID       uint32
	CreatorRevision uint32
}

// RSDPDescriptor is the ACPI 1.0 root system descriptor pointer.
type RSDPDescriptor struct {
	Signature [8]byte
	Checksum  uint8
	OEMID     [6]byte
	Revision  uint8
	RSDTAddr  uint32
}

// ExtRSDPDescriptor extends RSDPDescriptor for ACPI 2.0+.
type ExtRSDPDescriptor struct {
	RSDPDescriptor

	Length           uint32
	XSDTAddr         uint64
	ExtendedChecksum uint8

	reserved [3]byte
}

// FACSHeader is the non-standard header used by the Firmware ACPI Control
// Structure: a signature and a length, no checksum field.
type FACSHeader struct {
	Signature       [4]byte
	Length          uint32
	HardwareVersion uint32
	FirmwareVersion uint32
}

// FADT64 holds the 64-bit FADT extensions used by ACPI 2.0+.
type FADT64 struct {
	FirmwareControl uint64
	Dsdt            uint64
}

// FADT (Fixed ACPI Description Table) carries the DSDT/FACS pointers the
// platform needs at runtime. The loader doesn't need to parse it to
// materialise tables; it is kept for platform extensions that inspect
// installed tables after commit.
type FADT struct {
	SDTHeader

	FirmwareCtrl uint32
	Dsdt         uint32

	reserved uint8

	PreferredPowerManagementProfile uint8
	SCIInterrupt                    uint16
	SMICommandPort                  uint32
	AcpiEnable                      uint8
	AcpiDisable                     uint8

	Ext FADT64
}
