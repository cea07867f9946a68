package acpitable

// Checksum returns the two's-complement negation of the 8-bit sum over
// table. Written at table's checksum field while that field holds zero, it
// makes the sum over table equal to zero modulo 256, the standard ACPI
// table integrity rule.
func Checksum(table []byte) byte {
	var sum uint8
	for _, b := range table {
		sum += b
	}
	return byte(256 - uint16(sum)%256)
}

// PutChecksum computes Checksum(table) with the byte at offset zeroed out
// first, and writes it back at offset. Used by callers assembling a
// complete, self-consistent table outside of the loader's own
// add_checksum command (e.g. test fixtures, the demo binary).
func PutChecksum(table []byte, offset int) {
	table[offset] = 0
	table[offset] = Checksum(table)
}
