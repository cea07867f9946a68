package acpitable

import "testing"

func TestPutChecksumMakesTableSumToZero(t *testing.T) {
	table := []byte{'D', 'S', 'D', 'T', 40, 0, 0, 0, 2, 0xFF, 7, 7}
	PutChecksum(table, 9)

	var sum uint8
	for _, b := range table {
		sum += b
	}
	if sum != 0 {
		t.Fatalf("sum = %d, want 0", sum)
	}
}

func TestPutChecksumOverwritesStaleByte(t *testing.T) {
	table := make([]byte, 10)
	table[9] = 0xAB // stale value from a previous computation
	PutChecksum(table, 9)

	var sum uint8
	for _, b := range table {
		sum += b
	}
	if sum != 0 {
		t.Fatalf("sum = %d, want 0", sum)
	}
}
