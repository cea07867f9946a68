// Package measure provides a reference implementation of the loader's
// optional MeasureSink collaborator, which attests the loader script and
// every freshly loaded blob: one event per downloaded item, tagged with
// the fw_cfg file name, taken before any relocation command can touch the
// bytes.
package measure

import (
	"github.com/sirupsen/logrus"

	"github.com/sriramkidambi/acpi-fwcfg-loader/loader"
)

// Event is one recorded measurement.
type Event struct {
	Tag    string
	Kind   loader.MeasureKind
	Length int
	Digest [32]byte
}

// TraceSink is a loader.MeasureSink that logs each measurement at Debug
// level and also keeps an in-memory ledger (digest only, not full bytes)
// for test assertions.
type TraceSink struct {
	log    *logrus.Entry
	events []Event
}

// NewTraceSink returns a sink that logs through log (logrus.StandardLogger
// if nil).
func NewTraceSink(log *logrus.Logger) *TraceSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TraceSink{log: log.WithField("component", "measure")}
}

// Measure implements loader.MeasureSink.
func (s *TraceSink) Measure(tag string, kind loader.MeasureKind, data []byte) {
	ev := Event{Tag: tag, Kind: kind, Length: len(data), Digest: fnv32Digest(data)}
	s.events = append(s.events, ev)
	s.log.WithFields(map[string]interface{}{
		"tag":    tag,
		"kind":   kind,
		"length": len(data),
	}).Debug("measure: recorded event")
}

// Events returns every measurement recorded so far, for test assertions.
func (s *TraceSink) Events() []Event {
	return s.events
}

// fnv32Digest is a tiny non-cryptographic content fingerprint; this sink
// exists to prove measurement ordering/coverage in tests, not to stand in
// for a real TPM PCR extend.
func fnv32Digest(data []byte) [32]byte {
	var out [32]byte
	var h uint32 = 2166136261
	for _, b := range data {
		h ^= uint32(b)
		h *= 16777619
	}
	out[0] = byte(h)
	out[1] = byte(h >> 8)
	out[2] = byte(h >> 16)
	out[3] = byte(h >> 24)
	return out
}
