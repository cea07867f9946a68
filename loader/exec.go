package loader

import (
	"github.com/sirupsen/logrus"
)

// writtenPointer records one successful write_pointer effect, enough to
// reverse it during rollback or to feed the replay log.
type writtenPointer struct {
	item   ItemID
	offset uint64
	size   uint8
}

// execState carries everything the first-pass executor threads between
// command handlers. It is process-local to one Load call; references to
// blobs held here are non-owning and live only for the duration of the
// operation.
type execState struct {
	transport Transport
	alloc     Allocator
	measure   MeasureSink
	replay    ReplayLog
	log       *logrus.Entry

	restrictions restrictionSet
	blobs        *blobRegistry

	// written is the prefix of successful write_pointer effects, in
	// script order, used both for rollback reversal and as the
	// success watermark.
	written []writtenPointer
}
