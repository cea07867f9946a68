package loader

// teardown performs the unified rollback/commit drain.
// When commitOK is true, only blobs whose Opaque flag remained false
// are freed (their bytes were fully absorbed into installed tables); when
// commitOK is false, every blob is freed regardless of Opaque, tables are
// uninstalled newest-first, and every write_pointer effect is reversed.
func teardown(st *execState, ist *installState, commitOK bool) {
	if !commitOK {
		uninstallAll(st, ist)
		reverseWrites(st)
	}

	drainBlobs(st, commitOK)

	if !commitOK && st.replay != nil {
		st.replay.Release()
	}
}

// uninstallAll requests removal of every installed table, newest first.
// Errors are logged and ignored: the registry is an external collaborator
// and a failed uninstall here must not mask the original failure.
func uninstallAll(st *execState, ist *installState) {
	for i := len(ist.installed) - 1; i >= 0; i-- {
		handle := ist.installed[i]
		if err := ist.registry.Uninstall(handle); err != nil {
			st.log.WithError(err).WithField("handle", handle).Warn("loader: failed to uninstall table during rollback")
		}
	}
	ist.installed = nil
}

// reverseWrites zeroes every slot that a successful write_pointer wrote to,
// in reverse script order. Best-effort: failures are logged, not
// propagated.
func reverseWrites(st *execState) {
	var zero [8]byte
	for i := len(st.written) - 1; i >= 0; i-- {
		w := st.written[i]
		st.transport.Select(w.item)
		if err := st.transport.Skip(w.offset); err != nil {
			st.log.WithError(err).Warn("loader: failed to seek during write_pointer rollback")
			continue
		}
		if err := st.transport.Write(zero[:w.size]); err != nil {
			st.log.WithError(err).Warn("loader: failed to zero host-visible pointer during rollback")
		}
	}
	st.written = nil
}

// drainBlobs empties the blob registry, freeing pages for every blob that
// must not survive: on failure, all of them; on success, only those whose
// Opaque flag remained false (their bytes were fully absorbed into
// installed tables).
func drainBlobs(st *execState, commitOK bool) {
	for _, b := range st.blobs.Drain() {
		if !commitOK || !b.Opaque {
			st.alloc.FreePages(b.Base, b.Pages)
		}
	}
}
