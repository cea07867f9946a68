package loader

// restrictionSet is the set of blob names that must be allocated in the low
// 32-bit address range: every name mentioned as the pointee of an
// AddPointer command whose pointer_size < 8, since a narrow pointer cannot
// hold an address at or above 4 GiB.
type restrictionSet map[string]struct{}

func (s restrictionSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s restrictionSet) add(name string) {
	s[name] = struct{}{}
}

// scanRestrictions walks the script once, before the first pass runs, and
// collects every pointee name an AddPointer refers to through a narrow
// pointer. It is idempotent on duplicate inserts and fails BadScript if any
// name field it inspects along the way lacks a NUL terminator within its
// bounded buffer, not only AddPointer's.
func scanRestrictions(script []byte) (restrictionSet, *Error) {
	p, err := newScriptParser(script)
	if err != nil {
		return nil, err
	}

	set := make(restrictionSet)
	for {
		cmd, ok := p.Next()
		if !ok {
			break
		}

		switch cmd.kind {
		case cmdAllocate:
			if cmd.malformed {
				return nil, newErr("restriction.scan", KindBadScript, "malformed file name in Allocate")
			}
		case cmdAddPointer:
			if cmd.malformed {
				return nil, newErr("restriction.scan", KindBadScript, "malformed file name in AddPointer")
			}
			if cmd.addPointer.pointerSize < 8 {
				set.add(cmd.addPointer.pointeeFile)
			}
		case cmdAddChecksum:
			if cmd.malformed {
				return nil, newErr("restriction.scan", KindBadScript, "malformed file name in AddChecksum")
			}
		case cmdWritePointer:
			if cmd.malformed {
				return nil, newErr("restriction.scan", KindBadScript, "malformed file name in WritePointer")
			}
		}
	}

	return set, nil
}
