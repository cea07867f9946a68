package loader

import (
	"github.com/sirupsen/logrus"
)

// Config configures an Orchestrator.
type Config struct {
	// ScriptItem overrides the well-known script item name
	// (ScriptItemName) used to locate the loader script. Leave empty to
	// use the default.
	ScriptItem string

	// Log receives structured diagnostics. A nil Log defaults to
	// logrus.StandardLogger().
	Log *logrus.Logger

	// PostCommitHook, if non-nil, runs once after a successful commit,
	// with the registry and the list of blobs that survived (Opaque ==
	// true). It is never invoked on the rollback path. Platform
	// extensions that append extra tables attach here; the interpreter
	// core never injects platform-specific tables itself.
	PostCommitHook func(reg Registry, survivingBlobs []*Blob)
}

// Result summarises a successful Load.
type Result struct {
	// InstalledTables is the number of ACPI tables installed by the
	// second pass (RSDT/XSDT synthesis excluded, duplicates excluded).
	InstalledTables int

	// SurvivingBlobs are the blobs retained after commit (Opaque ==
	// true): those whose address the host learned about via
	// write_pointer, or whose bytes didn't resolve to a recognised
	// table.
	SurvivingBlobs []*Blob
}

// Orchestrator drives the two-pass interpreter: it wires the Transport,
// Allocator, Registry, optional ReplayLog and MeasureSink collaborators,
// runs Pass 1 and Pass 2, and commits or rolls back as a single atomic
// unit.
type Orchestrator struct {
	cfg       Config
	transport Transport
	alloc     Allocator
	registry  Registry
	replay    ReplayLog
	measure   MeasureSink
}

// NewOrchestrator constructs an Orchestrator over the given collaborators.
// replay and measure may be nil; replay == nil disables replay-log capture
// and measure == nil disables measurement.
func NewOrchestrator(cfg Config, transport Transport, alloc Allocator, registry Registry, replay ReplayLog, measure MeasureSink) *Orchestrator {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if measure == nil {
		measure = noopMeasureSink{}
	}
	return &Orchestrator{cfg: cfg, transport: transport, alloc: alloc, registry: registry, replay: replay, measure: measure}
}

type noopMeasureSink struct{}

func (noopMeasureSink) Measure(string, MeasureKind, []byte) {}

// Load locates the loader script, parses and executes it, and installs any
// ACPI tables it discovers. On any failure it fully reverts visible state
// and returns the first error encountered.
func (o *Orchestrator) Load() (*Result, error) {
	log := o.cfg.Log.WithField("component", "loader")

	scriptName := o.cfg.ScriptItem
	if scriptName == "" {
		scriptName = ScriptItemName
	}

	id, size, ok := o.transport.Find(scriptName)
	if !ok {
		return nil, newErrf("orchestrator.Load", KindNotFound, "loader script %q not found", scriptName)
	}

	script := make([]byte, size)
	o.transport.Select(id)
	if err := o.transport.Read(script); err != nil {
		return nil, wrapDownstream("orchestrator.Load", err)
	}

	o.measure.Measure(scriptName, MeasureKindScript, script)

	restrictions, rerr := scanRestrictions(script)
	if rerr != nil {
		return nil, rerr
	}

	st := &execState{
		transport:    o.transport,
		alloc:        o.alloc,
		measure:      o.measure,
		replay:       o.replay,
		log:          log,
		restrictions: restrictions,
		blobs:        newBlobRegistry(),
	}
	ist := &installState{
		registry: o.registry,
		blobs:    st.blobs,
		seen:     make(seenPointers),
	}

	if err := runFirstPass(script, st); err != nil {
		log.WithError(err).Error("loader: first pass failed, rolling back")
		teardown(st, ist, false)
		return nil, err
	}

	if err := runSecondPass(script, st, ist); err != nil {
		log.WithError(err).Error("loader: second pass failed, rolling back")
		teardown(st, ist, false)
		return nil, err
	}

	if o.replay != nil {
		if err := o.replay.Commit(); err != nil {
			wrapped := wrapDownstream("orchestrator.Load", err)
			log.WithError(wrapped).Error("loader: replay log commit failed, rolling back")
			teardown(st, ist, false)
			return nil, wrapped
		}
		// Ownership of the replay log transfers to the caller on
		// commit; we no longer Release() it here.
	}

	surviving := make([]*Blob, 0, len(st.blobs.Ordered()))
	for _, b := range st.blobs.Ordered() {
		if b.Opaque {
			surviving = append(surviving, b)
		}
	}

	if o.cfg.PostCommitHook != nil {
		o.cfg.PostCommitHook(o.registry, surviving)
	}

	teardown(st, ist, true)

	return &Result{InstalledTables: len(ist.installed), SurvivingBlobs: surviving}, nil
}
