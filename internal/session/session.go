// Package session owns the resolved model for the running process: it loads
// the settings lazily, keeps the live formatting store in sync and writes the
// minimal projection back on save.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/environment"
	"github.com/zjrosen/tincture/internal/flags"
	"github.com/zjrosen/tincture/internal/formatting"
	"github.com/zjrosen/tincture/internal/history"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/pubsub"
	"github.com/zjrosen/tincture/internal/reconcile"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/tracing"
)

var (
	// ErrUnknownLanguage is returned by Edit for a language not in the model.
	ErrUnknownLanguage = catalog.ErrUnknownLanguage
	// ErrLoadPanicked is returned to callers that waited on a load which
	// panicked.
	ErrLoadPanicked = errors.New("settings load panicked")
)

// Config holds the collaborators of a session. Store, History and Flags are
// optional.
type Config struct {
	SettingsPath string
	Environment  *environment.Environment
	Store        formatting.Store
	History      *history.Recorder
	Tracer       trace.Tracer
	Flags        *flags.Registry
}

// loadOnce tracks one lazy load. Reset swaps in a fresh one.
type loadOnce struct {
	started atomic.Bool
	done    chan struct{}
	err     error
}

func newLoadOnce() *loadOnce {
	return &loadOnce{done: make(chan struct{})}
}

// Session is safe for concurrent use.
type Session struct {
	path    string
	env     *environment.Environment
	store   formatting.Store
	history *history.Recorder
	tracer  trace.Tracer
	flags   *flags.Registry
	broker  *pubsub.Broker[Event]

	init atomic.Pointer[loadOnce]

	mu         sync.Mutex
	model      *model.Model
	tree       settings.Settings
	generation uint64
}

// New creates a session. Nothing is read until the first call that needs
// the model.
func New(cfg Config) *Session {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	s := &Session{
		path:    cfg.SettingsPath,
		env:     cfg.Environment,
		store:   cfg.Store,
		history: cfg.History,
		tracer:  tracer,
		flags:   cfg.Flags,
		broker:  pubsub.NewBroker[Event](pubsub.WithReplay()),
	}
	s.init.Store(newLoadOnce())
	return s
}

// Ensure loads the settings once per session. Concurrent callers wait for
// the first one to finish and share its result.
func (s *Session) Ensure(ctx context.Context) error {
	once := s.init.Load()
	if once.started.CompareAndSwap(false, true) {
		s.runLoad(ctx, once)
	}
	select {
	case <-once.done:
		return once.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoad always releases waiters. A panicking load is recorded as
// ErrLoadPanicked for them and re-raised in the loading goroutine.
func (s *Session) runLoad(ctx context.Context, once *loadOnce) {
	defer close(once.done)
	defer func() {
		if r := recover(); r != nil {
			once.err = fmt.Errorf("%w: %v", ErrLoadPanicked, r)
			panic(r)
		}
	}()
	once.err = s.load(ctx)
}

// Loaded reports whether a load has completed.
func (s *Session) Loaded() bool {
	select {
	case <-s.init.Load().done:
		return true
	default:
		return false
	}
}

// Reset forgets the loaded state so the next Ensure loads again.
func (s *Session) Reset() {
	s.init.Store(newLoadOnce())
	s.mu.Lock()
	s.model = nil
	s.tree = settings.Settings{}
	s.mu.Unlock()
	log.Debug(log.CatSession, "Session reset")
}

func (s *Session) load(ctx context.Context) (err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanLoad,
		trace.WithAttributes(attribute.String(tracing.AttrSettingsPath, s.path)))
	defer func() { tracing.End(span, err) }()

	if _, err := s.env.Init(ctx); err != nil {
		return fmt.Errorf("initializing environment: %w", err)
	}
	return s.rebuild(ctx, settings.Load(s.path), "load")
}

// rebuild resolves tree against the current environment, replaces the model
// and applies it.
func (s *Session) rebuild(ctx context.Context, tree settings.Settings, reason string) error {
	snap, err := s.env.Current(ctx)
	if err != nil {
		return err
	}

	_, span := s.tracer.Start(ctx, tracing.SpanResolve, trace.WithAttributes(
		attribute.Int64(tracing.AttrGeneration, int64(snap.Generation)), //nolint:gosec // generation counts rebuilds
		attribute.String(tracing.AttrReason, reason),
	))
	m := reconcile.Resolve(snap.Catalog, snap.Ambient, snap.BuiltIns, tree)
	span.SetAttributes(attribute.Int(tracing.AttrLanguages, len(m.Languages)))
	tracing.End(span, nil)

	s.mu.Lock()
	s.model = m
	s.tree = tree
	s.generation = snap.Generation
	published := m.Clone()
	s.mu.Unlock()

	log.Debug(log.CatSession, "Model resolved", "reason", reason, "generation", snap.Generation, "languages", len(m.Languages))
	s.broker.Publish(pubsub.ResolvedEvent, Event{Reason: reason, Generation: snap.Generation, Model: s.eventModel(published)})
	s.broker.Publish(pubsub.ClassificationsChangedEvent, Event{Reason: reason, Generation: snap.Generation, Enablement: enablement(published)})

	return s.autoApply(ctx, reason)
}

func (s *Session) eventModel(m *model.Model) *model.Model {
	if s.flags.Enabled(flags.FlagQuietEvents) {
		return nil
	}
	return m
}

// autoApply pushes the model after a rebuild or save unless applying is
// deferred to explicit Apply calls.
func (s *Session) autoApply(ctx context.Context, reason string) error {
	if s.flags.Enabled(flags.FlagDeferApply) {
		log.Debug(log.CatApply, "Apply deferred", "reason", reason)
		return nil
	}
	_, err := s.apply(ctx, reason)
	return err
}

// Model returns a copy of the resolved model.
func (s *Session) Model(ctx context.Context) (*model.Model, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Clone(), nil
}

// Edit runs fn on the live model entry of a language. Changes stay in memory
// until Save.
func (s *Session) Edit(ctx context.Context, language string, fn func(*model.Language) error) error {
	if err := s.Ensure(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lang := s.model.Language(language)
	if lang == nil {
		return fmt.Errorf("%w: %s", ErrUnknownLanguage, language)
	}
	return fn(lang)
}

// Save writes the minimal projection of the model, recording the previous
// document in history first, and re-applies the model.
func (s *Session) Save(ctx context.Context) (err error) {
	if err := s.Ensure(ctx); err != nil {
		return err
	}
	ctx, span := s.tracer.Start(ctx, tracing.SpanSave,
		trace.WithAttributes(attribute.String(tracing.AttrSettingsPath, s.path)))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	tree := reconcile.Project(s.model)
	published := s.model.Clone()
	generation := s.generation
	s.mu.Unlock()

	var snapshotID string
	if s.history != nil {
		snap, recorded, err := s.history.Record(s.path, "save")
		if err != nil {
			return fmt.Errorf("recording history: %w", err)
		}
		if recorded {
			snapshotID = snap.ID
			span.AddEvent(tracing.EventSnapshotRecorded, trace.WithAttributes(attribute.String(tracing.AttrSnapshotID, snap.ID)))
		}
	}

	if err := settings.Save(s.path, tree); err != nil {
		return err
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()

	s.broker.Publish(pubsub.SavedEvent, Event{Reason: "save", Generation: generation, Model: s.eventModel(published), SnapshotID: snapshotID})
	s.broker.Publish(pubsub.ClassificationsChangedEvent, Event{Reason: "save", Generation: generation, Enablement: enablement(published)})

	return s.autoApply(ctx, "save")
}

// Reload rereads the settings file and rebuilds the model, discarding
// unsaved edits.
func (s *Session) Reload(ctx context.Context, reason string) (err error) {
	if !s.Loaded() {
		return s.Ensure(ctx)
	}
	ctx, span := s.tracer.Start(ctx, tracing.SpanReload, trace.WithAttributes(attribute.String(tracing.AttrReason, reason)))
	defer func() { tracing.End(span, err) }()
	return s.rebuild(ctx, settings.Load(s.path), reason)
}

// Invalidate drops the cached catalog and ambient defaults and rebuilds the
// model from the last loaded settings. Call it when the host reports new
// classifications or a default formatting change.
func (s *Session) Invalidate(ctx context.Context, reason string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanInvalidate, trace.WithAttributes(attribute.String(tracing.AttrReason, reason)))
	defer func() { tracing.End(span, err) }()

	s.env.Invalidate(ctx, reason)
	s.broker.Publish(pubsub.InvalidatedEvent, Event{Reason: reason})
	if !s.Loaded() {
		return nil
	}

	s.mu.Lock()
	tree := s.tree
	s.mu.Unlock()
	return s.rebuild(ctx, tree, reason)
}

// Apply pushes the current model into the live store.
func (s *Session) Apply(ctx context.Context) ([]formatting.Report, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	return s.apply(ctx, "apply")
}

func (s *Session) apply(ctx context.Context, reason string) (reports []formatting.Report, err error) {
	if s.store == nil {
		return nil, nil
	}
	snap, err := s.env.Current(ctx)
	if err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, tracing.SpanApply, trace.WithAttributes(attribute.String(tracing.AttrReason, reason)))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return nil, nil
	}

	if registrar, ok := s.store.(formatting.Registrar); ok {
		n := register(registrar, s.model, formatting.AmbientAttributes(snap.Ambient))
		if n > 0 {
			span.AddEvent(tracing.EventRegistered, trace.WithAttributes(attribute.Int("count", n)))
		}
	}

	reports, err = formatting.ApplyModel(s.model, s.store, snap.Ambient)
	updated, skipped, changes := 0, 0, 0
	for _, r := range reports {
		updated += len(r.Updated)
		skipped += len(r.Skipped)
		changes += r.Changes
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrUpdated, updated),
		attribute.Int(tracing.AttrSkipped, skipped),
		attribute.Int(tracing.AttrChanges, changes),
	)
	if err != nil {
		return reports, fmt.Errorf("applying formatting: %w", err)
	}
	s.broker.Publish(pubsub.AppliedEvent, Event{Reason: reason, Generation: snap.Generation, Reports: reports})
	return reports, nil
}

// register adds every model classification the store does not know yet.
func register(r formatting.Registrar, m *model.Model, initial formatting.Attributes) int {
	n := 0
	for _, lang := range m.Languages {
		for _, c := range lang.Classifications {
			if r.Register(c.Name, initial) {
				n++
			}
		}
	}
	if n > 0 {
		log.Debug(log.CatApply, "Registered classifications", "count", n)
	}
	return n
}

// Subscribe returns a channel of session events. A new subscriber first
// receives the most recent event.
func (s *Session) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return s.broker.Subscribe(ctx)
}

// Broker exposes the event broker for pubsub helpers.
func (s *Session) Broker() *pubsub.Broker[Event] {
	return s.broker
}

// Close shuts down the event broker.
func (s *Session) Close() {
	s.broker.Close()
}
