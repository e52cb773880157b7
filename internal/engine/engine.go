package engine

import (
	"log/slog"
	"time"

	"github.com/pulseops/Autosource/internal/rule"
	"github.com/pulseops/Autosource/internal/schema"
	"github.com/pulseops/Autosource/internal/story"
)

// Engine loads stories and generates their event streams.
//
// The registry and interpreter are owned by the engine for its lifetime;
// two engines never share schemas or random state.
type Engine struct {
	registry *schema.Registry
	interp   *rule.Interpreter
	loader   *story.Loader
	runIDs   RunIDGenerator
	metrics  *Metrics
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records generation metrics. Default: none.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRunIDGenerator sets the run id source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// New creates an Engine that validates against registry and resolves data
// rules with interp. A nil interp gets a randomly seeded interpreter.
func New(registry *schema.Registry, interp *rule.Interpreter, opts ...Option) *Engine {
	if interp == nil {
		interp = rule.NewInterpreter()
	}
	e := &Engine{
		registry: registry,
		interp:   interp,
		runIDs:   UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.loader = story.NewLoader(e.logger)
	return e
}

// Registry returns the engine's schema registry.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// StreamStory loads the story at path, flattens its includes and returns the
// generated events in chronological order.
func (e *Engine) StreamStory(path string) (*Stream, error) {
	start := time.Now()
	runID := e.runIDs.Generate()
	log := e.logger.With("run_id", runID)

	root, specs, err := e.loader.LoadAndFlatten(path)
	if err != nil {
		e.metrics.observeFailure(err)
		return nil, err
	}
	log.Debug("story loaded",
		"story", root.Path,
		"org_id", root.OrgID,
		"start_date", root.StartDate.String(),
		"includes", len(root.Includes))

	s, err := e.generate(runID, root, specs)
	if err != nil {
		log.Debug("generation failed", "story", root.Path, "error", err)
		return nil, err
	}
	e.metrics.observeStream(time.Since(start))

	log.Info("stream ready",
		"story", root.Path,
		"specs", len(specs),
		"events", s.Len())
	return s, nil
}

// Generate expands an already flattened spec list using st's organization
// and start date. Every event is produced before Generate returns; on error
// no stream is returned.
func (e *Engine) Generate(st *story.StoryConfig, specs []story.EventSpec) (*Stream, error) {
	start := time.Now()
	s, err := e.generate(e.runIDs.Generate(), st, specs)
	if err != nil {
		return nil, err
	}
	e.metrics.observeStream(time.Since(start))
	return s, nil
}

func (e *Engine) generate(runID string, st *story.StoryConfig, specs []story.EventSpec) (*Stream, error) {
	q := newEventQueue()

	for i, spec := range specs {
		for rep := range spec.Occurrences() {
			ts := st.StartDate.AddDays(spec.DayOffset(rep))
			ev, err := e.buildEvent(st, spec, ts)
			if err != nil {
				gerr := &GenerateError{
					Source:     spec.Source,
					Event:      spec.Event,
					SpecIndex:  i,
					Repetition: rep,
					Err:        err,
				}
				e.metrics.observeFailure(gerr)
				return nil, gerr
			}
			q.Push(ev, ts.Time)
		}
	}

	for _, item := range q.items {
		e.metrics.observeEvent(item.event)
	}
	return newStream(runID, q), nil
}

func (e *Engine) buildEvent(st *story.StoryConfig, spec story.EventSpec, ts story.StartDate) (Event, error) {
	data, err := e.interp.ResolveData(spec.Data)
	if err != nil {
		return Event{}, err
	}
	validated, err := e.registry.Validate(spec.Source, spec.Event, data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Source:    spec.Source,
		Event:     spec.Event,
		OrgID:     st.OrgID,
		Timestamp: ts.String(),
		Data:      validated,
	}, nil
}
