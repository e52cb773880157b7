package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/pulseops/Autosource/internal/engine"
	"github.com/pulseops/Autosource/internal/rule"
	"github.com/pulseops/Autosource/internal/schema"
)

// Error codes reported by commands. Story failures use the engine's codes
// (E201 structural, E202 rule, E203 schema, E204 lookup).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeRegistry    = "E002" // Schema set failed to build
	ErrCodeNotFound    = "E005" // Story file not found
	ErrCodeWriteFailed = "E007" // Metrics file write error
)

// session bundles what one command invocation needs to generate events.
type session struct {
	engine  *engine.Engine
	metrics *engine.Metrics // nil unless --metrics-file is set
	logger  *slog.Logger
	opts    *RootOptions
}

// newLogger returns a text logger on w at Info, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newSession builds a registry, interpreter and engine from the options.
func newSession(opts *RootOptions, logw io.Writer) (*session, error) {
	logger := newLogger(logw, opts.Verbose)

	reg, err := schema.New(opts.Registry)
	if err != nil {
		return nil, err
	}

	interpOpts := []rule.Option{rule.WithSeed(opts.Seed)}
	if opts.TextGenerator != nil {
		interpOpts = append(interpOpts, rule.WithTextGenerator(opts.TextGenerator))
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	var metrics *engine.Metrics
	if opts.MetricsFile != "" {
		metrics = engine.NewMetrics()
		engineOpts = append(engineOpts, engine.WithMetrics(metrics))
	}
	if opts.RunIDs != nil {
		engineOpts = append(engineOpts, engine.WithRunIDGenerator(opts.RunIDs))
	}

	logger.Debug("engine configured",
		"registry", reg.Name(),
		"schemas", len(reg.List()),
		"seed", opts.Seed)

	return &session{
		engine:  engine.New(reg, rule.NewInterpreter(interpOpts...), engineOpts...),
		metrics: metrics,
		logger:  logger,
		opts:    opts,
	}, nil
}

// flushMetrics writes the metrics textfile if one was requested.
func (s *session) flushMetrics() error {
	if s.metrics == nil {
		return nil
	}
	if err := s.metrics.WriteTextfile(s.opts.MetricsFile); err != nil {
		return err
	}
	s.logger.Debug("metrics written", "path", s.opts.MetricsFile)
	return nil
}

// storyErrorCode maps a generation error to its CLI code and exit code.
func storyErrorCode(err error) (string, int) {
	kind := engine.Classify(err)
	if kind == engine.KindStructural && errors.Is(err, os.ErrNotExist) {
		return ErrCodeNotFound, ExitCommandError
	}
	if kind == engine.KindOther {
		return ErrCodeGeneric, ExitCommandError
	}
	return kind.Code(), ExitFailure
}

// storyErrorDetails extracts the location of a generation failure.
func storyErrorDetails(err error) map[string]any {
	details := map[string]any{"kind": string(engine.Classify(err))}

	var gerr *engine.GenerateError
	if errors.As(err, &gerr) {
		details["source"] = gerr.Source
		details["event"] = gerr.Event
		details["spec_index"] = gerr.SpecIndex
		details["repetition"] = gerr.Repetition
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		details["field"] = ve.Field
	}
	var re *rule.Error
	if errors.As(err, &re) && re.Field != "" {
		details["field"] = re.Field
	}
	return details
}
