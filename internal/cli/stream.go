package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pulseops/Autosource/internal/engine"
	"github.com/pulseops/Autosource/internal/value"
)

// StreamOptions holds flags for the stream command.
type StreamOptions struct {
	*RootOptions
	Limit int
}

// StreamResult is the JSON payload of a successful stream.
type StreamResult struct {
	RunID  string         `json:"run_id"`
	Count  int            `json:"count"`
	Events []engine.Event `json:"events"`
}

// NewStreamCommand creates the stream command.
func NewStreamCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StreamOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stream <story.yaml>",
		Short: "Generate a story's events in chronological order",
		Long: `Load a story, follow its includes, resolve every data rule and print the
validated events ordered by timestamp.

Example:
  autosource stream stories/onboarding.yaml
  autosource stream --seed 42 --format json stories/onboarding.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "print at most N events (0 = all)")

	return cmd
}

func runStream(opts *StreamOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	sess, err := newSession(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, "failed to build schema registry", err, nil)
	}

	stream, err := sess.engine.StreamStory(path)
	if ferr := sess.flushMetrics(); ferr != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write metrics", ferr, nil)
	}
	if err != nil {
		code, exit := storyErrorCode(err)
		return formatter.Fail(exit, code, "stream failed", err, storyErrorDetails(err))
	}

	var events []engine.Event
	for ev := range stream.All() {
		if opts.Limit > 0 && len(events) == opts.Limit {
			break
		}
		events = append(events, ev)
	}

	if formatter.isJSON() {
		if events == nil {
			events = []engine.Event{}
		}
		return formatter.Success(StreamResult{
			RunID:  stream.RunID(),
			Count:  len(events),
			Events: events,
		})
	}

	for i, ev := range events {
		if err := writeEventText(formatter.Writer, i+1, ev); err != nil {
			return err
		}
	}
	fmt.Fprintf(formatter.Writer, "✓ %d event(s) generated\n", len(events))
	return nil
}

// writeEventText prints one event as a labelled block with indented data.
func writeEventText(w io.Writer, n int, ev engine.Event) error {
	data, err := indentData(ev.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Event #%d\n", n)
	fmt.Fprintf(w, "  Source:    %s\n", ev.Source)
	fmt.Fprintf(w, "  Event:     %s\n", ev.Event)
	fmt.Fprintf(w, "  Org ID:    %s\n", ev.OrgID)
	fmt.Fprintf(w, "  Timestamp: %s\n", ev.Timestamp)
	fmt.Fprintf(w, "  Data:\n    %s\n\n", data)
	return nil
}

func indentData(data value.Object) ([]byte, error) {
	compact, err := value.MarshalCanonical(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "    ", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
