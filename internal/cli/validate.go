package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseops/Autosource/internal/story"
)

// ValidationResult holds the outcome of a dry run.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Story    string `json:"story"`
	Includes int    `json:"includes"`
	Specs    int    `json:"specs"`
	Events   int    `json:"events"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <story.yaml>",
		Short: "Check a story without printing its events",
		Long: `Load a story and its includes, resolve every data rule and validate every
generated payload against its schema, then report counts instead of events.

Exit code 1 means the story is invalid; 2 means the command itself failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	sess, err := newSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, "failed to build schema registry", err, nil)
	}

	root, specs, err := story.NewLoader(sess.logger).LoadAndFlatten(path)
	if err != nil {
		return outputValidationError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s: %d spec(s) after flattening", root.Path, len(specs))

	stream, err := sess.engine.Generate(root, specs)
	if ferr := sess.flushMetrics(); ferr != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write metrics", ferr, nil)
	}
	if err != nil {
		return outputValidationError(formatter, err)
	}

	result := ValidationResult{
		Valid:    true,
		Story:    root.Path,
		Includes: len(root.Includes),
		Specs:    len(specs),
		Events:   stream.Len(),
	}
	if formatter.isJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Story valid: %d spec(s), %d event(s)\n", result.Specs, result.Events)
	return nil
}

// outputValidationError reports a story failure and returns its exit error.
func outputValidationError(formatter *OutputFormatter, err error) error {
	code, exit := storyErrorCode(err)

	if formatter.isJSON() {
		return formatter.Fail(exit, code, "validation failed", err, storyErrorDetails(err))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, err.Error())
	return WrapExitError(exit, "validation failed", err)
}
