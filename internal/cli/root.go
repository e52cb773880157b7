package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pulseops/Autosource/internal/config"
	"github.com/pulseops/Autosource/internal/engine"
	"github.com/pulseops/Autosource/internal/rule"
	"github.com/pulseops/Autosource/internal/schema"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Registry    string // built-in schema set
	Seed        uint64 // 0 = random
	ConfigFile  string
	MetricsFile string

	// TextGenerator and RunIDs override engine collaborators (for testing).
	// If nil, the interpreter's faker text and UUIDv7 run ids are used.
	TextGenerator rule.TextGenerator
	RunIDs        engine.RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.Formats

// NewRootCommand creates the root command for the autosource CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "autosource",
		Short: "autosource - story-driven synthetic event streams",
		Long: `Generate realistic, schema-valid event streams from declarative story files.

A story names an organization, a start date and a list of events; rule strings
such as random(1, 5) or random_text("onboarding") fill in event data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd, opts); err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(schema.Sets(), opts.Registry) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid registry %q: must be one of %v", opts.Registry, schema.Sets()))
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", defaults.Format, "output format (json|text)")
	pf.StringVar(&opts.Registry, "registry", defaults.Registry, "schema set (autosource|sim)")
	pf.Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible streams (0 = random)")
	pf.StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write prometheus metrics to this file")

	cmd.AddCommand(NewStreamCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSchemasCommand(opts))

	return cmd
}

// applyConfigFile fills options from --config. Flags set on the command line
// win over the file.
func applyConfigFile(cmd *cobra.Command, opts *RootOptions) error {
	if opts.ConfigFile == "" {
		return nil
	}
	c, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("verbose") {
		opts.Verbose = c.Verbose
	}
	if !flags.Changed("format") {
		opts.Format = c.Format
	}
	if !flags.Changed("registry") {
		opts.Registry = c.Registry
	}
	if !flags.Changed("seed") {
		opts.Seed = c.Seed
	}
	if !flags.Changed("metrics-file") {
		opts.MetricsFile = c.MetricsFile
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
