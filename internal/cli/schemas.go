package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pulseops/Autosource/internal/schema"
)

// SchemaInfo describes one registered (source, event) pair.
type SchemaInfo struct {
	Source     string         `json:"source"`
	Event      string         `json:"event"`
	Definition string         `json:"definition"`
	Fields     []schema.Field `json:"fields"`
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schemas",
		Short:         "List registered event schemas",
		Long:          "List every (source, event) pair of the selected schema set with its required fields.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(rootOpts, cmd)
		},
	}

	return cmd
}

func runSchemas(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	reg, err := schema.New(opts.Registry)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, "failed to build schema registry", err, nil)
	}

	infos := make([]SchemaInfo, 0, len(reg.List()))
	for _, key := range reg.List() {
		s, err := reg.GetSchema(key.Source, key.Event)
		if err != nil {
			return WrapExitError(ExitCommandError, "schema lookup failed", err)
		}
		fields, err := s.Fields()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeRegistry, "failed to read schema fields", err, nil)
		}
		infos = append(infos, SchemaInfo{
			Source:     key.Source,
			Event:      key.Event,
			Definition: s.Definition,
			Fields:     fields,
		})
	}

	if formatter.isJSON() {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tEVENT\tSCHEMA\tREQUIRED")
	for _, info := range infos {
		var required []string
		for _, f := range info.Fields {
			if f.Required {
				required = append(required, f.Name)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Source, info.Event, info.Definition, strings.Join(required, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	formatter.VerboseLog("%d schema(s) in set %s", len(infos), reg.Name())
	return nil
}
