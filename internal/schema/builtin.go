package schema

import (
	"embed"
	"fmt"
	"slices"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Built-in schema set names.
const (
	SetAutosource = "autosource"
	SetSim        = "sim"
)

// DefaultSet is the set used when none is configured.
const DefaultSet = SetAutosource

type binding struct {
	source, event, definition string
}

var builtinSets = map[string][]binding{
	SetAutosource: {
		{"posthog", "usage.metrics", "#UsageMetrics"},
		{"posthog", "feature.usage", "#FeatureUsage"},
		{"posthog", "user.action", "#UserAction"},
		{"linear", "ticket.created", "#Ticket"},
		{"linear", "ticket.updated", "#Ticket"},
		{"linear", "comment.created", "#Comment"},
		{"linear", "workflow.state_changed", "#WorkflowState"},
	},
	SetSim: {
		{"analytics", "page.view", "#AnalyticsEvent"},
		{"analytics", "search.performed", "#AnalyticsEvent"},
		{"analytics", "feature.usage", "#AnalyticsEvent"},
		{"analytics", "user.signup", "#UserEvent"},
		{"monitoring", "system.metrics", "#MetricsEvent"},
		{"monitoring", "system.alert", "#AlertEvent"},
		{"monitoring", "error.occurred", "#AlertEvent"},
		{"monitoring", "db.connections", "#MetricsEvent"},
		{"payment", "transaction.created", "#TransactionEvent"},
		{"inventory", "stock.updated", "#MetricsEvent"},
		{"shipping", "shipment.created", "#TransactionEvent"},
	},
}

// Sets returns the names of the built-in schema sets.
func Sets() []string {
	names := make([]string, 0, len(builtinSets))
	for name := range builtinSets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds a registry for a built-in set. An empty name selects DefaultSet.
func New(set string) (*Registry, error) {
	if set == "" {
		set = DefaultSet
	}
	bindings, ok := builtinSets[set]
	if !ok {
		return nil, fmt.Errorf("unknown schema set %q: must be one of %v", set, Sets())
	}

	src, err := schemaFS.ReadFile("schemas/" + set + ".cue")
	if err != nil {
		return nil, fmt.Errorf("reading schema set %s: %w", set, err)
	}
	reg, err := NewRegistry(set, src)
	if err != nil {
		return nil, fmt.Errorf("compiling schema set %s: %w", set, err)
	}
	for _, b := range bindings {
		if err := reg.Register(b.source, b.event, b.definition); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
