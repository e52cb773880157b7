package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulseops/Autosource/internal/rule"
	"github.com/pulseops/Autosource/internal/schema"
	"github.com/pulseops/Autosource/internal/story"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		code string
	}{
		{"load", &story.LoadError{Message: "bad"}, KindStructural, "E201"},
		{"rule", &rule.Error{Kind: rule.ErrUnknownRule, Rule: "nope"}, KindRule, "E202"},
		{"validation", &schema.ValidationError{Source: "a", Event: "b"}, KindSchema, "E203"},
		{"lookup", &schema.LookupError{Source: "a", Event: "b"}, KindLookup, "E204"},
		{"plain", errors.New("boom"), KindOther, "E001"},
		{"nil", nil, KindOther, "E001"},
		{
			"wrapped",
			fmt.Errorf("outer: %w", &GenerateError{Err: &schema.LookupError{Source: "a", Event: "b"}}),
			KindLookup, "E204",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Classify(tt.err))
			assert.Equal(t, tt.code, Classify(tt.err).Code())
		})
	}
}

func TestGenerateError_Message(t *testing.T) {
	err := &GenerateError{
		Source:     "linear",
		Event:      "ticket.created",
		SpecIndex:  2,
		Repetition: 1,
		Err:        &schema.LookupError{Source: "linear", Event: "ticket.created"},
	}

	assert.Equal(t,
		"generating linear.ticket.created (spec 2, repetition 1): no schema registered for event: linear.ticket.created",
		err.Error())
	assert.True(t, IsLookupError(err))
	assert.False(t, IsSchemaError(err))
}
