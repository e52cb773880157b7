package schema

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/pulseops/Autosource/internal/value"
)

// Key identifies an event kind by source and event type.
type Key struct {
	Source string `json:"source"`
	Event  string `json:"event"`
}

// String returns "source.event".
func (k Key) String() string {
	return k.Source + "." + k.Event
}

// Schema is the validator registered for one Key.
type Schema struct {
	Key        Key
	Definition string // CUE definition name, e.g. "#Ticket"
	value      cue.Value
	declared   map[string]bool
}

// Fields lists the payload fields declared by the schema, marking the ones
// without a default as required.
func (s Schema) Fields() ([]Field, error) {
	iter, err := s.value.Fields(cue.Optional(true))
	if err != nil {
		return nil, formatCUEError(err)
	}
	var fields []Field
	for iter.Next() {
		_, hasDefault := iter.Value().Default()
		fields = append(fields, Field{
			Name:     iter.Label(),
			Required: !hasDefault && !iter.IsOptional(),
		})
	}
	return fields, nil
}

// Field describes one payload field of a schema.
type Field struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Registry maps keys to CUE definitions compiled from one schema package.
// A Registry holds a CUE context and is not safe for concurrent use.
type Registry struct {
	name    string
	ctx     *cue.Context
	pkg     cue.Value
	schemas map[Key]Schema
}

// NewRegistry compiles CUE source into an empty registry.
// Definitions become usable once bound with Register.
func NewRegistry(name string, src []byte) (*Registry, error) {
	ctx := cuecontext.New()
	pkg := ctx.CompileBytes(src, cue.Filename(name+".cue"))
	if err := pkg.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return &Registry{
		name:    name,
		ctx:     ctx,
		pkg:     pkg,
		schemas: make(map[Key]Schema),
	}, nil
}

// Name returns the registry's name (the built-in set name for New).
func (r *Registry) Name() string {
	return r.name
}

// Register binds (source, event) to a definition of the registry's package.
func (r *Registry) Register(source, event, definition string) error {
	if source == "" || event == "" {
		return &CompileError{Field: "register", Message: "source and event are required"}
	}
	def := r.pkg.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return &CompileError{
			Field:   "register",
			Message: fmt.Sprintf("definition %s not found for %s.%s", definition, source, event),
		}
	}
	if err := def.Err(); err != nil {
		return formatCUEError(err)
	}
	declared, err := declaredLabels(def)
	if err != nil {
		return err
	}
	key := Key{Source: source, Event: event}
	r.schemas[key] = Schema{Key: key, Definition: definition, value: def, declared: declared}
	return nil
}

// GetSchema returns the schema for (source, event).
// Returns *LookupError if the pair is not registered.
func (r *Registry) GetSchema(source, event string) (Schema, error) {
	s, ok := r.schemas[Key{Source: source, Event: event}]
	if !ok {
		return Schema{}, &LookupError{Source: source, Event: event}
	}
	return s, nil
}

// Validate checks data against the schema for (source, event) and returns the
// normalized payload with defaults applied. Top-level fields the schema does
// not declare are dropped before validation. Validation is all-or-nothing:
// on failure it returns *ValidationError and no data.
func (r *Registry) Validate(source, event string, data value.Object) (value.Object, error) {
	s, err := r.GetSchema(source, event)
	if err != nil {
		return nil, err
	}
	kept := make(value.Object, len(data))
	for k, v := range data {
		if s.declared[k] {
			kept[k] = v
		}
	}

	unified := s.value.Unify(r.ctx.Encode(value.ToAny(kept)))
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return nil, newValidationError(s.Key, err)
	}

	decoded, err := fromCUE(unified, s.value)
	if err != nil {
		return nil, &ValidationError{Source: source, Event: event, Message: err.Error()}
	}
	obj, ok := decoded.(value.Object)
	if !ok {
		return nil, &ValidationError{Source: source, Event: event, Message: "payload must be a mapping"}
	}
	return obj, nil
}

func declaredLabels(def cue.Value) (map[string]bool, error) {
	iter, err := def.Fields(cue.Optional(true))
	if err != nil {
		return nil, formatCUEError(err)
	}
	labels := make(map[string]bool)
	for iter.Next() {
		labels[iter.Label()] = true
	}
	return labels, nil
}

// List returns every registered key, sorted by source then event.
func (r *Registry) List() []Key {
	keys := make([]Key, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.Event, b.Event)
	})
	return keys
}

// fromCUE decodes a concrete CUE value into a value.Value, taking defaults.
// schema is the matching definition node (may not exist); ints stored in
// fields declared as number are widened to floats.
func fromCUE(v cue.Value, schema cue.Value) (value.Value, error) {
	v, _ = v.Default()

	switch v.Kind() {
	case cue.NullKind:
		return value.Null{}, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return value.Bool(b), nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		if isNumberField(schema) {
			return value.Float(float64(n)), nil
		}
		return value.Int(n), nil

	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return value.Float(f), nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		arr := value.Array{}
		for iter.Next() {
			elem, err := fromCUE(iter.Value(), cue.Value{})
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil

	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := value.Object{}
		for iter.Next() {
			label := iter.Label()
			var fieldSchema cue.Value
			if schema.Exists() {
				fieldSchema = schema.LookupPath(cue.MakePath(cue.Str(label)))
			}
			elem, err := fromCUE(iter.Value(), fieldSchema)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			obj[label] = elem
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("unsupported CUE kind %s", v.Kind())
	}
}

// isNumberField reports whether the schema node accepts both ints and floats
// but not arbitrary values (i.e. it is declared as number).
func isNumberField(schema cue.Value) bool {
	if !schema.Exists() {
		return false
	}
	k := schema.IncompleteKind()
	return k&cue.IntKind != 0 && k&cue.FloatKind != 0 && k&cue.StringKind == 0
}
