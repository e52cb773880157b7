package rule

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pulseops/Autosource/internal/value"
)

// Interpreter evaluates rules. It owns its random source and text generator;
// there is no package-level state. An Interpreter is not safe for
// concurrent use.
type Interpreter struct {
	rng  *rand.Rand
	text TextGenerator
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithSeed makes the interpreter deterministic for a non-zero seed.
// Zero keeps the default random seeding.
func WithSeed(seed uint64) Option {
	return func(in *Interpreter) {
		if seed != 0 {
			in.rng = newRand(seed)
		}
	}
}

// WithRand sets the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(in *Interpreter) {
		in.rng = r
	}
}

// WithTextGenerator replaces the sentence generator used by random_text.
func WithTextGenerator(g TextGenerator) Option {
	return func(in *Interpreter) {
		in.text = g
	}
}

// NewInterpreter creates an Interpreter.
// Without options it is randomly seeded and uses FakerText for sentences,
// seeded from the interpreter's own random source.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{}
	for _, opt := range opts {
		opt(in)
	}
	if in.rng == nil {
		in.rng = newRand(rand.Uint64())
	}
	if in.text == nil {
		in.text = NewFakerText(int64(in.rng.Uint64() >> 1))
	}
	return in
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Resolve compiles dr and evaluates it.
func (in *Interpreter) Resolve(dr DataRule) (value.Value, error) {
	r, err := Compile(dr)
	if err != nil {
		return nil, err
	}
	return in.Eval(r)
}

// Eval evaluates a compiled rule.
func (in *Interpreter) Eval(r Rule) (value.Value, error) {
	switch r := r.(type) {
	case Random:
		return in.evalRandom(r), nil
	case Static:
		return r.Value, nil
	case RandomText:
		if r.Category == "onboarding" {
			return value.String(onboardingPhrases[in.rng.IntN(len(onboardingPhrases))]), nil
		}
		return value.String(in.text.Sentence()), nil
	default:
		return nil, fmt.Errorf("unsupported rule %T", r)
	}
}

func (in *Interpreter) evalRandom(r Random) value.Value {
	if r.IsFloat() {
		lo, hi := toFloat(r.Min), toFloat(r.Max)
		return value.Float(lo + (hi-lo)*in.rng.Float64())
	}

	lo, hi := int64(r.Min.(value.Int)), int64(r.Max.(value.Int))
	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		// [MinInt64, MaxInt64]
		return value.Int(int64(in.rng.Uint64()))
	}
	return value.Int(lo + int64(in.rng.Uint64N(span)))
}

// ResolveString resolves s if it is a rule string and returns it unchanged
// otherwise.
func (in *Interpreter) ResolveString(s string) (value.Value, error) {
	dr, ok := Parse(s)
	if !ok {
		return value.String(s), nil
	}
	return in.Resolve(dr)
}

// ResolveData returns a copy of data with every rule string resolved.
// Nested objects are resolved recursively; arrays are resolved only inside
// their object elements. data is never modified. Keys are visited in sorted
// order so a seeded interpreter produces the same values on every run.
func (in *Interpreter) ResolveData(data value.Object) (value.Object, error) {
	return in.resolveObject(data, "data")
}

func (in *Interpreter) resolveObject(data value.Object, path string) (value.Object, error) {
	out := make(value.Object, len(data))
	for _, k := range data.SortedKeys() {
		field := path + "." + k
		switch v := data[k].(type) {
		case value.String:
			resolved, err := in.ResolveString(string(v))
			if err != nil {
				return nil, withField(err, field)
			}
			out[k] = resolved
		case value.Object:
			resolved, err := in.resolveObject(v, field)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		case value.Array:
			arr := make(value.Array, len(v))
			for i, elem := range v {
				obj, ok := elem.(value.Object)
				if !ok {
					arr[i] = value.Clone(elem)
					continue
				}
				resolved, err := in.resolveObject(obj, fmt.Sprintf("%s[%d]", field, i))
				if err != nil {
					return nil, err
				}
				arr[i] = resolved
			}
			out[k] = arr
		default:
			out[k] = v
		}
	}
	return out, nil
}

func withField(err error, field string) error {
	var re *Error
	if errors.As(err, &re) && re.Field == "" {
		re.Field = field
	}
	return err
}
