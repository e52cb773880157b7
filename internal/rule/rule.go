package rule

import (
	"fmt"

	"github.com/pulseops/Autosource/internal/value"
)

// Built-in rule kinds.
const (
	KindRandom     = "random"
	KindStatic     = "static"
	KindRandomText = "random_text"
)

// Kinds lists the built-in rule kinds.
var Kinds = []string{KindRandom, KindStatic, KindRandomText}

// Rule is a sealed interface over the compiled rule kinds.
// Only Random, Static and RandomText implement it; obtain one through Compile.
type Rule interface {
	rule() // Sealed
	Kind() string
}

// Random yields a uniformly distributed number between Min and Max.
// Min and Max are value.Int or value.Float; Float marks a float range.
type Random struct {
	Min, Max value.Value
}

func (Random) rule() {}

// Kind returns "random".
func (Random) Kind() string { return KindRandom }

// IsFloat reports whether the range produces floats.
func (r Random) IsFloat() bool {
	_, minFloat := r.Min.(value.Float)
	_, maxFloat := r.Max.(value.Float)
	return minFloat || maxFloat
}

// Static yields its value verbatim.
type Static struct {
	Value value.Value
}

func (Static) rule() {}

// Kind returns "static".
func (Static) Kind() string { return KindStatic }

// RandomText yields text for a category.
type RandomText struct {
	Category string
}

func (RandomText) rule() {}

// Kind returns "random_text".
func (RandomText) Kind() string { return KindRandomText }

// Compile checks dr against the built-in kinds and their argument shapes.
// Keyword arguments are accepted and ignored by every built-in kind.
func Compile(dr DataRule) (Rule, error) {
	switch dr.Type {
	case KindRandom:
		if len(dr.Args) != 2 {
			return nil, arityError(dr.Type, 2, len(dr.Args))
		}
		lo, hi := dr.Args[0], dr.Args[1]
		for i, arg := range dr.Args {
			if !isNumber(arg) {
				return nil, &Error{
					Kind:    ErrArgument,
					Rule:    dr.Type,
					Message: fmt.Sprintf("argument %d must be a number, got %s %q", i+1, value.KindOf(arg), value.Text(arg)),
				}
			}
		}
		if loInt, ok := lo.(value.Int); ok {
			if hiInt, ok := hi.(value.Int); ok && loInt > hiInt {
				return nil, &Error{
					Kind:    ErrArgument,
					Rule:    dr.Type,
					Message: fmt.Sprintf("empty range: min %d is greater than max %d", loInt, hiInt),
				}
			}
		}
		return Random{Min: lo, Max: hi}, nil

	case KindStatic:
		if len(dr.Args) != 1 {
			return nil, arityError(dr.Type, 1, len(dr.Args))
		}
		return Static{Value: dr.Args[0]}, nil

	case KindRandomText:
		if len(dr.Args) != 1 {
			return nil, arityError(dr.Type, 1, len(dr.Args))
		}
		return RandomText{Category: value.Text(dr.Args[0])}, nil

	default:
		return nil, &Error{
			Kind:    ErrUnknownRule,
			Rule:    dr.Type,
			Message: fmt.Sprintf("unknown rule type %q (known: %v)", dr.Type, Kinds),
		}
	}
}

func isNumber(v value.Value) bool {
	switch v.(type) {
	case value.Int, value.Float:
		return true
	}
	return false
}

func toFloat(v value.Value) float64 {
	switch n := v.(type) {
	case value.Int:
		return float64(n)
	case value.Float:
		return float64(n)
	}
	return 0
}
