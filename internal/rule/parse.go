package rule

import (
	"math"
	"strconv"
	"strings"

	"github.com/pulseops/Autosource/internal/value"
)

// DataRule is a parsed rule invocation: name(args..., key=value...).
// Args and Kwargs hold scalar values only (Int, Float or String).
type DataRule struct {
	Type   string
	Args   []value.Value
	Kwargs map[string]value.Value
}

// Parse parses s as a rule string.
// Returns ok=false when s does not have the name(...) shape; such strings are
// plain literals, not malformed rules.
func Parse(s string) (DataRule, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") || strings.ContainsAny(s, "\r\n") {
		return DataRule{}, false
	}
	name := s[:open]
	if !isIdent(name) {
		return DataRule{}, false
	}

	dr := DataRule{
		Type:   name,
		Args:   []value.Value{},
		Kwargs: map[string]value.Value{},
	}
	for _, tok := range splitArgs(s[open+1 : len(s)-1]) {
		if key, raw, ok := splitKwarg(tok); ok {
			dr.Kwargs[key] = parseLiteral(raw)
			continue
		}
		dr.Args = append(dr.Args, parseLiteral(tok))
	}
	return dr, true
}

// String renders the rule back into rule syntax.
func (dr DataRule) String() string {
	var b strings.Builder
	b.WriteString(dr.Type)
	b.WriteByte('(')
	for i, a := range dr.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(renderLiteral(a))
	}
	keys := value.Object(dr.Kwargs).SortedKeys()
	for i, k := range keys {
		if i > 0 || len(dr.Args) > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(renderLiteral(dr.Kwargs[k]))
	}
	b.WriteByte(')')
	return b.String()
}

func renderLiteral(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return strconv.Quote(string(s))
	}
	return value.Text(v)
}

// splitArgs splits an argument list on commas outside quotes and parentheses.
// Tokens are trimmed; empty tokens are dropped.
func splitArgs(s string) []string {
	var (
		parts []string
		cur   strings.Builder
		quote rune
		depth int
	)
	flush := func() {
		if tok := strings.TrimSpace(cur.String()); tok != "" {
			parts = append(parts, tok)
		}
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case r == ',' && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return parts
}

// splitKwarg recognizes key=value tokens. Quoted tokens are never kwargs.
func splitKwarg(tok string) (key, raw string, ok bool) {
	if tok[0] == '"' || tok[0] == '\'' {
		return "", "", false
	}
	eq := strings.IndexByte(tok, '=')
	if eq <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(tok[:eq])
	if !isIdent(key) {
		return "", "", false
	}
	return key, strings.TrimSpace(tok[eq+1:]), true
}

// parseLiteral tries int, then float, then falls back to a string with one
// pair of surrounding quotes removed. Quoted numbers stay strings.
func parseLiteral(raw string) value.Value {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return value.Float(f)
	}
	if len(raw) >= 2 {
		if q := raw[0]; (q == '"' || q == '\'') && raw[len(raw)-1] == q {
			return value.String(raw[1 : len(raw)-1])
		}
	}
	return value.String(raw)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
