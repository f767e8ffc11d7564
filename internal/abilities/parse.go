// Package abilities parses declarative ability strings and runs the
// per-unit ability state used during a battle.
package abilities

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Spec is a parsed ability declaration such as "ember_spit(2, fire, cd=2)".
// Values are coerced to bool, int, float64 or string.
type Spec struct {
	Name   string
	Args   []any
	Kwargs map[string]any
}

var (
	declRx  = regexp.MustCompile(`^([a-zA-Z_]\w*)\s*(?:\((.*)\))?$`)
	valueRx = regexp.MustCompile(`^(-?\d+(\.\d+)?)%?$`)
)

// ParseSpec parses one declaration. Input that does not match the grammar
// yields a Spec carrying only the trimmed input as its name.
func ParseSpec(s string) Spec {
	s = strings.TrimSpace(s)
	m := declRx.FindStringSubmatch(s)
	if m == nil {
		return Spec{Name: s}
	}
	spec := Spec{Name: m[1]}
	inner := strings.TrimSpace(m[2])
	if inner == "" {
		return spec
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			if spec.Kwargs == nil {
				spec.Kwargs = make(map[string]any)
			}
			spec.Kwargs[strings.TrimSpace(k)] = Coerce(v)
			continue
		}
		spec.Args = append(spec.Args, Coerce(part))
	}
	return spec
}

// ParseSpecs parses a list of declarations.
func ParseSpecs(list []string) []Spec {
	out := make([]Spec, 0, len(list))
	for _, s := range list {
		out = append(out, ParseSpec(s))
	}
	return out
}

// Coerce converts a raw token: true/false to bool, "25%" to 0.25, integer
// and decimal literals to int and float64, quoted text to its contents.
// Anything else is returned as the trimmed token.
func Coerce(token string) any {
	t := strings.TrimSpace(token)
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}
	if m := valueRx.FindStringSubmatch(t); m != nil {
		if strings.HasSuffix(t, "%") {
			f, _ := strconv.ParseFloat(m[1], 64)
			return f / 100
		}
		if strings.Contains(t, ".") {
			f, _ := strconv.ParseFloat(t, 64)
			return f
		}
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	if len(t) >= 2 && (t[0] == '\'' || t[0] == '"') && t[len(t)-1] == t[0] {
		return t[1 : len(t)-1]
	}
	return t
}

// Arg returns positional argument i or nil.
func (s Spec) Arg(i int) any {
	if i < len(s.Args) {
		return s.Args[i]
	}
	return nil
}

// Kwarg returns keyword argument key or nil.
func (s Spec) Kwarg(key string) any {
	return s.Kwargs[key]
}

// Int returns v as an int when it is numeric.
func Int(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return def
}

// Float returns v as a float64 when it is numeric.
func Float(v any, def float64) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return def
}

// String returns v as a string when it is one.
func String(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// String renders the declaration back in its textual form.
func (s Spec) String() string {
	if len(s.Args) == 0 && len(s.Kwargs) == 0 {
		return s.Name
	}
	parts := make([]string, 0, len(s.Args)+len(s.Kwargs))
	for _, a := range s.Args {
		parts = append(parts, render(a))
	}
	keys := make([]string, 0, len(s.Kwargs))
	for k := range s.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+render(s.Kwargs[k]))
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}

func render(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	return ""
}
