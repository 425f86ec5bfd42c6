package env

import (
	"fmt"
	"strings"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// DefaultProfile is active when no profile is set explicitly.
const DefaultProfile = "default"

const (
	placeholderPrefix = "${"
	placeholderSuffix = "}"
	valueSeparator    = ":"
)

// Environment is the single-writer property environment shared by the
// engine during resolution.
type Environment struct {
	Sources         *PropertySources
	ActiveProfiles  []string
	DefaultProfiles []string
}

// New creates an environment with no sources and the default profile.
func New(activeProfiles ...string) *Environment {
	return &Environment{
		Sources:         &PropertySources{},
		ActiveProfiles:  activeProfiles,
		DefaultProfiles: []string{DefaultProfile},
	}
}

// Property returns the rendered value of key from the first source holding it.
func (e *Environment) Property(key string) (string, bool) {
	if e == nil || e.Sources == nil {
		return "", false
	}
	for _, src := range e.Sources.list {
		if v, ok := src.Property(key); ok {
			return Stringify(v), true
		}
	}
	return "", false
}

// PropertyOr returns the value of key or def when absent.
func (e *Environment) PropertyOr(key, def string) string {
	if v, ok := e.Property(key); ok {
		return v
	}
	return def
}

// ContainsProperty reports whether any source holds key.
func (e *Environment) ContainsProperty(key string) bool {
	_, ok := e.Property(key)
	return ok
}

// ResolvePlaceholders replaces ${key} and ${key:default} references in text.
// A reference with no value and no default is a validation error.
func (e *Environment) ResolvePlaceholders(text string) (string, error) {
	return e.resolve(text, map[string]bool{})
}

func (e *Environment) resolve(text string, visiting map[string]bool) (string, error) {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, placeholderPrefix)
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := matchingSuffix(rest, start+len(placeholderPrefix))
		if end < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:start])

		rawKey, def, hasDefault := splitDefault(rest[start+len(placeholderPrefix) : end])
		key, err := e.resolve(rawKey, visiting)
		if err != nil {
			return "", err
		}
		if visiting[key] {
			return "", oerrors.NewValidationError(
				fmt.Sprintf("circular placeholder reference %q", key), text, key, "")
		}

		value, ok := e.Property(key)
		switch {
		case ok:
			visiting[key] = true
			value, err = e.resolve(value, visiting)
			delete(visiting, key)
			if err != nil {
				return "", err
			}
		case hasDefault:
			value, err = e.resolve(def, visiting)
			if err != nil {
				return "", err
			}
		default:
			return "", oerrors.NewValidationError(
				fmt.Sprintf("could not resolve placeholder %q in value %q", key, text), text, key,
				"Define the property or give the placeholder a default with ${key:default}")
		}
		b.WriteString(value)
		rest = rest[end+len(placeholderSuffix):]
	}
}

// splitDefault cuts a placeholder body at its first top-level separator.
func splitDefault(body string) (key, def string, ok bool) {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch {
		case strings.HasPrefix(body[i:], placeholderPrefix):
			depth++
			i += len(placeholderPrefix) - 1
		case body[i] == '}':
			depth--
		case depth == 0 && strings.HasPrefix(body[i:], valueSeparator):
			return body[:i], body[i+len(valueSeparator):], true
		}
	}
	return body, "", false
}

// matchingSuffix finds the closing brace for a placeholder whose body starts
// at from, skipping nested placeholders.
func matchingSuffix(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], placeholderPrefix):
			depth++
			i += len(placeholderPrefix) - 1
		case s[i] == '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// Profiles returns the active profiles, or the default profiles when none
// are active.
func (e *Environment) Profiles() []string {
	if len(e.ActiveProfiles) > 0 {
		return e.ActiveProfiles
	}
	return e.DefaultProfiles
}

// AcceptsProfiles reports whether any expression matches the active
// profiles. An expression is a profile name, optionally negated with "!",
// combined with "&" and "|" ("&" binds tighter).
func (e *Environment) AcceptsProfiles(expressions ...string) bool {
	active := map[string]bool{}
	for _, p := range e.Profiles() {
		active[p] = true
	}
	for _, expr := range expressions {
		if matchProfiles(expr, active) {
			return true
		}
	}
	return false
}

func matchProfiles(expr string, active map[string]bool) bool {
	for _, alt := range strings.Split(expr, "|") {
		all := true
		for _, term := range strings.Split(alt, "&") {
			term = strings.TrimSpace(term)
			negated := strings.HasPrefix(term, "!")
			name := strings.TrimSpace(strings.TrimPrefix(term, "!"))
			if name == "" || active[name] == negated {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
