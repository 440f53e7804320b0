package playlist

import (
	"fmt"
	"strings"
)

// Tag is one parsed directive line. Concrete types (*ExtInf, *KodiProp, ...)
// carry the typed fields; String returns the canonical line, which parses
// back into an equal Tag.
type Tag interface {
	// Name is the tag name without the leading '#' and trailing ':'.
	Name() string
	String() string
}

// TagDef describes one kind of directive: how to recognize its lines and how
// to turn a line into a Tag. Parse should return a *FormatError when the
// line is malformed.
type TagDef struct {
	Name  string
	Match func(line string) bool
	Parse func(line string) (Tag, error)
}

func (d TagDef) validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidTag)
	case d.Match == nil:
		return fmt.Errorf("%w: %s has no match function", ErrInvalidTag, d.Name)
	case d.Parse == nil:
		return fmt.Errorf("%w: %s has no parse function", ErrInvalidTag, d.Name)
	}
	return nil
}

// Registry is an ordered list of tag definitions. Lines are matched against
// the definitions in registration order and the first match wins, so more
// specific definitions must be registered before general ones that overlap.
//
// A Registry is not safe for concurrent mutation. Parser takes a snapshot
// when a parse starts, so changes made afterwards do not affect running
// streams.
type Registry struct {
	defs []TagDef
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends def to the registry.
func (r *Registry) Register(def TagDef) error {
	if err := def.validate(); err != nil {
		return err
	}
	r.defs = append(r.defs, def)
	return nil
}

// Clear removes all definitions.
func (r *Registry) Clear() {
	r.defs = nil
}

// Tags returns a copy of the registered definitions in match order.
func (r *Registry) Tags() []TagDef {
	out := make([]TagDef, len(r.defs))
	copy(out, r.defs)
	return out
}

// Names returns the registered tag names in match order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.defs))
	for i, def := range r.defs {
		names[i] = def.Name
	}
	return names
}

// Match returns the first definition that accepts line.
func (r *Registry) Match(line string) (TagDef, bool) {
	return matchTag(r.defs, line)
}

func matchTag(defs []TagDef, line string) (TagDef, bool) {
	for _, def := range defs {
		if def.Match(line) {
			return def, true
		}
	}
	return TagDef{}, false
}

// PrefixMatcher returns a match function accepting lines that start with
// marker, compared case-insensitively.
func PrefixMatcher(marker string) func(string) bool {
	return func(line string) bool {
		return hasPrefixFold(line, marker)
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
