// Package shape projects records down to the fields a client asked for.
// Output is an ordered name->value mapping, never the record type itself.
package shape

import (
	"bytes"
	"encoding/json"

	"github.com/maxviazov/company-employees-service/internal/query"
)

// Entity is an ordered mapping from field name to value.
// It marshals to a JSON object with keys in insertion order.
type Entity struct {
	keys   []string
	values map[string]any
}

// NewEntity returns an empty mapping with room for n fields.
func NewEntity(n int) *Entity {
	return &Entity{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set adds key at the end, or replaces its value in place when present.
func (e *Entity) Set(key string, value any) {
	if e.values == nil {
		e.values = map[string]any{}
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value stored for key.
func (e *Entity) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns field names in order.
func (e *Entity) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len is the number of fields.
func (e *Entity) Len() int { return len(e.keys) }

// MarshalJSON writes the fields as an object, preserving order.
func (e *Entity) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(e.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ShapedEntity keeps the record identifier next to its projection so links
// can be built even when the client left the id out of the field list.
type ShapedEntity struct {
	ID     string
	Entity *Entity
}

// Shaper projects records of type T.
type Shaper[T any] struct {
	resolver *query.Resolver[T]
	idOf     func(T) string
}

// NewShaper builds a shaper; idOf renders the record identifier.
func NewShaper[T any](r *query.Resolver[T], idOf func(T) string) *Shaper[T] {
	return &Shaper[T]{resolver: r, idOf: idOf}
}

// ResolveFields turns a comma-separated list into properties in client order.
// A blank list selects every property in declaration order. Unknown names are
// dropped and returned in unknown; repeated names are emitted once.
func (s *Shaper[T]) ResolveFields(fields string) (props []query.Property, unknown []string) {
	tokens := query.SplitFields(fields)
	if len(tokens) == 0 {
		return s.resolver.Properties(), nil
	}
	seen := map[string]bool{}
	for _, tok := range tokens {
		p, ok := s.resolver.Lookup(tok)
		if !ok {
			unknown = append(unknown, tok)
			continue
		}
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		props = append(props, p)
	}
	return props, unknown
}

// ShapeData projects every record using the same resolved field list.
func (s *Shaper[T]) ShapeData(items []T, fields string) []ShapedEntity {
	props, _ := s.ResolveFields(fields)
	out := make([]ShapedEntity, 0, len(items))
	for _, it := range items {
		out = append(out, s.project(it, props))
	}
	return out
}

// ShapeEntity projects a single record.
func (s *Shaper[T]) ShapeEntity(item T, fields string) ShapedEntity {
	props, _ := s.ResolveFields(fields)
	return s.project(item, props)
}

func (s *Shaper[T]) project(item T, props []query.Property) ShapedEntity {
	e := NewEntity(len(props))
	for _, p := range props {
		e.Set(p.Name, s.resolver.Value(item, p))
	}
	return ShapedEntity{ID: s.idOf(item), Entity: e}
}
