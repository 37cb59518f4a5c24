package query

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Property is one exported, publicly named field of a record type.
type Property struct {
	// Name is the public name, taken from the json tag or the Go field name.
	Name string
	// Column is the storage column from the db tag; empty when the field has none.
	Column string

	index   []int
	compare func(a, b reflect.Value) int
}

// Resolver maps case-insensitive property names of T to accessors.
// It is the only place in the pipeline that touches reflection.
type Resolver[T any] struct {
	props  []Property
	byName map[string]int
}

var resolverCache sync.Map // reflect.Type -> *resolverData

type resolverData struct {
	props  []Property
	byName map[string]int
}

// NewResolver builds (or reuses) the property table for T.
// T must be a struct type; anything else yields an empty resolver.
func NewResolver[T any]() *Resolver[T] {
	t := reflect.TypeFor[T]()
	if cached, ok := resolverCache.Load(t); ok {
		d := cached.(*resolverData)
		return &Resolver[T]{props: d.props, byName: d.byName}
	}
	d := buildResolverData(t)
	actual, _ := resolverCache.LoadOrStore(t, d)
	d = actual.(*resolverData)
	return &Resolver[T]{props: d.props, byName: d.byName}
}

func buildResolverData(t reflect.Type) *resolverData {
	d := &resolverData{byName: map[string]int{}}
	if t.Kind() != reflect.Struct {
		return d
	}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		key := strings.ToLower(name)
		if _, dup := d.byName[key]; dup {
			continue
		}
		column, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		d.byName[key] = len(d.props)
		d.props = append(d.props, Property{
			Name:    name,
			Column:  column,
			index:   f.Index,
			compare: comparatorFor(f.Type),
		})
	}
	return d
}

// Properties returns every declared property in declaration order.
func (r *Resolver[T]) Properties() []Property {
	out := make([]Property, len(r.props))
	copy(out, r.props)
	return out
}

// Lookup resolves name case-insensitively after trimming.
func (r *Resolver[T]) Lookup(name string) (Property, bool) {
	i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Property{}, false
	}
	return r.props[i], true
}

// Value reads property p from rec.
func (r *Resolver[T]) Value(rec T, p Property) any {
	return reflect.ValueOf(rec).FieldByIndex(p.index).Interface()
}

// Compare orders a and b by property p.
func (r *Resolver[T]) Compare(a, b T, p Property) int {
	return p.compare(reflect.ValueOf(a).FieldByIndex(p.index), reflect.ValueOf(b).FieldByIndex(p.index))
}

var timeType = reflect.TypeFor[time.Time]()

func comparatorFor(t reflect.Type) func(a, b reflect.Value) int {
	switch t.Kind() {
	case reflect.String:
		return func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) }
	case reflect.Float32, reflect.Float64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) }
	case reflect.Bool:
		return func(a, b reflect.Value) int { return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool())) }
	case reflect.Array:
		// byte arrays (uuid.UUID and friends) compare element-wise
		if t.Elem().Kind() == reflect.Uint8 {
			return func(a, b reflect.Value) int {
				for i := 0; i < a.Len(); i++ {
					if c := cmp.Compare(a.Index(i).Uint(), b.Index(i).Uint()); c != 0 {
						return c
					}
				}
				return 0
			}
		}
	case reflect.Struct:
		if t == timeType {
			return func(a, b reflect.Value) int {
				return a.Interface().(time.Time).Compare(b.Interface().(time.Time))
			}
		}
	}
	return func(a, b reflect.Value) int {
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
