package query

import (
	"slices"
	"strings"
)

// Direction is the order of one sort key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortKey pairs a resolved property with its direction.
type SortKey struct {
	Property  Property
	Direction Direction
}

// SortDirective is an ordered list of keys; the first is primary, the rest break ties.
type SortDirective []SortKey

// ParseSort builds a directive from an orderBy string such as "age desc,name".
// Each comma-separated token is a property name optionally followed by
// "desc" or "asc" (any case). Tokens naming no property of T are skipped and
// returned in unknown so a strict caller can reject them. A property named
// twice keeps its first position.
func ParseSort[T any](r *Resolver[T], orderBy string) (d SortDirective, unknown []string) {
	seen := map[string]bool{}
	for _, token := range splitTokens(orderBy) {
		parts := strings.Fields(token)
		prop, ok := r.Lookup(parts[0])
		if !ok {
			unknown = append(unknown, parts[0])
			continue
		}
		if seen[prop.Name] {
			continue
		}
		seen[prop.Name] = true
		dir := Ascending
		if len(parts) > 1 && strings.EqualFold(parts[1], "desc") {
			dir = Descending
		}
		d = append(d, SortKey{Property: prop, Direction: dir})
	}
	return d, unknown
}

// MustParseSort is ParseSort for fixed, known-good expressions such as defaults.
func MustParseSort[T any](r *Resolver[T], orderBy string) SortDirective {
	d, unknown := ParseSort(r, orderBy)
	if len(unknown) > 0 || len(d) == 0 {
		panic("query: invalid sort expression " + orderBy)
	}
	return d
}

// Or returns d, or fallback when d is empty.
func (d SortDirective) Or(fallback SortDirective) SortDirective {
	if len(d) == 0 {
		return fallback
	}
	return d
}

// String renders the directive back in orderBy syntax, e.g. "age desc, name asc".
func (d SortDirective) String() string {
	parts := make([]string, 0, len(d))
	for _, k := range d {
		parts = append(parts, k.Property.Name+" "+k.Direction.String())
	}
	return strings.Join(parts, ", ")
}

// SortStable orders items in place by d. Equal elements keep their input order.
func SortStable[T any](r *Resolver[T], items []T, d SortDirective) {
	if len(d) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		for _, k := range d {
			c := r.Compare(a, b, k.Property)
			if c == 0 {
				continue
			}
			if k.Direction == Descending {
				return -c
			}
			return c
		}
		return 0
	})
}
