package query

import "strings"

// Composer applies the age filter, the search predicate and the sort to a
// record collection. It never mutates its input.
type Composer[T any] struct {
	resolver    *Resolver[T]
	age         func(T) uint
	searchText  func(T) string
	defaultSort SortDirective
}

// NewComposer wires accessors for the filtered and searched fields.
// defaultOrder is used whenever a request's directive is empty; it must resolve.
func NewComposer[T any](r *Resolver[T], age func(T) uint, searchText func(T) string, defaultOrder string) *Composer[T] {
	return &Composer[T]{
		resolver:    r,
		age:         age,
		searchText:  searchText,
		defaultSort: MustParseSort(r, defaultOrder),
	}
}

// Resolver exposes the property table the composer sorts with.
func (c *Composer[T]) Resolver() *Resolver[T] { return c.resolver }

// DefaultSort is the fallback ordering.
func (c *Composer[T]) DefaultSort() SortDirective { return c.defaultSort }

// Compose filters by p's age window and search term, then sorts by order
// (or the default ordering when order is empty).
func (c *Composer[T]) Compose(items []T, p Parameters, order SortDirective) []T {
	out := c.Search(c.Filter(items, p.MinAge, p.MaxAge), p.SearchTerm)
	SortStable(c.resolver, out, order.Or(c.defaultSort))
	return out
}

// Filter keeps records with minAge <= age <= maxAge in a fresh slice.
func (c *Composer[T]) Filter(items []T, minAge, maxAge uint) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if a := c.age(it); a >= minAge && a <= maxAge {
			out = append(out, it)
		}
	}
	return out
}

// Search keeps records whose search text contains term case-insensitively.
// A blank term returns items unchanged.
func (c *Composer[T]) Search(items []T, term string) []T {
	term = SearchTerm(term)
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(c.searchText(it)), term) {
			out = append(out, it)
		}
	}
	return out
}
