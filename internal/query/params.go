// Package query turns untyped client list parameters into typed operations over
// a record collection: age filtering, free-text search, a runtime-resolved
// multi-key sort, and page slicing with metadata.
package query

import (
	"math"
	"strings"
)

// MaxAgeUnbounded is the maxAge used when the client does not send one.
const MaxAgeUnbounded uint = math.MaxUint32

// Limits bounds the page size a client may ask for.
type Limits struct {
	DefaultPageSize uint
	MaxPageSize     uint
}

// DefaultLimits mirrors the paging section defaults of the service config.
var DefaultLimits = Limits{DefaultPageSize: 10, MaxPageSize: 50}

// Parameters is the decoded list request. Form tags match the query string keys.
type Parameters struct {
	MinAge     uint   `form:"minAge"`
	MaxAge     uint   `form:"maxAge" validate:"gtefield=MinAge"`
	SearchTerm string `form:"searchTerm"`
	OrderBy    string `form:"orderBy"`
	Fields     string `form:"fields"`
	PageNumber uint   `form:"pageNumber" validate:"min=1"`
	PageSize   uint   `form:"pageSize" validate:"min=1"`
}

// NewParameters returns the defaults a request starts from before binding.
func NewParameters(l Limits) Parameters {
	return Parameters{
		MaxAge:     MaxAgeUnbounded,
		PageNumber: 1,
		PageSize:   l.DefaultPageSize,
	}
}

// ValidAgeRange reports whether the age window is non-empty.
func (p Parameters) ValidAgeRange() bool { return p.MaxAge >= p.MinAge }

// Normalize fills zero paging values and clamps the page size to l.MaxPageSize.
func (p Parameters) Normalize(l Limits) Parameters {
	if l.DefaultPageSize == 0 {
		l.DefaultPageSize = DefaultLimits.DefaultPageSize
	}
	if l.MaxPageSize == 0 {
		l.MaxPageSize = DefaultLimits.MaxPageSize
	}
	if p.PageNumber == 0 {
		p.PageNumber = 1
	}
	if p.PageSize == 0 {
		p.PageSize = l.DefaultPageSize
	}
	if p.PageSize > l.MaxPageSize {
		p.PageSize = l.MaxPageSize
	}
	return p
}

// SearchTerm returns the trimmed, lower-cased term; empty means no search.
func SearchTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// splitTokens splits a comma-separated list, trimming and dropping blanks.
func splitTokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitFields exposes the tolerant token splitter used for the fields list.
func SplitFields(raw string) []string { return splitTokens(raw) }
