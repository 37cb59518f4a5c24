// Package links attaches hypermedia affordances to shaped records when the
// client negotiated a hypermedia representation. Otherwise it passes shaped
// records through untouched.
package links

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/shape"
)

// Link is a single affordance.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// CollectionWrapper is the linked collection body.
type CollectionWrapper struct {
	Value []*shape.Entity `json:"value"`
	Links []Link          `json:"links"`
}

// Response is the generator output. Exactly one representation is populated.
type Response struct {
	HasLinks       bool
	ShapedEntities []*shape.Entity
	LinkedEntities CollectionWrapper
}

// Body returns what the HTTP layer should serialize.
func (r Response) Body() any {
	if r.HasLinks {
		return r.LinkedEntities
	}
	return r.ShapedEntities
}

// Request carries everything the generator needs from the boundary.
// Hypermedia is decided by content negotiation before the call.
type Request struct {
	Hypermedia bool
	Fields     string
	// BaseURL is scheme://host of the incoming request.
	BaseURL string
	// CollectionPath is the collection route with parameters substituted,
	// e.g. /api/companies/{companyId}/employees.
	CollectionPath string
	// Query is the client's query string; pageNumber is rewritten for navigation links.
	Query    url.Values
	MetaData query.MetaData
}

// Generator produces linked or plain shaped output for records of type T.
type Generator[T any] struct {
	shaper   *shape.Shaper[T]
	resource string
}

// NewGenerator builds a generator; resource names the record in link rels
// (update_<resource>, delete_<resource>, ...).
func NewGenerator[T any](s *shape.Shaper[T], resource string) *Generator[T] {
	return &Generator[T]{shaper: s, resource: resource}
}

// TryGenerateLinks shapes items and, when req.Hypermedia is set, attaches
// per-record and collection navigation links.
func (g *Generator[T]) TryGenerateLinks(items []T, req Request) Response {
	shaped := g.shaper.ShapeData(items, req.Fields)
	if !req.Hypermedia {
		return Response{ShapedEntities: entities(shaped)}
	}
	linked := make([]*shape.Entity, 0, len(shaped))
	for _, se := range shaped {
		se.Entity.Set("links", g.recordLinks(req, se.ID, req.Fields))
		linked = append(linked, se.Entity)
	}
	return Response{
		HasLinks: true,
		LinkedEntities: CollectionWrapper{
			Value: linked,
			Links: g.collectionLinks(req),
		},
	}
}

func entities(shaped []shape.ShapedEntity) []*shape.Entity {
	out := make([]*shape.Entity, 0, len(shaped))
	for _, se := range shaped {
		out = append(out, se.Entity)
	}
	return out
}

func (g *Generator[T]) recordLinks(req Request, id, fields string) []Link {
	path := strings.TrimRight(req.CollectionPath, "/") + "/" + url.PathEscape(id)
	item := joinURL(req.BaseURL, path, nil)
	self := item
	if strings.TrimSpace(fields) != "" {
		self = joinURL(req.BaseURL, path, url.Values{"fields": {fields}})
	}
	return []Link{
		{Href: self, Rel: "self", Method: http.MethodGet},
		{Href: item, Rel: "update_" + g.resource, Method: http.MethodPut},
		{Href: item, Rel: "partially_update_" + g.resource, Method: http.MethodPatch},
		{Href: item, Rel: "delete_" + g.resource, Method: http.MethodDelete},
	}
}

// collectionLinks: previous iff currentPage > 1, next iff currentPage < totalPages,
// last only when there is at least one page.
func (g *Generator[T]) collectionLinks(req Request) []Link {
	md := req.MetaData
	page := func(n int) string {
		q := url.Values{}
		for k, v := range req.Query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("pageNumber", strconv.Itoa(n))
		return joinURL(req.BaseURL, req.CollectionPath, q)
	}
	out := []Link{
		{Href: page(md.CurrentPage), Rel: "self", Method: http.MethodGet},
		{Href: page(1), Rel: "first", Method: http.MethodGet},
	}
	if md.CurrentPage > 1 {
		out = append(out, Link{Href: page(md.CurrentPage - 1), Rel: "previous", Method: http.MethodGet})
	}
	if md.CurrentPage < md.TotalPages {
		out = append(out, Link{Href: page(md.CurrentPage + 1), Rel: "next", Method: http.MethodGet})
	}
	if md.TotalPages > 0 {
		out = append(out, Link{Href: page(md.TotalPages), Rel: "last", Method: http.MethodGet})
	}
	return out
}

func joinURL(base, path string, q url.Values) string {
	s := strings.TrimRight(base, "/") + path
	if len(q) > 0 {
		s += "?" + q.Encode()
	}
	return s
}
