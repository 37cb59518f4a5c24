package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/company-employees-service/internal/handler"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/repository/memory"
	"github.com/maxviazov/company-employees-service/internal/service"
)

const (
	hateoas     = "application/vnd.companyemployees.hateoas+json"
	itSolutions = "c9d4c053-49b6-410c-bc78-2d54a9991870"
	adminSol    = "3d490a70-94ce-4d15-9494-5248280c2ce3"
	samRaiden   = "80abbca8-664d-4b20-b5de-024705497d4a"
	employees   = "/api/companies/" + itSolutions + "/employees"
)

// stubPinger implements handler.Pinger for health endpoints.
type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func newRouter(t *testing.T, p handler.Pinger, strict bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := memory.NewStore()
	s.Seed()
	cr, er := memory.NewCompanyRepository(s), memory.NewEmployeeRepository(s)
	log := zerolog.New(io.Discard)
	r := gin.New()
	handler.Register(r, p,
		service.NewCompanyService(cr, er, memory.NewTxManager(s), log),
		service.NewEmployeeService(er, cr, service.EmployeeOptions{Strict: strict}, log),
		handler.Options{HateoasMediaType: hateoas, Limits: query.DefaultLimits, Storage: "memory"},
	)
	return r
}

func do(r http.Handler, method, target, accept string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedEmployees(t *testing.T, r http.Handler, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		w := do(r, http.MethodPost, employees, "", map[string]any{
			"name": "Emp " + string(rune('A'+i)), "age": 20 + i, "position": "Dev",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/live", "", nil).Code)
	w := do(r, http.MethodGet, "/api/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","storage":"memory"}`, w.Body.String())

	r = newRouter(t, stubPinger{err: errors.New("db down")}, false)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/ready", "", nil).Code)
}

func TestListEmployees_PlainJSONWithPaginationHeader(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	w := do(r, http.MethodGet, employees+"?orderBy=age%20desc&fields=name,age", "application/json", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var meta query.MetaData
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("X-Pagination")), &meta))
	assert.Equal(t, query.MetaData{CurrentPage: 1, TotalPages: 1, PageSize: 10, TotalCount: 2}, meta)

	assert.Equal(t, `[{"name":"Jana McLeaf","age":30},{"name":"Sam Raiden","age":26}]`, w.Body.String())
}

func TestListEmployees_HypermediaWrapsAndLinks(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	seedEmployees(t, r, 10)

	w := do(r, http.MethodGet, employees+"?pageSize=5&pageNumber=2&fields=name", hateoas, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Value []struct {
			Name  string `json:"name"`
			Links []struct {
				Href   string `json:"href"`
				Rel    string `json:"rel"`
				Method string `json:"method"`
			} `json:"links"`
		} `json:"value"`
		Links []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Value, 5)
	require.Len(t, body.Value[0].Links, 4)
	assert.True(t, strings.HasPrefix(body.Value[0].Links[0].Href, "http://example.com"+employees+"/"))
	assert.Equal(t, "PATCH", body.Value[0].Links[2].Method)

	var rels []string
	for _, l := range body.Links {
		rels = append(rels, l.Rel)
	}
	if diff := cmp.Diff([]string{"self", "first", "previous", "next", "last"}, rels); diff != "" {
		t.Fatalf("collection rels mismatch (-want +got):\n%s", diff)
	}
	next, err := url.Parse(body.Links[3].Href)
	require.NoError(t, err)
	assert.Equal(t, "3", next.Query().Get("pageNumber"))
	assert.Equal(t, "5", next.Query().Get("pageSize"))
	assert.Equal(t, "name", next.Query().Get("fields"))
}

func TestListEmployees_CheckOrder(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	missing := "/api/companies/11111111-1111-1111-1111-111111111111/employees"

	w := do(r, http.MethodGet, missing+"?minAge=40&maxAge=30", "not a media type", nil)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	w = do(r, http.MethodGet, missing+"?minAge=40&maxAge=30", "application/json", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "max age can't be less than min age")

	w = do(r, http.MethodGet, missing, "application/json", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEmployees_BadQueryAndStrictMode(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, employees+"?minAge=-1", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, employees+"?pageNumber=0", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, employees+"?orderBy=salary", "", nil).Code)

	strict := newRouter(t, stubPinger{}, true)
	w := do(strict, http.MethodGet, employees+"?orderBy=salary&fields=name", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"orderBy"`)
}

func TestListEmployees_OutOfRangePage(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	w := do(r, http.MethodGet, employees+"?pageNumber=7", hateoas, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Value []json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Value)
	assert.Empty(t, body.Value)
	assert.Contains(t, w.Header().Get("X-Pagination"), `"totalCount":2`)
}

func TestListEmployees_HugePageNumber(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	w := do(r, http.MethodGet, employees+"?pageNumber=9223372036854775809&pageSize=1", "application/json", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, w.Body.String())

	var md query.MetaData
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("X-Pagination")), &md))
	assert.Positive(t, md.CurrentPage)
	assert.True(t, md.HasPrevious)
	assert.False(t, md.HasNext)
	assert.Equal(t, 2, md.TotalCount)
}

func TestListEmployees_Head(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)
	w := do(r, http.MethodHead, employees, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Pagination"))
	assert.Zero(t, w.Body.Len())
}

func TestEmployeeCRUD(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)

	w := do(r, http.MethodPost, employees, "", map[string]any{"name": "Amy", "age": 17, "position": "Dev"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"age"`)

	w = do(r, http.MethodPost, employees, "", map[string]any{"name": "Amy", "age": 31, "position": "Dev"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "http://example.com"+employees+"/"))
	path := strings.TrimPrefix(loc, "http://example.com")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPut, path, "", map[string]any{"name": "Amy B", "age": 32, "position": "Lead"}).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPatch, path, "", map[string]any{"position": "CTO"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPatch, path, "", map[string]any{"age": 3}).Code)

	w = do(r, http.MethodGet, path, "", nil)
	assert.JSONEq(t, `{"id":"`+strings.TrimPrefix(path, employees+"/")+`","name":"Amy B","age":32,"position":"CTO"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "", nil).Code)

	// employee of another company is invisible here
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/companies/"+adminSol+"/employees/"+samRaiden, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, employees+"/not-a-uuid", "", nil).Code)
}

func TestCompanies(t *testing.T) {
	r := newRouter(t, stubPinger{}, false)

	w := do(r, http.MethodGet, "/api/companies", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin_Solutions Ltd")

	w = do(r, http.MethodOptions, "/api/companies", "", nil)
	assert.Equal(t, "GET, OPTIONS, POST", w.Header().Get("Allow"))

	w = do(r, http.MethodGet, "/api/companies/collection/("+itSolutions+","+adminSol+")", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/companies/collection/("+itSolutions+",11111111-1111-1111-1111-111111111111)", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/companies/collection/(nope)", "", nil).Code)

	w = do(r, http.MethodPost, "/api/companies/collection", "", []map[string]any{
		{"name": "One Ltd", "address": "1 Road"},
		{"name": "Two Ltd", "address": "2 Road"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Location"), "/api/companies/collection/(")

	w = do(r, http.MethodPost, "/api/companies", "", map[string]any{
		"name": "Three Ltd", "address": "3 Road", "country": "USA",
		"employees": []map[string]any{{"name": "Joan Dane", "age": 29, "position": "Manager"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loc := strings.TrimPrefix(w.Header().Get("Location"), "http://example.com")

	w = do(r, http.MethodGet, loc+"/employees", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Joan Dane")

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPut, loc, "", map[string]any{"name": "Three Ltd", "address": "4 Road"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, loc, "", map[string]any{"name": ""}).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, loc, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, loc+"/employees", "", nil).Code)
}
