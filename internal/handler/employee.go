package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/maxviazov/company-employees-service/internal/links"
	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/service"
	"github.com/maxviazov/company-employees-service/internal/shape"
	"github.com/maxviazov/company-employees-service/pkg/response"
)

const (
	serviceTimeout   = 5 * time.Second
	paginationHeader = "X-Pagination"
)

type EmployeeHandler struct {
	svc    service.EmployeeService
	links  *links.Generator[model.EmployeeDto]
	limits query.Limits
}

func NewEmployeeHandler(svc service.EmployeeService, limits query.Limits) *EmployeeHandler {
	if limits == (query.Limits{}) {
		limits = query.DefaultLimits
	}
	shaper := shape.NewShaper(query.NewResolver[model.EmployeeDto](), func(e model.EmployeeDto) string { return e.ID.String() })
	return &EmployeeHandler{
		svc:    svc,
		links:  links.NewGenerator(shaper, "employee"),
		limits: limits,
	}
}

// Register mounts the employee routes; mediaType guards the list endpoints.
func (h *EmployeeHandler) Register(r *gin.RouterGroup, mediaType gin.HandlerFunc) {
	g := r.Group("/companies/:companyId/employees")
	{
		g.GET("", mediaType, h.list)
		g.HEAD("", mediaType, h.list)
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.PATCH("/:id", h.patch)
		g.DELETE("/:id", h.delete)
	}
}

// list runs the whole pipeline: bind parameters, compose and page in the
// service, then shape and link the page for the response.
func (h *EmployeeHandler) list(c *gin.Context) {
	start := time.Now()
	companyID, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	p := query.NewParameters(h.limits)
	if err := c.ShouldBindQuery(&p); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "query", Message: "query parameters must be non-negative integers where numeric"}}))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()
	page, err := h.svc.ListEmployees(ctx, companyID, p)

	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("company_id", companyID.String()).
		Dur("duration", time.Since(start)).
		Logger()

	if err != nil {
		status, _ := response.MapError(err)
		logger.Debug().Err(err).Int("status", status).Msg("failed to list employees")
		response.WriteError(c, err)
		return
	}

	meta, err := json.Marshal(page.MetaData)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header(paginationHeader, string(meta))

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}

	res := h.links.TryGenerateLinks(page.Items, links.Request{
		Hypermedia:     hypermediaRequested(c),
		Fields:         p.Fields,
		BaseURL:        baseURL(c),
		CollectionPath: c.Request.URL.Path,
		Query:          c.Request.URL.Query(),
		MetaData:       page.MetaData,
	})
	logger.Debug().Bool("links", res.HasLinks).Int("status", http.StatusOK).Msg("employees listed")
	response.WriteData(c, http.StatusOK, res.Body())
}

func (h *EmployeeHandler) getByID(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	employee, err := h.svc.GetEmployee(c.Request.Context(), companyID, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, employee)
}

func (h *EmployeeHandler) create(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req model.EmployeeForManipulation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, invalidBody())
		return
	}
	employee, err := h.svc.CreateEmployee(c.Request.Context(), companyID, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Location", baseURL(c)+c.Request.URL.Path+"/"+employee.ID.String())
	response.WriteData(c, http.StatusCreated, employee)
}

func (h *EmployeeHandler) update(c *gin.Context) {
	companyID, id, ok := h.ids(c)
	if !ok {
		return
	}
	var req model.EmployeeForManipulation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, invalidBody())
		return
	}
	if err := h.svc.UpdateEmployee(c.Request.Context(), companyID, id, req); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// patch takes a merge document: absent fields keep their stored value.
func (h *EmployeeHandler) patch(c *gin.Context) {
	companyID, id, ok := h.ids(c)
	if !ok {
		return
	}
	var req model.EmployeePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, invalidBody())
		return
	}
	if err := h.svc.PatchEmployee(c.Request.Context(), companyID, id, req); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) delete(c *gin.Context) {
	companyID, id, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteEmployee(c.Request.Context(), companyID, id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) ids(c *gin.Context) (companyID, id uuid.UUID, ok bool) {
	cid, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return companyID, id, false
	}
	eid, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return companyID, id, false
	}
	return cid, eid, true
}
