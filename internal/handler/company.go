package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/service"
	"github.com/maxviazov/company-employees-service/pkg/response"
)

type CompanyHandler struct {
	svc service.CompanyService
}

func NewCompanyHandler(svc service.CompanyService) *CompanyHandler { return &CompanyHandler{svc: svc} }

func (h *CompanyHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/companies")
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.OPTIONS("", h.options)
		g.GET("/collection/:ids", h.getCollection)
		g.POST("/collection", h.createCollection)
		// companyId is shared with the nested employees routes.
		g.GET("/:companyId", h.getByID)
		g.PUT("/:companyId", h.update)
		g.DELETE("/:companyId", h.delete)
	}
}

func (h *CompanyHandler) list(c *gin.Context) {
	list, err := h.svc.ListCompanies(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, list)
}

func (h *CompanyHandler) options(c *gin.Context) {
	c.Header("Allow", "GET, OPTIONS, POST")
	c.Status(http.StatusOK)
}

func (h *CompanyHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	company, err := h.svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, company)
}

func (h *CompanyHandler) getCollection(c *gin.Context) {
	ids, err := parseIDList(c.Param("ids"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	list, err := h.svc.GetCompanies(c.Request.Context(), ids)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, list)
}

func (h *CompanyHandler) create(c *gin.Context) {
	var req model.CompanyForManipulation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, invalidBody())
		return
	}
	company, err := h.svc.CreateCompany(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Location", baseURL(c)+APIPrefix+"/companies/"+company.ID.String())
	response.WriteData(c, http.StatusCreated, company)
}

func (h *CompanyHandler) createCollection(c *gin.Context) {
	var req []model.CompanyForManipulation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, invalidBody())
		return
	}
	list, err := h.svc.CreateCompanyCollection(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	ids := make([]string, 0, len(list))
	for _, co := range list {
		ids = append(ids, co.ID.String())
	}
	c.Header("Location", baseURL(c)+APIPrefix+"/companies/collection/("+strings.Join(ids, ",")+")")
	response.WriteData(c, http.StatusCreated, list)
}

func (h *CompanyHandler) update(c *gin.Context) {
	id, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req model.CompanyForManipulation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, invalidBody())
		return
	}
	if err := h.svc.UpdateCompany(c.Request.Context(), id, req); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) delete(c *gin.Context) {
	id, err := pathID(c, "companyId")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.svc.DeleteCompany(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
