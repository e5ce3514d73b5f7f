package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
	"github.com/maxviazov/coursehub-service/pkg/response"
)

type CertificateHandler struct {
	svc  service.CertificateService
	list lister
}

func NewCertificateHandler(svc service.CertificateService, l lister) *CertificateHandler {
	return &CertificateHandler{svc: svc, list: l}
}

func (h *CertificateHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/certificates")
	{
		g.GET("", h.listAll)
		g.GET("/:id", h.getByID)
	}
	r.GET("/users/:id/certificates", h.listForUser)
}

type certificateListQuery struct {
	ListQuery
	UserID   int64 `form:"user_id"`
	CourseID int64 `form:"course_id"`
}

func (h *CertificateHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	cert, err := h.svc.GetCertificate(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, cert)
}

func (h *CertificateHandler) listAll(c *gin.Context) { h.listScoped(c, false) }

func (h *CertificateHandler) listForUser(c *gin.Context) { h.listScoped(c, true) }

func (h *CertificateHandler) listScoped(c *gin.Context, byUser bool) {
	var q certificateListQuery
	req, sort, err := h.list.bind(c, &q, &q.ListQuery)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.CertificateFilter{UserID: q.UserID, CourseID: q.CourseID, Sort: sort}
	if byUser {
		if f.UserID, err = pathID(c, "id"); err != nil {
			response.WriteError(c, err)
			return
		}
	}
	res, err := h.svc.ListCertificates(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
