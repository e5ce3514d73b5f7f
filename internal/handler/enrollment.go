package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
	"github.com/maxviazov/coursehub-service/pkg/response"
)

type EnrollmentHandler struct {
	svc  service.EnrollmentService
	list lister
}

func NewEnrollmentHandler(svc service.EnrollmentService, l lister) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc, list: l}
}

func (h *EnrollmentHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/enrollments")
	{
		g.POST("", h.enroll)
		g.GET("", h.listAll)
		g.GET("/:id", h.getByID)
	}
	r.GET("/users/:id/enrollments", h.listForUser)
	r.GET("/courses/:id/enrollments", h.listForCourse)
}

type enrollRequest struct {
	UserID   int64 `json:"user_id"`
	CourseID int64 `json:"course_id"`
}

type enrollmentListQuery struct {
	ListQuery
	UserID   int64  `form:"user_id"`
	CourseID int64  `form:"course_id"`
	Status   string `form:"status"`
}

func (h *EnrollmentHandler) enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, errMalformedBody)
		return
	}
	e, err := h.svc.Enroll(c.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, e)
}

func (h *EnrollmentHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	e, err := h.svc.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, e)
}

func (h *EnrollmentHandler) listAll(c *gin.Context) { h.listScoped(c, nil) }

func (h *EnrollmentHandler) listForUser(c *gin.Context) {
	h.listScoped(c, func(f *repository.EnrollmentFilter, id int64) { f.UserID = id })
}

func (h *EnrollmentHandler) listForCourse(c *gin.Context) {
	h.listScoped(c, func(f *repository.EnrollmentFilter, id int64) { f.CourseID = id })
}

// listScoped serves the top-level listing and the nested ones; scope pins the
// path id into the filter and overrides the matching query parameter.
func (h *EnrollmentHandler) listScoped(c *gin.Context, scope func(*repository.EnrollmentFilter, int64)) {
	var q enrollmentListQuery
	req, sort, err := h.list.bind(c, &q, &q.ListQuery)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.EnrollmentFilter{UserID: q.UserID, CourseID: q.CourseID, Status: q.Status, Sort: sort}
	if scope != nil {
		id, err := pathID(c, "id")
		if err != nil {
			response.WriteError(c, err)
			return
		}
		scope(&f, id)
	}
	res, err := h.svc.ListEnrollments(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
