package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
	"github.com/maxviazov/coursehub-service/pkg/response"
)

type CourseHandler struct {
	svc  service.CourseService
	list lister
}

func NewCourseHandler(svc service.CourseService, l lister) *CourseHandler {
	return &CourseHandler{svc: svc, list: l}
}

func (h *CourseHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/courses")
	{
		g.POST("", h.create)
		g.GET("", h.listCourses)
		g.GET("/:id", h.getByID)
	}
}

type createCourseRequest struct {
	TeacherID   int64  `json:"teacher_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Status      string `json:"status"`
	PriceCents  int64  `json:"price_cents"`
}

type courseListQuery struct {
	ListQuery
	TeacherID int64  `form:"teacher_id"`
	Status    string `form:"status"`
	Level     string `form:"level"`
	Search    string `form:"q"`
}

func (h *CourseHandler) create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, errMalformedBody)
		return
	}
	course, err := h.svc.CreateCourse(c.Request.Context(), service.CreateCourseInput(req))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, course)
}

func (h *CourseHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	course, err := h.svc.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, course)
}

func (h *CourseHandler) listCourses(c *gin.Context) {
	var q courseListQuery
	req, sort, err := h.list.bind(c, &q, &q.ListQuery)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.CourseFilter{TeacherID: q.TeacherID, Status: q.Status, Level: q.Level, Search: q.Search, Sort: sort}
	res, err := h.svc.ListCourses(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
