package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
	"github.com/maxviazov/coursehub-service/pkg/response"
)

type OrderHandler struct {
	svc  service.OrderService
	list lister
}

func NewOrderHandler(svc service.OrderService, l lister) *OrderHandler {
	return &OrderHandler{svc: svc, list: l}
}

func (h *OrderHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/orders")
	{
		g.GET("", h.listOrders)
		g.GET("/:id", h.getByID)
	}
}

type orderListQuery struct {
	ListQuery
	UserID   int64  `form:"user_id"`
	CourseID int64  `form:"course_id"`
	Status   string `form:"status"`
}

func (h *OrderHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	o, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, o)
}

func (h *OrderHandler) listOrders(c *gin.Context) {
	var q orderListQuery
	req, sort, err := h.list.bind(c, &q, &q.ListQuery)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.OrderFilter{UserID: q.UserID, CourseID: q.CourseID, Status: q.Status, Sort: sort}
	res, err := h.svc.ListOrders(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
