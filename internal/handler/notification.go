package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
	"github.com/maxviazov/coursehub-service/pkg/response"
)

type NotificationHandler struct {
	svc  service.NotificationService
	list lister
}

func NewNotificationHandler(svc service.NotificationService, l lister) *NotificationHandler {
	return &NotificationHandler{svc: svc, list: l}
}

func (h *NotificationHandler) Register(r *gin.RouterGroup) {
	r.GET("/users/:id/notifications", h.listForUser)
	r.POST("/notifications/:id/read", h.markRead)
}

type notificationListQuery struct {
	ListQuery
	Kind   string `form:"kind"`
	Unread bool   `form:"unread"`
}

type markReadRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *NotificationHandler) listForUser(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var q notificationListQuery
	req, sort, err := h.list.bind(c, &q, &q.ListQuery)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.NotificationFilter{UserID: userID, Kind: q.Kind, UnreadOnly: q.Unread, Sort: sort}
	res, err := h.svc.ListNotifications(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, errMalformedBody)
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), req.UserID, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, n)
}
