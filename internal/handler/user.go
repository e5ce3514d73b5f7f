package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
	"github.com/maxviazov/coursehub-service/pkg/response"
)

type UserHandler struct {
	svc  service.UserService
	list lister
}

func NewUserHandler(svc service.UserService, l lister) *UserHandler {
	return &UserHandler{svc: svc, list: l}
}

func (h *UserHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/users")
	{
		g.POST("", h.create)
		g.GET("", h.listUsers)
		// nested listings under /users/:id are registered by their own handlers
		g.GET("/:id", h.getByID)
	}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type userListQuery struct {
	ListQuery
	Role   string `form:"role"`
	Status string `form:"status"`
	Search string `form:"q"`
}

func (h *UserHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, errMalformedBody)
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), service.CreateUserInput{Name: req.Name, Email: req.Email, Role: req.Role})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, u)
}

func (h *UserHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	u, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, u)
}

func (h *UserHandler) listUsers(c *gin.Context) {
	var q userListQuery
	req, sort, err := h.list.bind(c, &q, &q.ListQuery)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.UserFilter{Role: q.Role, Status: q.Status, Search: q.Search, Sort: sort}
	res, err := h.svc.ListUsers(c.Request.Context(), f, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
