package branch

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/branch"
)

const formCode = "branches"

type Handler struct {
	service *branch.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *branch.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/branches")
	{
		routes.POST("", h.auth.RequirePermission(formCode, model.ActionCreate), h.Create)
		routes.GET("", h.auth.RequirePermission(formCode, model.ActionRead), h.List)
		routes.GET("/:id", h.auth.RequirePermission(formCode, model.ActionRead), h.Get)
		routes.PUT("/:id", h.auth.RequirePermission(formCode, model.ActionUpdate), h.Update)
		routes.DELETE("/:id", h.auth.RequirePermission(formCode, model.ActionDelete), h.Deactivate)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid branch ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid branch ID"))
		return
	}

	var req model.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid branch ID"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	branches, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(branches))
}
