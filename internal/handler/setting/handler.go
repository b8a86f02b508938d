package setting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/setting"
)

const formCode = "settings"

type Handler struct {
	service *setting.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *setting.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/settings")
	{
		routes.GET("", h.auth.RequirePermission(formCode, model.ActionRead), h.List)
		routes.GET("/:key", h.auth.RequirePermission(formCode, model.ActionRead), h.Get)
		routes.PUT("/:key", h.auth.RequirePermission(formCode, model.ActionUpdate), h.Set)
	}
}

func (h *Handler) Set(c *gin.Context) {
	var req model.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Set(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) List(c *gin.Context) {
	settings, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
