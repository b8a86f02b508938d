package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
)

const formCode = "audit"

type Handler struct {
	service *audit.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *audit.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit/:entityType/:id", h.auth.RequirePermission(formCode, model.ActionRead), h.List)
}

func (h *Handler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid entity ID"))
		return
	}

	logs, err := h.service.List(c.Request.Context(), c.Param("entityType"), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}
