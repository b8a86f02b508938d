package holiday

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/holiday"
)

const formCode = "holidays"

type Handler struct {
	service *holiday.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *holiday.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/holidays")
	{
		routes.POST("", h.auth.RequirePermission(formCode, model.ActionCreate), h.Create)
		routes.GET("", h.auth.RequirePermission(formCode, model.ActionRead), h.List)
		routes.DELETE("/:id", h.auth.RequirePermission(formCode, model.ActionDelete), h.Deactivate)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateHolidayRequest
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

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid holiday ID"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("from must be in YYYY-MM-DD format"))
		return
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", from.AddDate(1, 0, 0).Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("to must be in YYYY-MM-DD format"))
		return
	}

	holidays, err := h.service.ListByRange(c.Request.Context(), from, to)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(holidays))
}
