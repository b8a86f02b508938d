package client

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/client"
)

const formCode = "clients"

type Handler struct {
	service *client.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *client.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/clients")
	{
		routes.POST("", h.auth.RequirePermission(formCode, model.ActionCreate), h.Create)
		routes.GET("", h.auth.RequirePermission(formCode, model.ActionRead), h.List)
		routes.GET("/:id", h.auth.RequirePermission(formCode, model.ActionRead), h.Get)
		routes.GET("/by-document", h.auth.RequirePermission(formCode, model.ActionRead), h.GetByDocument)
		routes.PUT("/:id", h.auth.RequirePermission(formCode, model.ActionUpdate), h.Update)
		routes.DELETE("/:id", h.auth.RequirePermission(formCode, model.ActionDelete), h.Deactivate)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateClientRequest
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid client ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) GetByDocument(c *gin.Context) {
	docType := c.Query("type")
	docValue := c.Query("value")
	if docType == "" || docValue == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("type and value query parameters are required"))
		return
	}

	found, err := h.service.GetByDocument(c.Request.Context(), docType, docValue)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid client ID"))
		return
	}

	var req model.UpdateClientRequest
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid client ID"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ClientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clients, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clients))
}
