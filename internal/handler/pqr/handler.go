package pqr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/pqr"
)

const formCode = "pqrs"

type Handler struct {
	service *pqr.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *pqr.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/pqrs")
	{
		routes.POST("", h.auth.RequirePermission(formCode, model.ActionCreate), h.Create)
		routes.GET("", h.auth.RequirePermission(formCode, model.ActionRead), h.List)
		routes.GET("/number/:number", h.auth.RequirePermission(formCode, model.ActionRead), h.GetByNumber)
		routes.GET("/:id", h.auth.RequirePermission(formCode, model.ActionRead), h.Get)
		routes.POST("/:id/review", h.auth.RequirePermission(formCode, model.ActionUpdate), h.StartReview)
		routes.POST("/:id/resolve", h.auth.RequirePermission(formCode, model.ActionUpdate), h.Resolve)
		routes.POST("/:id/close", h.auth.RequirePermission(formCode, model.ActionUpdate), h.Close)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePQRRequest
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid PQR ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) GetByNumber(c *gin.Context) {
	found, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) StartReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid PQR ID"))
		return
	}

	updated, err := h.service.StartReview(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid PQR ID"))
		return
	}

	var req model.ResolvePQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resolved, err := h.service.Resolve(c.Request.Context(), id, req.Resolution)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resolved))
}

func (h *Handler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid PQR ID"))
		return
	}

	closed, err := h.service.Close(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(closed))
}

func (h *Handler) List(c *gin.Context) {
	var filter model.PQRFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	pqrs, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(pqrs))
}
