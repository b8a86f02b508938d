package rbac

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/model"
	rbacService "github.com/serviexpress/scheduling-api/internal/service/rbac"
)

const formCode = "rbac"

type Handler struct {
	service *rbacService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *rbacService.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

type createRoleRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type updateRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

type createFormRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type createPermissionRequest struct {
	Name      string `json:"name" binding:"required"`
	CanRead   bool   `json:"can_read"`
	CanCreate bool   `json:"can_create"`
	CanUpdate bool   `json:"can_update"`
	CanDelete bool   `json:"can_delete"`
}

type assignPermissionRequest struct {
	FormID       string `json:"form_id" binding:"required,uuid"`
	PermissionID string `json:"permission_id" binding:"required,uuid"`
}

type assignRoleRequest struct {
	RoleID string `json:"role_id" binding:"required,uuid"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	read := h.auth.RequirePermission(formCode, model.ActionRead)
	create := h.auth.RequirePermission(formCode, model.ActionCreate)
	update := h.auth.RequirePermission(formCode, model.ActionUpdate)
	remove := h.auth.RequirePermission(formCode, model.ActionDelete)

	rbac := rg.Group("/rbac")
	{
		roles := rbac.Group("/roles")
		{
			roles.POST("", create, h.CreateRole)
			roles.GET("", read, h.ListRoles)
			roles.GET("/:id", read, h.GetRole)
			roles.GET("/:id/grants", read, h.ListRoleGrants)
			roles.PUT("/:id", update, h.UpdateRole)
			roles.DELETE("/:id", remove, h.DeactivateRole)
			roles.POST("/:id/permissions", update, h.AssignPermission)
			roles.PUT("/:id/permissions/:formId", update, h.UpdateAssignment)
			roles.DELETE("/:id/permissions/:formId", update, h.RevokePermission)
		}

		forms := rbac.Group("/forms")
		{
			forms.POST("", create, h.CreateForm)
			forms.GET("", read, h.ListForms)
			forms.PUT("/:id", update, h.UpdateForm)
			forms.DELETE("/:id", remove, h.DeactivateForm)
		}

		permissions := rbac.Group("/permissions")
		{
			permissions.POST("", create, h.CreatePermission)
			permissions.GET("", read, h.ListPermissions)
			permissions.PUT("/:id", update, h.UpdatePermission)
			permissions.DELETE("/:id", remove, h.DeactivatePermission)
		}

		users := rbac.Group("/users")
		{
			users.POST("/:id/roles", update, h.AssignRoleToUser)
			users.DELETE("/:id/roles/:roleId", update, h.RemoveRoleFromUser)
			users.GET("/:id/roles", read, h.ListUserRoles)
			users.GET("/:id/permissions", read, h.ResolvePermissions)
		}
	}
}

func (h *Handler) CreateRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	role := &model.Role{Code: req.Code, Name: req.Name}
	if err := h.service.CreateRole(c.Request.Context(), role); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(role))
}

func (h *Handler) GetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(role))
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	role.Name = req.Name

	if err := h.service.UpdateRole(c.Request.Context(), role); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(role))
}

func (h *Handler) DeactivateRole(c *gin.Context) {
	h.deactivate(c, h.service.DeactivateRole, "invalid role ID")
}

func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.service.ListRoles(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(roles))
}

func (h *Handler) ListRoleGrants(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	grants, err := h.service.ListRoleGrants(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(grants))
}

func (h *Handler) CreateForm(c *gin.Context) {
	var req createFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	form := &model.Form{Code: req.Code, Name: req.Name}
	if err := h.service.CreateForm(c.Request.Context(), form); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(form))
}

func (h *Handler) UpdateForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	form, err := h.service.GetForm(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	form.Name = req.Name

	if err := h.service.UpdateForm(c.Request.Context(), form); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(form))
}

func (h *Handler) DeactivateForm(c *gin.Context) {
	h.deactivate(c, h.service.DeactivateForm, "invalid form ID")
}

func (h *Handler) ListForms(c *gin.Context) {
	forms, err := h.service.ListForms(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(forms))
}

func (h *Handler) CreatePermission(c *gin.Context) {
	var req createPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	permission := &model.Permission{
		Name:      req.Name,
		CanRead:   req.CanRead,
		CanCreate: req.CanCreate,
		CanUpdate: req.CanUpdate,
		CanDelete: req.CanDelete,
	}
	if err := h.service.CreatePermission(c.Request.Context(), permission); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(permission))
}

func (h *Handler) UpdatePermission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid permission ID"))
		return
	}

	var req createPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	permission, err := h.service.GetPermission(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	permission.Name = req.Name
	permission.CanRead = req.CanRead
	permission.CanCreate = req.CanCreate
	permission.CanUpdate = req.CanUpdate
	permission.CanDelete = req.CanDelete

	if err := h.service.UpdatePermission(c.Request.Context(), permission); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(permission))
}

func (h *Handler) DeactivatePermission(c *gin.Context) {
	h.deactivate(c, h.service.DeactivatePermission, "invalid permission ID")
}

func (h *Handler) ListPermissions(c *gin.Context) {
	permissions, err := h.service.ListPermissions(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(permissions))
}

func (h *Handler) AssignPermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	var req assignPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	formID, _ := uuid.Parse(req.FormID)
	permissionID, _ := uuid.Parse(req.PermissionID)

	if err := h.service.AssignPermission(c.Request.Context(), roleID, formID, permissionID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) UpdateAssignment(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}
	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	var req struct {
		PermissionID string `json:"permission_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	permissionID, _ := uuid.Parse(req.PermissionID)

	if err := h.service.UpdateAssignment(c.Request.Context(), roleID, formID, permissionID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RevokePermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}
	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	if err := h.service.RevokePermission(c.Request.Context(), roleID, formID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AssignRoleToUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	roleID, _ := uuid.Parse(req.RoleID)

	if err := h.service.AssignRoleToUser(c.Request.Context(), userID, roleID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) RemoveRoleFromUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}
	roleID, err := uuid.Parse(c.Param("roleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	if err := h.service.RemoveRoleFromUser(c.Request.Context(), userID, roleID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListUserRoles(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	roles, err := h.service.ListUserRoles(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(roles))
}

// ResolvePermissions exposes a user's effective per-form CRUD matrix.
func (h *Handler) ResolvePermissions(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	perms, err := h.service.ResolvePermissions(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(perms))
}

func (h *Handler) deactivate(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error, badID string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(badID))
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
