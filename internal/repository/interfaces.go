package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

// All repository interfaces in one file
type (
	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		GetByDocument(ctx context.Context, docType, docValue string) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter *model.ClientFilter) ([]*model.Client, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		GetByNumber(ctx context.Context, number string) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error)
		ListBookedSlots(ctx context.Context, branchID uuid.UUID, date time.Time) ([]string, error)
		SlotTaken(ctx context.Context, branchID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
	}

	BranchRepository interface {
		Create(ctx context.Context, branch *model.Branch) error
		Get(ctx context.Context, id uuid.UUID) (*model.Branch, error)
		GetByCode(ctx context.Context, code string) (*model.Branch, error)
		Update(ctx context.Context, branch *model.Branch) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, includeInactive bool) ([]*model.Branch, error)
	}

	HolidayRepository interface {
		Create(ctx context.Context, holiday *model.Holiday) error
		Get(ctx context.Context, id uuid.UUID) (*model.Holiday, error)
		Deactivate(ctx context.Context, id uuid.UUID) error
		ListByRange(ctx context.Context, from, to time.Time) ([]*model.Holiday, error)
		ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	}

	PQRRepository interface {
		Create(ctx context.Context, pqr *model.PQR) error
		Get(ctx context.Context, id uuid.UUID) (*model.PQR, error)
		GetByNumber(ctx context.Context, number string) (*model.PQR, error)
		Update(ctx context.Context, pqr *model.PQR) error
		List(ctx context.Context, filter *model.PQRFilter) ([]*model.PQR, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter *model.UserFilter) ([]*model.User, error)
	}

	// RBACRepository persists roles, forms, permission bundles and the
	// ternary association between them.
	RBACRepository interface {
		CreateRole(ctx context.Context, role *model.Role) error
		GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error)
		GetRoleByCode(ctx context.Context, code string) (*model.Role, error)
		UpdateRole(ctx context.Context, role *model.Role) error
		DeactivateRole(ctx context.Context, id uuid.UUID) error
		ListRoles(ctx context.Context, includeInactive bool) ([]*model.Role, error)

		CreateForm(ctx context.Context, form *model.Form) error
		GetForm(ctx context.Context, id uuid.UUID) (*model.Form, error)
		GetFormByCode(ctx context.Context, code string) (*model.Form, error)
		UpdateForm(ctx context.Context, form *model.Form) error
		DeactivateForm(ctx context.Context, id uuid.UUID) error
		ListForms(ctx context.Context, includeInactive bool) ([]*model.Form, error)

		CreatePermission(ctx context.Context, permission *model.Permission) error
		GetPermission(ctx context.Context, id uuid.UUID) (*model.Permission, error)
		GetPermissionByName(ctx context.Context, name string) (*model.Permission, error)
		UpdatePermission(ctx context.Context, permission *model.Permission) error
		DeactivatePermission(ctx context.Context, id uuid.UUID) error
		ListPermissions(ctx context.Context, includeInactive bool) ([]*model.Permission, error)

		AssignPermission(ctx context.Context, roleID, formID, permissionID uuid.UUID) error
		RevokePermission(ctx context.Context, roleID, formID uuid.UUID) error
		UpdateAssignment(ctx context.Context, roleID, formID, permissionID uuid.UUID) error
		ListRoleGrants(ctx context.Context, roleID uuid.UUID) ([]*model.FormGrant, error)

		AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error
		RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error
		ListUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.Role, error)
		ListUserGrants(ctx context.Context, userID uuid.UUID) ([]*model.FormGrant, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		Update(ctx context.Context, notification *model.Notification) error
		ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Notification, error)
	}

	SettingRepository interface {
		Upsert(ctx context.Context, setting *model.SystemSetting) error
		GetByKey(ctx context.Context, key string) (*model.SystemSetting, error)
		List(ctx context.Context) ([]*model.SystemSetting, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error)
	}
)
