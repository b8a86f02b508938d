package model

// SystemSetting is a key-value configuration row managed at runtime.
type SystemSetting struct {
	Base
	Key         string `db:"key" json:"key"`
	Value       string `db:"value" json:"value"`
	Description string `db:"description" json:"description"`
}

type UpsertSettingRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}
