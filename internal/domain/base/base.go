package base

import "time"

// Model is the shape every persisted entity embeds: surrogate id, audit
// timestamps, a soft-delete flag, an optimistic-lock version and a tenant id.
// Rows are never physically removed; queries filter on deleted = false.
type Model struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdatedAt time.Time `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	Deleted   bool      `gorm:"column:deleted;not null;default:false" json:"-"`
	Version   int       `gorm:"column:version;not null;default:0" json:"-"`
	TenantID  *uint64   `gorm:"column:tenant_id" json:"-"`
}
