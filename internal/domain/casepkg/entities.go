package casepkg

import (
	"time"

	"drmp-backend/internal/domain/base"
)

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusPublished  Status = "PUBLISHED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusWithdrawn  Status = "WITHDRAWN"
)

type ImportStatus string

const (
	ImportPending        ImportStatus = "PENDING"
	ImportProcessing     ImportStatus = "PROCESSING"
	ImportSuccess        ImportStatus = "SUCCESS"
	ImportPartialSuccess ImportStatus = "PARTIAL_SUCCESS"
	ImportFailed         ImportStatus = "FAILED"
)

// CasePackage aggregates many cases from one source org. TotalCount and
// TotalAmount cache a COUNT/SUM over the child cases; they may be stale
// between import completion and an explicit statistics refresh.
type CasePackage struct {
	base.Model
	Name                 string       `gorm:"column:name;size:255;not null;uniqueIndex:ux_case_packages_org_name" json:"name"`
	Description          string       `gorm:"column:description;type:text" json:"description,omitempty"`
	SourceOrgID          uint64       `gorm:"column:source_org_id;not null;index;uniqueIndex:ux_case_packages_org_name" json:"source_org_id"`
	TotalCount           int          `gorm:"column:total_count;not null;default:0" json:"total_count"`
	TotalAmount          float64      `gorm:"column:total_amount;type:decimal(15,2);not null;default:0" json:"total_amount"`
	AssignedCount        int          `gorm:"column:assigned_count;not null;default:0" json:"assigned_count"`
	AssignedAmount       float64      `gorm:"column:assigned_amount;type:decimal(15,2);not null;default:0" json:"assigned_amount"`
	Status               Status       `gorm:"column:status;size:32;not null;default:'DRAFT'" json:"status"`
	PublishTime          *time.Time   `gorm:"column:publish_time" json:"publish_time,omitempty"`
	ExpectedRecoveryRate *float64     `gorm:"column:expected_recovery_rate;type:decimal(5,2)" json:"expected_recovery_rate,omitempty"`
	ExpectedPeriod       *int         `gorm:"column:expected_period" json:"expected_period,omitempty"`
	PreferredMethods     string       `gorm:"column:preferred_methods;type:json" json:"preferred_methods,omitempty"`
	AssignmentStrategy   string       `gorm:"column:assignment_strategy;type:json" json:"assignment_strategy,omitempty"`
	ImportFilePath       string       `gorm:"column:import_file_path;size:500" json:"-"`
	ImportStatus         ImportStatus `gorm:"column:import_status;size:32;default:'PENDING'" json:"import_status"`
	ImportProgress       int          `gorm:"column:import_progress;default:0" json:"import_progress"`
	ImportErrorMsg       string       `gorm:"column:import_error_msg;type:text" json:"import_error_msg,omitempty"`
}

func (CasePackage) TableName() string { return "case_packages" }

func (p *CasePackage) CanEdit() bool { return p.Status == StatusDraft }

func (p *CasePackage) CanPublish() bool {
	return (p.Status == StatusDraft || p.Status == StatusWithdrawn) && p.TotalCount > 0
}

func (p *CasePackage) RemainingCount() int { return p.TotalCount - p.AssignedCount }

func (p *CasePackage) AssignmentProgress() int {
	if p.TotalCount == 0 {
		return 0
	}
	return p.AssignedCount * 100 / p.TotalCount
}
