package casepkg

import (
	"time"
)

type CreatePackageInput struct {
	Name                 string   `json:"name" validate:"required,max=255"`
	Description          string   `json:"description,omitempty"`
	SourceOrgID          uint64   `json:"source_org_id" validate:"required"`
	ExpectedRecoveryRate *float64 `json:"expected_recovery_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	ExpectedPeriod       *int     `json:"expected_period,omitempty" validate:"omitempty,gt=0"`
	PreferredMethods     string   `json:"preferred_methods,omitempty"`
}

type UpdatePackageInput struct {
	Name                 string   `json:"name,omitempty" validate:"omitempty,max=255"`
	Description          string   `json:"description,omitempty"`
	ExpectedRecoveryRate *float64 `json:"expected_recovery_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	ExpectedPeriod       *int     `json:"expected_period,omitempty" validate:"omitempty,gt=0"`
	PreferredMethods     string   `json:"preferred_methods,omitempty"`
}

type PackageDTO struct {
	ID                   uint64     `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	SourceOrgID          uint64     `json:"source_org_id"`
	TotalCount           int        `json:"total_count"`
	TotalAmount          float64    `json:"total_amount"`
	AssignedCount        int        `json:"assigned_count"`
	AssignedAmount       float64    `json:"assigned_amount"`
	RemainingCount       int        `json:"remaining_count"`
	AssignmentProgress   int        `json:"assignment_progress"`
	Status               string     `json:"status"`
	PublishTime          *time.Time `json:"publish_time,omitempty"`
	ExpectedRecoveryRate *float64   `json:"expected_recovery_rate,omitempty"`
	ExpectedPeriod       *int       `json:"expected_period,omitempty"`
	PreferredMethods     string     `json:"preferred_methods,omitempty"`
	ImportStatus         string     `json:"import_status"`
	ImportProgress       int        `json:"import_progress"`
	ImportErrorMsg       string     `json:"import_error_msg,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// RowError pins a validation or persistence failure to a sheet row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportTask is the in-memory progress record of one running import.
type ImportTask struct {
	TaskID       string     `json:"task_id"`
	PackageID    uint64     `json:"package_id"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	TotalRows    int        `json:"total_rows"`
	SuccessCount int        `json:"success_count"`
	FailCount    int        `json:"fail_count"`
	Errors       []RowError `json:"errors,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// ImportSummary aggregates a finished import for the caller.
type ImportSummary struct {
	TotalRows           int            `json:"total_rows"`
	SuccessCount        int            `json:"success_count"`
	FailCount           int            `json:"fail_count"`
	TotalAmount         float64        `json:"total_amount"`
	AverageAmount       float64        `json:"average_amount"`
	MaxOverdueDays      int            `json:"max_overdue_days"`
	MinOverdueDays      int            `json:"min_overdue_days"`
	AvgOverdueDays      float64        `json:"avg_overdue_days"`
	OverdueDistribution map[string]int `json:"overdue_distribution,omitempty"`
}
