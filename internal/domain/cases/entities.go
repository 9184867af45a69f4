package cases

import (
	"time"

	"drmp-backend/internal/domain/base"
)

type Status string

const (
	StatusPendingAssignment Status = "PENDING_ASSIGNMENT"
	StatusAssigned          Status = "ASSIGNED"
	StatusProcessing        Status = "PROCESSING"
	StatusMediating         Status = "MEDIATING"
	StatusLitigating        Status = "LITIGATING"
	StatusSettled           Status = "SETTLED"
	StatusLitigation        Status = "LITIGATION"
	StatusClosed            Status = "CLOSED"
	StatusWithdrawn         Status = "WITHDRAWN"
	StatusSuspended         Status = "SUSPENDED"
)

// Case is a single debt record. Debtor PII columns hold ciphertext; the
// usecase layer encrypts on the way in and decrypts on the way out.
type Case struct {
	base.Model
	CasePackageID    uint64     `gorm:"column:case_package_id;not null;index" json:"case_package_id"`
	ReceiptNumber    string     `gorm:"column:receipt_number;size:100;not null;uniqueIndex:ux_cases_receipt_number" json:"receipt_number"`
	DebtorIDCard     string     `gorm:"column:debtor_id_card;size:255;not null" json:"-"`
	DebtorName       string     `gorm:"column:debtor_name;size:255;not null" json:"-"`
	DebtorPhone      string     `gorm:"column:debtor_phone;size:255;not null" json:"-"`
	LoanProduct      string     `gorm:"column:loan_product;size:100;not null" json:"loan_product"`
	LoanAmount       float64    `gorm:"column:loan_amount;type:decimal(15,2);not null" json:"loan_amount"`
	RemainingAmount  float64    `gorm:"column:remaining_amount;type:decimal(15,2);not null" json:"remaining_amount"`
	OverdueDays      int        `gorm:"column:overdue_days;not null" json:"overdue_days"`
	Consigner        string     `gorm:"column:consigner;size:100;not null" json:"consigner"`
	ConsignStartDate time.Time  `gorm:"column:consign_start_date;type:date;not null" json:"consign_start_date"`
	ConsignEndDate   time.Time  `gorm:"column:consign_end_date;type:date;not null" json:"consign_end_date"`
	FundProvider     string     `gorm:"column:fund_provider;size:100;not null" json:"fund_provider"`
	DebtInfo         string     `gorm:"column:debt_info;type:json" json:"debt_info,omitempty"`
	DebtorInfo       string     `gorm:"column:debtor_info;type:json" json:"debtor_info,omitempty"`
	ContactInfo      string     `gorm:"column:contact_info;type:json" json:"contact_info,omitempty"`
	CustomFields     string     `gorm:"column:custom_fields;type:json" json:"custom_fields,omitempty"`
	Attachments      string     `gorm:"column:attachments;type:json" json:"attachments,omitempty"`
	CurrentStatus    Status     `gorm:"column:current_status;size:32;not null;default:'PENDING_ASSIGNMENT'" json:"current_status"`
	AssignedOrgID    *uint64    `gorm:"column:assigned_org_id;index" json:"assigned_org_id,omitempty"`
	AssignedAt       *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`
	LatestProgress   string     `gorm:"column:latest_progress;type:text" json:"latest_progress,omitempty"`
	TotalRecovered   float64    `gorm:"column:total_recovered;type:decimal(15,2);default:0" json:"total_recovered"`
	RecoveryRate     float64    `gorm:"column:recovery_rate;type:decimal(5,2);default:0" json:"recovery_rate"`
}

func (Case) TableName() string { return "cases" }

func (c *Case) IsAssigned() bool {
	return c.AssignedOrgID != nil && c.CurrentStatus != StatusPendingAssignment
}

func (c *Case) IsClosed() bool {
	return c.CurrentStatus == StatusSettled || c.CurrentStatus == StatusClosed ||
		c.CurrentStatus == StatusWithdrawn
}
