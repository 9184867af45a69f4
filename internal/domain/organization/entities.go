package organization

import (
	"time"

	"drmp-backend/internal/domain/base"
)

type Type string

const (
	TypeSource   Type = "SOURCE"
	TypeDisposal Type = "DISPOSAL"
)

// Status is the operational state, distinct from the audit workflow state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusRejected  Status = "REJECTED"
)

type AuditStatus string

const (
	AuditPending  AuditStatus = "PENDING"
	AuditApproved AuditStatus = "APPROVED"
	AuditRejected AuditStatus = "REJECTED"
)

type Organization struct {
	base.Model
	Name                string      `gorm:"column:name;size:255;not null;index" json:"name"`
	Type                Type        `gorm:"column:type;size:16;not null" json:"type"`
	SubType             string      `gorm:"column:sub_type;size:50" json:"sub_type,omitempty"`
	Status              Status      `gorm:"column:status;size:16;not null;default:'PENDING'" json:"status"`
	ContactPerson       string      `gorm:"column:contact_person;size:100" json:"contact_person,omitempty"`
	ContactPhone        string      `gorm:"column:contact_phone;size:255" json:"contact_phone,omitempty"`
	ContactEmail        string      `gorm:"column:contact_email;size:100" json:"contact_email,omitempty"`
	Address             string      `gorm:"column:address;type:text" json:"address,omitempty"`
	BusinessLicense     string      `gorm:"column:business_license;size:500" json:"business_license,omitempty"`
	LegalPerson         string      `gorm:"column:legal_person;size:100" json:"legal_person,omitempty"`
	UnifiedCreditCode   string      `gorm:"column:unified_credit_code;size:50" json:"unified_credit_code,omitempty"`
	RegistrationCapital *float64    `gorm:"column:registration_capital;type:decimal(15,2)" json:"registration_capital,omitempty"`
	EstablishDate       *time.Time  `gorm:"column:establish_date;type:date" json:"establish_date,omitempty"`
	TeamSize            *int        `gorm:"column:team_size" json:"team_size,omitempty"`
	MonthlyCapacity     *int        `gorm:"column:monthly_capacity" json:"monthly_capacity,omitempty"`
	CurrentLoad         string      `gorm:"column:current_load;size:50" json:"current_load,omitempty"`
	ServiceRegions      string      `gorm:"column:service_regions;type:json" json:"service_regions,omitempty"`
	BusinessScope       string      `gorm:"column:business_scope;type:json" json:"business_scope,omitempty"`
	DisposalTypes       string      `gorm:"column:disposal_types;type:json" json:"disposal_types,omitempty"`
	SettlementMethods   string      `gorm:"column:settlement_methods;type:json" json:"settlement_methods,omitempty"`
	CooperationCases    string      `gorm:"column:cooperation_cases;type:text" json:"cooperation_cases,omitempty"`
	Description         string      `gorm:"column:description;type:text" json:"description,omitempty"`
	AuditStatus         AuditStatus `gorm:"column:audit_status;size:16;default:'PENDING'" json:"audit_status"`
	AuditComment        string      `gorm:"column:audit_comment;type:text" json:"audit_comment,omitempty"`
	AuditTime           *time.Time  `gorm:"column:audit_time" json:"audit_time,omitempty"`
	AuditBy             *uint64     `gorm:"column:audit_by" json:"audit_by,omitempty"`
	ContractStartDate   *time.Time  `gorm:"column:contract_start_date;type:date" json:"contract_start_date,omitempty"`
	ContractEndDate     *time.Time  `gorm:"column:contract_end_date;type:date" json:"contract_end_date,omitempty"`
	ContractFile        string      `gorm:"column:contract_file;size:500" json:"contract_file,omitempty"`
}

func (Organization) TableName() string { return "organizations" }

func (o *Organization) IsActive() bool { return o.Status == StatusActive }
