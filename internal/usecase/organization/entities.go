package organization

import (
	"time"

	"drmp-backend/internal/domain/organization"
)

type RegisterInput struct {
	Name                string            `json:"name" validate:"required,max=255"`
	Type                organization.Type `json:"type" validate:"required,oneof=SOURCE DISPOSAL"`
	SubType             string            `json:"sub_type,omitempty"`
	ContactPerson       string            `json:"contact_person" validate:"required"`
	ContactPhone        string            `json:"contact_phone" validate:"required"`
	ContactEmail        string            `json:"contact_email,omitempty" validate:"omitempty,email"`
	Address             string            `json:"address,omitempty"`
	LegalPerson         string            `json:"legal_person,omitempty"`
	UnifiedCreditCode   string            `json:"unified_credit_code,omitempty" validate:"omitempty,len=18"`
	RegistrationCapital *float64          `json:"registration_capital,omitempty" validate:"omitempty,gt=0"`
	TeamSize            *int              `json:"team_size,omitempty" validate:"omitempty,gt=0"`
	MonthlyCapacity     *int              `json:"monthly_capacity,omitempty" validate:"omitempty,gt=0"`
	ServiceRegions      string            `json:"service_regions,omitempty"`
	BusinessScope       string            `json:"business_scope,omitempty"`
	DisposalTypes       string            `json:"disposal_types,omitempty"`
	SettlementMethods   string            `json:"settlement_methods,omitempty"`
	Description         string            `json:"description,omitempty"`
}

type UpdateInput struct {
	Name              string `json:"name,omitempty" validate:"omitempty,max=255"`
	ContactPerson     string `json:"contact_person,omitempty"`
	ContactPhone      string `json:"contact_phone,omitempty"`
	ContactEmail      string `json:"contact_email,omitempty" validate:"omitempty,email"`
	Address           string `json:"address,omitempty"`
	TeamSize          *int   `json:"team_size,omitempty" validate:"omitempty,gt=0"`
	MonthlyCapacity   *int   `json:"monthly_capacity,omitempty" validate:"omitempty,gt=0"`
	ServiceRegions    string `json:"service_regions,omitempty"`
	BusinessScope     string `json:"business_scope,omitempty"`
	DisposalTypes     string `json:"disposal_types,omitempty"`
	SettlementMethods string `json:"settlement_methods,omitempty"`
	Description       string `json:"description,omitempty"`
}

type AuditInput struct {
	Approved  bool   `json:"approved"`
	Comment   string `json:"comment,omitempty"`
	AuditorID uint64 `json:"-"`
}

type OrgDTO struct {
	ID                  uint64     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	SubType             string     `json:"sub_type,omitempty"`
	Status              string     `json:"status"`
	ContactPerson       string     `json:"contact_person,omitempty"`
	ContactPhone        string     `json:"contact_phone,omitempty"`
	ContactEmail        string     `json:"contact_email,omitempty"`
	Address             string     `json:"address,omitempty"`
	BusinessLicense     string     `json:"business_license,omitempty"`
	LegalPerson         string     `json:"legal_person,omitempty"`
	UnifiedCreditCode   string     `json:"unified_credit_code,omitempty"`
	RegistrationCapital *float64   `json:"registration_capital,omitempty"`
	TeamSize            *int       `json:"team_size,omitempty"`
	MonthlyCapacity     *int       `json:"monthly_capacity,omitempty"`
	ServiceRegions      string     `json:"service_regions,omitempty"`
	BusinessScope       string     `json:"business_scope,omitempty"`
	DisposalTypes       string     `json:"disposal_types,omitempty"`
	SettlementMethods   string     `json:"settlement_methods,omitempty"`
	Description         string     `json:"description,omitempty"`
	AuditStatus         string     `json:"audit_status"`
	AuditComment        string     `json:"audit_comment,omitempty"`
	AuditTime           *time.Time `json:"audit_time,omitempty"`
	ContractFile        string     `json:"contract_file,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toDTO(o *organization.Organization) *OrgDTO {
	return &OrgDTO{
		ID:                  o.ID,
		Name:                o.Name,
		Type:                string(o.Type),
		SubType:             o.SubType,
		Status:              string(o.Status),
		ContactPerson:       o.ContactPerson,
		ContactPhone:        o.ContactPhone,
		ContactEmail:        o.ContactEmail,
		Address:             o.Address,
		BusinessLicense:     o.BusinessLicense,
		LegalPerson:         o.LegalPerson,
		UnifiedCreditCode:   o.UnifiedCreditCode,
		RegistrationCapital: o.RegistrationCapital,
		TeamSize:            o.TeamSize,
		MonthlyCapacity:     o.MonthlyCapacity,
		ServiceRegions:      o.ServiceRegions,
		BusinessScope:       o.BusinessScope,
		DisposalTypes:       o.DisposalTypes,
		SettlementMethods:   o.SettlementMethods,
		Description:         o.Description,
		AuditStatus:         string(o.AuditStatus),
		AuditComment:        o.AuditComment,
		AuditTime:           o.AuditTime,
		ContractFile:        o.ContractFile,
		CreatedAt:           o.CreatedAt,
	}
}
