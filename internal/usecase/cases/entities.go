package cases

import (
	"strings"
	"time"
)

type CreateCaseInput struct {
	CasePackageID    uint64    `json:"case_package_id" validate:"required"`
	ReceiptNumber    string    `json:"receipt_number" validate:"required,max=100"`
	DebtorName       string    `json:"debtor_name" validate:"required"`
	DebtorIDCard     string    `json:"debtor_id_card" validate:"required"`
	DebtorPhone      string    `json:"debtor_phone" validate:"required"`
	LoanProduct      string    `json:"loan_product" validate:"required"`
	LoanAmount       float64   `json:"loan_amount" validate:"required,gt=0"`
	RemainingAmount  float64   `json:"remaining_amount" validate:"required,gt=0"`
	OverdueDays      int       `json:"overdue_days" validate:"gte=0"`
	Consigner        string    `json:"consigner" validate:"required"`
	ConsignStartDate time.Time `json:"consign_start_date" validate:"required"`
	ConsignEndDate   time.Time `json:"consign_end_date" validate:"required"`
	FundProvider     string    `json:"fund_provider" validate:"required"`
	DebtInfo         string    `json:"debt_info,omitempty"`
	DebtorInfo       string    `json:"debtor_info,omitempty"`
	ContactInfo      string    `json:"contact_info,omitempty"`
	CustomFields     string    `json:"custom_fields,omitempty"`
}

// UpdateCaseInput carries partial updates; zero values leave fields untouched.
type UpdateCaseInput struct {
	ReceiptNumber   string   `json:"receipt_number,omitempty" validate:"omitempty,max=100"`
	DebtorName      string   `json:"debtor_name,omitempty"`
	DebtorIDCard    string   `json:"debtor_id_card,omitempty"`
	DebtorPhone     string   `json:"debtor_phone,omitempty"`
	LoanProduct     string   `json:"loan_product,omitempty"`
	RemainingAmount *float64 `json:"remaining_amount,omitempty"`
	OverdueDays     *int     `json:"overdue_days,omitempty"`
	DebtInfo        string   `json:"debt_info,omitempty"`
	ContactInfo     string   `json:"contact_info,omitempty"`
	CustomFields    string   `json:"custom_fields,omitempty"`
}

type AssignInput struct {
	CaseIDs []uint64 `json:"case_ids" validate:"required,min=1"`
	OrgID   uint64   `json:"org_id" validate:"required"`
}

type CaseDTO struct {
	ID               uint64     `json:"id"`
	CasePackageID    uint64     `json:"case_package_id"`
	ReceiptNumber    string     `json:"receipt_number"`
	DebtorName       string     `json:"debtor_name"`
	DebtorIDCard     string     `json:"debtor_id_card"`
	DebtorPhone      string     `json:"debtor_phone"`
	LoanProduct      string     `json:"loan_product"`
	LoanAmount       float64    `json:"loan_amount"`
	RemainingAmount  float64    `json:"remaining_amount"`
	OverdueDays      int        `json:"overdue_days"`
	OverdueLevel     string     `json:"overdue_level"`
	RiskLevel        string     `json:"risk_level"`
	Consigner        string     `json:"consigner"`
	ConsignStartDate time.Time  `json:"consign_start_date"`
	ConsignEndDate   time.Time  `json:"consign_end_date"`
	FundProvider     string     `json:"fund_provider"`
	DebtInfo         string     `json:"debt_info,omitempty"`
	DebtorInfo       string     `json:"debtor_info,omitempty"`
	ContactInfo      string     `json:"contact_info,omitempty"`
	CustomFields     string     `json:"custom_fields,omitempty"`
	CurrentStatus    string     `json:"current_status"`
	AssignedOrgID    *uint64    `json:"assigned_org_id,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	LatestProgress   string     `json:"latest_progress,omitempty"`
	TotalRecovered   float64    `json:"total_recovered"`
	RecoveryRate     float64    `json:"recovery_rate"`
	CreatedAt        time.Time  `json:"created_at"`
}

type OrgStatisticsDTO struct {
	ByStatus            map[string]int64 `json:"by_status"`
	CaseCount           int64            `json:"case_count"`
	TotalRemaining      float64          `json:"total_remaining"`
	TotalRecovered      float64          `json:"total_recovered"`
	OverallRecoveryRate float64          `json:"overall_recovery_rate"`
}

// maskName keeps the surname: "张三丰" → "张**".
func maskName(s string) string {
	r := []rune(s)
	if len(r) < 2 {
		return s
	}
	return string(r[0]) + strings.Repeat("*", len(r)-1)
}

// maskIDCard keeps the first 6 and last 4 digits.
func maskIDCard(s string) string {
	if len(s) < 11 {
		return s
	}
	return s[:6] + strings.Repeat("*", len(s)-10) + s[len(s)-4:]
}

// maskPhone keeps the first 3 and last 4 digits.
func maskPhone(s string) string {
	if len(s) < 8 {
		return s
	}
	return s[:3] + strings.Repeat("*", len(s)-7) + s[len(s)-4:]
}
