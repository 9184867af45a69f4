package casepkg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"drmp-backend/pkg/excel"
)

// Sheet layout, one case per row after the header:
// receipt, debtor name, id card, phone, loan product, loan amount,
// remaining amount, overdue days, consigner, consign start, consign end,
// fund provider.
const (
	colReceipt = iota
	colDebtorName
	colIDCard
	colPhone
	colLoanProduct
	colLoanAmount
	colRemainingAmount
	colOverdueDays
	colConsigner
	colConsignStart
	colConsignEnd
	colFundProvider
)

var (
	idCardPattern = regexp.MustCompile(`^[1-9]\d{5}(18|19|20)\d{2}((0[1-9])|(1[0-2]))(([0-2][1-9])|10|20|30|31)\d{3}[0-9Xx]$`)
	mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// caseRow is one validated sheet row ready for persistence.
type caseRow struct {
	RowNumber        int
	ReceiptNumber    string
	DebtorName       string
	DebtorIDCard     string
	DebtorPhone      string
	LoanProduct      string
	LoanAmount       float64
	RemainingAmount  float64
	OverdueDays      int
	Consigner        string
	ConsignStartDate time.Time
	ConsignEndDate   time.Time
	FundProvider     string
}

// parseRow validates one raw row. All checks run so the error message names
// every problem at once.
func parseRow(r excel.Row) (*caseRow, error) {
	var problems []string

	out := &caseRow{
		RowNumber:     r.Number,
		ReceiptNumber: r.Cell(colReceipt),
		DebtorName:    r.Cell(colDebtorName),
		DebtorIDCard:  r.Cell(colIDCard),
		DebtorPhone:   r.Cell(colPhone),
		LoanProduct:   r.Cell(colLoanProduct),
		Consigner:     r.Cell(colConsigner),
		FundProvider:  r.Cell(colFundProvider),
	}

	if out.ReceiptNumber == "" {
		problems = append(problems, "receipt number is blank")
	}
	if out.DebtorName == "" {
		problems = append(problems, "debtor name is blank")
	}
	if !idCardPattern.MatchString(out.DebtorIDCard) {
		problems = append(problems, "invalid id card number")
	}
	if !mobilePattern.MatchString(out.DebtorPhone) {
		problems = append(problems, "invalid mobile number")
	}
	if out.LoanProduct == "" {
		problems = append(problems, "loan product is blank")
	}
	if out.Consigner == "" {
		problems = append(problems, "consigner is blank")
	}
	if out.FundProvider == "" {
		problems = append(problems, "fund provider is blank")
	}

	var err error
	if out.LoanAmount, err = strconv.ParseFloat(r.Cell(colLoanAmount), 64); err != nil || out.LoanAmount <= 0 {
		problems = append(problems, "loan amount must be a positive number")
	}
	if out.RemainingAmount, err = strconv.ParseFloat(r.Cell(colRemainingAmount), 64); err != nil || out.RemainingAmount <= 0 {
		problems = append(problems, "remaining amount must be a positive number")
	}
	if out.OverdueDays, err = strconv.Atoi(r.Cell(colOverdueDays)); err != nil || out.OverdueDays < 0 {
		problems = append(problems, "overdue days must be a non-negative integer")
	}

	startErr, endErr := false, false
	if out.ConsignStartDate, err = parseDate(r.Cell(colConsignStart)); err != nil {
		problems = append(problems, "invalid consign start date")
		startErr = true
	}
	if out.ConsignEndDate, err = parseDate(r.Cell(colConsignEnd)); err != nil {
		problems = append(problems, "invalid consign end date")
		endErr = true
	}
	if !startErr && !endErr && out.ConsignEndDate.Before(out.ConsignStartDate) {
		problems = append(problems, "consign end date before start date")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return out, nil
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
