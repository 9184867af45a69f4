package casepkg

import (
	"strings"
	"testing"

	"drmp-backend/pkg/excel"
)

func goodRow() excel.Row {
	return excel.Row{Number: 2, Cells: []string{
		"R-1001", "张三", "110101199003077858", "13812345678", "cash-loan",
		"20000", "15000", "75", "Acme Finance", "2025-01-01", "2025-12-31", "Acme Bank",
	}}
}

func TestParseRow_Valid(t *testing.T) {
	cr, err := parseRow(goodRow())
	if err != nil {
		t.Fatalf("parseRow: %v", err)
	}
	if cr.ReceiptNumber != "R-1001" || cr.LoanAmount != 20000 || cr.OverdueDays != 75 {
		t.Fatalf("unexpected row: %+v", cr)
	}
	if cr.ConsignStartDate.Year() != 2025 || cr.ConsignEndDate.Month() != 12 {
		t.Fatalf("dates not parsed: %+v", cr)
	}
}

func TestParseRow_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		col     int
		value   string
		message string
	}{
		{"blank receipt", colReceipt, "", "receipt number is blank"},
		{"blank name", colDebtorName, "", "debtor name is blank"},
		{"short id card", colIDCard, "12345", "invalid id card"},
		{"id card bad prefix", colIDCard, "010101199003077858", "invalid id card"},
		{"bad mobile", colPhone, "12345678901", "invalid mobile"},
		{"mobile too short", colPhone, "1381234567", "invalid mobile"},
		{"zero loan amount", colLoanAmount, "0", "loan amount"},
		{"non-numeric amount", colRemainingAmount, "abc", "remaining amount"},
		{"negative overdue", colOverdueDays, "-1", "overdue days"},
		{"bad start date", colConsignStart, "notadate", "consign start date"},
		{"blank fund provider", colFundProvider, "", "fund provider is blank"},
	}
	for _, tt := range tests {
		r := goodRow()
		r.Cells[tt.col] = tt.value
		_, err := parseRow(r)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.message) {
			t.Errorf("%s: err %q does not mention %q", tt.name, err, tt.message)
		}
	}
}

func TestParseRow_EndBeforeStart(t *testing.T) {
	r := goodRow()
	r.Cells[colConsignStart] = "2025-12-31"
	r.Cells[colConsignEnd] = "2025-01-01"
	_, err := parseRow(r)
	if err == nil || !strings.Contains(err.Error(), "end date before start date") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseRow_CollectsAllProblems(t *testing.T) {
	r := excel.Row{Number: 3, Cells: []string{"", "", "bad", "bad", "", "x", "x", "x", "", "x", "x", ""}}
	_, err := parseRow(r)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Count(err.Error(), ";") < 5 {
		t.Fatalf("expected every problem reported, got %q", err)
	}
}

func TestParseRow_IDCardXSuffix(t *testing.T) {
	r := goodRow()
	r.Cells[colIDCard] = "11010119900307785X"
	if _, err := parseRow(r); err != nil {
		t.Fatalf("X-suffixed id card must pass: %v", err)
	}
}

func TestParseDate_Layouts(t *testing.T) {
	for _, s := range []string{"2025-03-08", "2025/03/08", "20250308"} {
		d, err := parseDate(s)
		if err != nil {
			t.Fatalf("parseDate(%q): %v", s, err)
		}
		if d.Day() != 8 {
			t.Fatalf("parseDate(%q) = %v", s, d)
		}
	}
	if _, err := parseDate("08-03-2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}
