package cases

// Overdue level buckets by days past due.
const (
	OverdueM1      = "M1"
	OverdueM2      = "M2"
	OverdueM3      = "M3"
	OverdueM4ToM6  = "M4-M6"
	OverdueM6Plus  = "M6+"
	OverdueUnknown = "unknown"
)

// Risk level buckets combining overdue age and outstanding amount.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// CalculateOverdueLevel maps days past due to a collection bucket.
// nil means the age is not known.
func CalculateOverdueLevel(overdueDays *int) string {
	if overdueDays == nil {
		return OverdueUnknown
	}
	d := *overdueDays
	switch {
	case d <= 30:
		return OverdueM1
	case d <= 60:
		return OverdueM2
	case d <= 90:
		return OverdueM3
	case d <= 180:
		return OverdueM4ToM6
	default:
		return OverdueM6Plus
	}
}

// CalculateRiskLevel scores overdue age (1-4) and remaining amount (1-4)
// and buckets the sum.
func CalculateRiskLevel(overdueDays int, remainingAmount float64) string {
	var daysScore int
	switch {
	case overdueDays <= 30:
		daysScore = 1
	case overdueDays <= 90:
		daysScore = 2
	case overdueDays <= 180:
		daysScore = 3
	default:
		daysScore = 4
	}

	var amountScore int
	switch {
	case remainingAmount <= 10000:
		amountScore = 1
	case remainingAmount <= 50000:
		amountScore = 2
	case remainingAmount <= 100000:
		amountScore = 3
	default:
		amountScore = 4
	}

	switch total := daysScore + amountScore; {
	case total <= 2:
		return RiskLow
	case total <= 4:
		return RiskMedium
	case total <= 6:
		return RiskHigh
	default:
		return RiskCritical
	}
}
