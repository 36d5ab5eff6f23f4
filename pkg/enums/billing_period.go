package enums

import "fmt"

// BillingPeriod maps to the billing_period enum in Postgres.
type BillingPeriod string

const (
	BillingPeriodMonthly   BillingPeriod = "monthly"
	BillingPeriodQuarterly BillingPeriod = "quarterly"
	BillingPeriodYearly    BillingPeriod = "yearly"
)

var validBillingPeriods = []BillingPeriod{
	BillingPeriodMonthly,
	BillingPeriodQuarterly,
	BillingPeriodYearly,
}

// Months returns the period length in calendar months.
func (b BillingPeriod) Months() int {
	switch b {
	case BillingPeriodMonthly:
		return 1
	case BillingPeriodQuarterly:
		return 3
	case BillingPeriodYearly:
		return 12
	}
	return 0
}

// IsValid reports whether the value is a known BillingPeriod.
func (b BillingPeriod) IsValid() bool {
	for _, candidate := range validBillingPeriods {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBillingPeriod converts raw input into a BillingPeriod.
func ParseBillingPeriod(value string) (BillingPeriod, error) {
	for _, candidate := range validBillingPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billing period %q", value)
}
