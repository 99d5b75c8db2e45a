package receivable

// Setting keys for the tunable annual rates, stored as percentages.
const (
	SettingCostOfCashAnnual = "cost_of_cash_annual"
	SettingLateFeeAnnual    = "late_fee_rate_annual"
)

// Default annual rates in percent.
const (
	DefaultCostOfCashAnnual = 45.0
	DefaultLateFeeAnnual    = 36.0
)

// Setting is a persisted numeric configuration value.
type Setting struct {
	Key   string
	Value float64
}

// Rates bundles the annual rates every metric computation depends on.
type Rates struct {
	CostOfCashAnnual float64
	LateFeeAnnual    float64
}

// DefaultRates returns the rates used before any settings update.
func DefaultRates() Rates {
	return Rates{
		CostOfCashAnnual: DefaultCostOfCashAnnual,
		LateFeeAnnual:    DefaultLateFeeAnnual,
	}
}

// CostOfCashDaily converts the annual percentage to a daily fraction.
func (r Rates) CostOfCashDaily() float64 {
	return r.CostOfCashAnnual / 100.0 / 365.0
}

// LateFeeDaily converts the annual percentage to a daily fraction.
func (r Rates) LateFeeDaily() float64 {
	return r.LateFeeAnnual / 100.0 / 365.0
}
