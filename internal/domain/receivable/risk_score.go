package receivable

// Risk score component weights. The four components measure how much of the
// book is overdue, how much has aged past 90 days, how long overdue balances
// have been outstanding, and how much financing loss realized payments
// caused.
const (
	weightOverdue      = 0.35
	weightOver90       = 0.30
	weightWeightedDays = 0.20
	weightLoss         = 0.15

	// weightedDaysCeiling is the delay, in days, that maxes out the
	// weighted-days component.
	weightedDaysCeiling = 120.0
)

// RiskScore combines the four risk components into a 0..100 score.
// Ratios are fractions of the open balance; weightedDays is in days.
// Each component is clamped to 0..100 before weighting, so the score is
// bounded regardless of inputs. The result is rounded to two decimals.
func RiskScore(overdueRatio, over90Ratio, weightedDays, lossRatio float64) float64 {
	overdueScore := clamp100(overdueRatio * 100)
	over90Score := clamp100(over90Ratio * 100)
	daysScore := clamp100(weightedDays / weightedDaysCeiling * 100)
	lossScore := clamp100(lossRatio * 1000)

	score := weightOverdue*overdueScore +
		weightOver90*over90Score +
		weightWeightedDays*daysScore +
		weightLoss*lossScore
	return Round2(score)
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
