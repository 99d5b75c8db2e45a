package receivable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskScore(t *testing.T) {
	t.Run("zero inputs give zero score", func(t *testing.T) {
		assert.Zero(t, RiskScore(0, 0, 0, 0))
	})

	t.Run("fully overdue aged book maxes out", func(t *testing.T) {
		assert.InDelta(t, 100, RiskScore(1, 1, 120, 0.1), 0.001)
	})

	t.Run("components are clamped so score stays bounded", func(t *testing.T) {
		cases := []struct {
			name                                          string
			overdueRatio, over90Ratio, weightedDays, loss float64
		}{
			{"extreme positives", 50, 50, 100000, 9999},
			{"negative inputs", -5, -1, -300, -2},
			{"mixed", 2, -1, 500, 0.0001},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				score := RiskScore(tc.overdueRatio, tc.over90Ratio, tc.weightedDays, tc.loss)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 100.0)
			})
		}
	})

	t.Run("weights the four components", func(t *testing.T) {
		// 50% overdue, 25% aged, 60 weighted days, loss ratio 0.05:
		// 0.35*50 + 0.30*25 + 0.20*50 + 0.15*50 = 42.5
		assert.InDelta(t, 42.5, RiskScore(0.5, 0.25, 60, 0.05), 0.001)
	})

	t.Run("loss component saturates at one tenth of open balance", func(t *testing.T) {
		assert.InDelta(t, 15, RiskScore(0, 0, 0, 0.1), 0.001)
		assert.InDelta(t, 15, RiskScore(0, 0, 0, 5), 0.001)
	})
}
