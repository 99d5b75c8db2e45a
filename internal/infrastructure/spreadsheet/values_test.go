package spreadsheet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string // ISO date, empty means nil expected
	}{
		{"iso", "2025-06-20", "2025-06-20"},
		{"iso datetime", "2025-06-20 00:00:00", "2025-06-20"},
		{"dotted day first", "20.06.2025", "2025-06-20"},
		{"dotted unpadded", "5.6.2025", "2025-06-05"},
		{"slashed month first", "6/20/2025", "2025-06-20"},
		{"empty", "", ""},
		{"placeholder nan", "NaN", ""},
		{"placeholder nat", "NaT", ""},
		{"garbage", "not-a-date", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDate(tc.input)
			if tc.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			want, err := time.Parse("2006-01-02", tc.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain integer", "1000", "1000", true},
		{"dot decimal", "1234.56", "1234.56", true},
		{"decimal comma", "1234,56", "1234.56", true},
		{"thousands dot with decimal comma", "1.234.567,89", "1234567.89", true},
		{"negative", "-42,5", "-42.5", true},
		{"whitespace", "  100 ", "100", true},
		{"empty", "", "0", false},
		{"placeholder", "nan", "0", false},
		{"garbage", "abc", "0", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseAmount(tc.input)
			assert.Equal(t, tc.ok, ok)
			want := decimal.RequireFromString(tc.want)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}
