package decimalx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestChangePct(t *testing.T) {
	testCases := []struct {
		name string
		prev string
		cur  string
		want string
	}{
		{name: "exact ten", prev: "100", cur: "110", want: "10"},
		{name: "just above ten", prev: "100", cur: "110.01", want: "10.01"},
		{name: "drop", prev: "200", cur: "150", want: "-25"},
		{name: "flat", prev: "3.3", cur: "3.3", want: "0"},
		{name: "small price", prev: "0.00012", cur: "0.000132", want: "10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChangePct(MustFromString(tc.prev), MustFromString(tc.cur))
			assert.True(t, got.Equal(MustFromString(tc.want)), "got %s", got)
		})
	}
}

func TestNullFromString(t *testing.T) {
	assert.False(t, NullFromString("").Valid)
	assert.False(t, NullFromString("abc").Valid)

	v := NullFromString("-0.0125")
	assert.True(t, v.Valid)
	assert.True(t, v.Decimal.Equal(decimal.RequireFromString("-0.0125")))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(MustFromString("-0.015")).Equal(MustFromString("-1.5")))
}
