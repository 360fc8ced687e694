package decimalx

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func MustFromString(s string) decimal.Decimal {
	res, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return res
}

// NullFromString 解析失败或为空时返回无效值
func NullFromString(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	res, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(res)
}

// Percent converts a raw ratio (0.0001) to percent (0.01).
func Percent(ratio decimal.Decimal) decimal.Decimal {
	return ratio.Mul(hundred)
}

// ChangePct returns (cur - prev) / prev * 100. prev must be non-zero.
func ChangePct(prev, cur decimal.Decimal) decimal.Decimal {
	// 先乘后除, 避免除法截断影响阈值比较
	return cur.Sub(prev).Mul(hundred).Div(prev)
}
