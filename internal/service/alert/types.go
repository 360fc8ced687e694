package alert

import (
	"fmt"
	"time"

	"github.com/impovo/monitor/internal/service/market"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindFundingRate       Kind = "funding_rate"
	KindPriceSpike        Kind = "price_spike"
	KindOpenInterestSurge Kind = "open_interest_surge"
)

func AllKinds() []Kind {
	return []Kind{KindFundingRate, KindPriceSpike, KindOpenInterestSurge}
}

// Policy 告警去重策略
type Policy string

const (
	// PolicyRearm 资金费率告警边沿触发, 费率回到阈值之上后重新布防
	PolicyRearm Policy = "rearm"
	// PolicyOnce 某合约任一告警触发后, 进程生命周期内不再评估该合约
	PolicyOnce Policy = "once"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyRearm:
		return PolicyRearm, nil
	case PolicyOnce:
		return PolicyOnce, nil
	default:
		return "", fmt.Errorf("unknown alert policy %q", s)
	}
}

// Thresholds are percentages; FundingFloor -1 means -1%.
type Thresholds struct {
	FundingFloor decimal.Decimal
	PriceSpike   decimal.Decimal
	OISurge      decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		FundingFloor: decimal.NewFromInt(-1),
		PriceSpike:   decimal.NewFromInt(10),
		OISurge:      decimal.NewFromInt(15),
	}
}

func (t Thresholds) Validate() error {
	if t.PriceSpike.IsNegative() {
		return fmt.Errorf("price spike threshold must not be negative, got %s", t.PriceSpike)
	}
	if t.OISurge.IsNegative() {
		return fmt.Errorf("open interest surge threshold must not be negative, got %s", t.OISurge)
	}
	return nil
}

// Sample 一个周期内某合约的指标, 获取失败的指标 Valid=false
type Sample struct {
	Price        decimal.NullDecimal
	FundingRate  decimal.NullDecimal // 百分比
	OpenInterest decimal.NullDecimal
}

func (s Sample) empty() bool {
	return !s.Price.Valid && !s.FundingRate.Valid && !s.OpenInterest.Valid
}

// Event 一次告警
type Event struct {
	ID        string
	Kind      Kind
	Key       market.InstrumentKey
	Previous  decimal.NullDecimal // 资金费率告警无前值
	Current   decimal.Decimal
	ChangePct decimal.NullDecimal // 资金费率告警无变化率
	Threshold decimal.Decimal
	At        time.Time
}

// Record is a copy of the per-instrument state kept by the Store.
type Record struct {
	LastPrice          decimal.NullDecimal
	LastOpenInterest   decimal.NullDecimal
	FundingAlertActive bool
	Silenced           bool
}
