package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownExchange = errors.New("unknown exchange")
	// ErrNoData 接口返回成功但没有数据
	ErrNoData = errors.New("no data")
)

// Exchange 交易所标识, 固定集合
type Exchange string

const (
	Binance Exchange = "binance"
	OKX     Exchange = "okx"
	Bybit   Exchange = "bybit"
)

var exchanges = []Exchange{Binance, OKX, Bybit}

var displayNames = map[Exchange]string{
	Binance: "Binance",
	OKX:     "OKX",
	Bybit:   "Bybit",
}

func (e Exchange) ToString() string {
	return string(e)
}

// DisplayName is the name used in notifications.
func (e Exchange) DisplayName() string {
	if name, ok := displayNames[e]; ok {
		return name
	}
	return string(e)
}

func AllExchanges() []Exchange {
	return append([]Exchange(nil), exchanges...)
}

func ParseExchange(s string) (Exchange, error) {
	e := Exchange(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(exchanges, e) {
		return "", fmt.Errorf("%w: %q", ErrUnknownExchange, s)
	}
	return e, nil
}

// InstrumentKey identifies one tracked contract.
type InstrumentKey struct {
	Exchange   Exchange
	Instrument string // 交易所原生合约名, 如 BTCUSDT / BTC-USDT-SWAP
}

func (k InstrumentKey) ToString() string {
	return fmt.Sprintf("%s:%s", k.Exchange, k.Instrument)
}

// Source 单个交易所的公开行情接口
// 资金费率统一以百分比返回 (-0.01 => -1%)
type Source interface {
	Exchange() Exchange
	ListInstruments(ctx context.Context) ([]string, error)
	GetPrice(ctx context.Context, instrument string) (decimal.Decimal, error)
	GetFundingRate(ctx context.Context, instrument string) (decimal.Decimal, error)
	GetOpenInterest(ctx context.Context, instrument string) (decimal.Decimal, error)
}
