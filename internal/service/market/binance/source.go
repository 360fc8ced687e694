package binance

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ market.Source = (*Source)(nil)

const symbolStatusTrading = "TRADING"

// Source 币安U本位永续合约公开行情
type Source struct {
	cli   *futures.Client
	quote string
}

type Option func(s *Source)

// WithQuote 只保留指定计价资产的合约, 为空则不过滤
func WithQuote(quote string) Option {
	return func(s *Source) {
		s.quote = quote
	}
}

func NewSource(cli *futures.Client, opts ...Option) *Source {
	s := &Source{
		cli:   cli,
		quote: "USDT",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Exchange() market.Exchange {
	return market.Binance
}

func (s *Source) ListInstruments(ctx context.Context) ([]string, error) {
	info, err := s.cli.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, err
	}

	perpetuals := lo.Filter(info.Symbols, func(item futures.Symbol, index int) bool {
		if item.ContractType != futures.ContractTypePerpetual || item.Status != symbolStatusTrading {
			return false
		}
		return s.quote == "" || item.QuoteAsset == s.quote
	})

	return lo.Map(perpetuals, func(item futures.Symbol, index int) string {
		return item.Symbol
	}), nil
}

func (s *Source) GetPrice(ctx context.Context, instrument string) (decimal.Decimal, error) {
	prices, err := s.cli.NewListPricesService().Symbol(instrument).Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("price of %s: %w", instrument, market.ErrNoData)
	}
	return decimal.NewFromString(prices[0].Price)
}

// GetFundingRate 返回最近一次结算的资金费率 (百分比)
func (s *Source) GetFundingRate(ctx context.Context, instrument string) (decimal.Decimal, error) {
	rates, err := s.cli.NewFundingRateService().Symbol(instrument).Limit(1).Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(rates) == 0 {
		return decimal.Zero, fmt.Errorf("funding rate of %s: %w", instrument, market.ErrNoData)
	}
	rate, err := decimal.NewFromString(rates[len(rates)-1].FundingRate)
	if err != nil {
		return decimal.Zero, err
	}
	return decimalx.Percent(rate), nil
}

func (s *Source) GetOpenInterest(ctx context.Context, instrument string) (decimal.Decimal, error) {
	oi, err := s.cli.NewGetOpenInterestService().Symbol(instrument).Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if oi == nil || oi.OpenInterest == "" {
		return decimal.Zero, fmt.Errorf("open interest of %s: %w", instrument, market.ErrNoData)
	}
	return decimal.NewFromString(oi.OpenInterest)
}
