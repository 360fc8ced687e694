package bybit

import (
	"context"
	"encoding/json"
	"fmt"

	bybit "github.com/bybit-exchange/bybit.go.api"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ market.Source = (*Source)(nil)

const (
	categoryLinear       = "linear"
	statusTrading        = "Trading"
	instrumentsPageLimit = 1000
	// 防止游标异常时死循环
	maxInstrumentPages = 20
)

// APIError bybit 返回 retCode != 0
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bybit api error: retCode=%d, retMsg=%s", e.Code, e.Msg)
}

// Source bybit USDT 线性永续合约公开行情 (v5)
type Source struct {
	cli   *bybit.Client
	quote string
}

type Option func(s *Source)

// WithQuote 只保留指定计价币种的合约, 为空则不过滤
func WithQuote(quote string) Option {
	return func(s *Source) {
		s.quote = quote
	}
}

func NewSource(cli *bybit.Client, opts ...Option) *Source {
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
	return market.Bybit
}

func (s *Source) ListInstruments(ctx context.Context) ([]string, error) {
	type instrument struct {
		Symbol       string `json:"symbol"`
		ContractType string `json:"contractType"`
		Status       string `json:"status"`
		QuoteCoin    string `json:"quoteCoin"`
	}
	type result struct {
		List           []instrument `json:"list"`
		NextPageCursor string       `json:"nextPageCursor"`
	}

	var all []instrument
	cursor := ""
	for page := 0; page < maxInstrumentPages; page++ {
		params := map[string]interface{}{
			"category": categoryLinear,
			"limit":    instrumentsPageLimit,
		}
		if cursor != "" {
			params["cursor"] = cursor
		}
		resp, err := s.cli.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
		if err != nil {
			return nil, err
		}
		var res result
		if err = decodeResult(resp, &res); err != nil {
			return nil, err
		}
		all = append(all, res.List...)
		if res.NextPageCursor == "" || res.NextPageCursor == cursor {
			break
		}
		cursor = res.NextPageCursor
	}

	all = lo.Filter(all, func(item instrument, index int) bool {
		if item.Status != statusTrading || item.ContractType != "LinearPerpetual" {
			return false
		}
		return s.quote == "" || item.QuoteCoin == s.quote
	})
	return lo.Map(all, func(item instrument, index int) string {
		return item.Symbol
	}), nil
}

func (s *Source) GetPrice(ctx context.Context, instrument string) (decimal.Decimal, error) {
	type ticker struct {
		LastPrice string `json:"lastPrice"`
	}
	var res struct {
		List []ticker `json:"list"`
	}
	resp, err := s.cli.NewUtaBybitServiceWithParams(map[string]interface{}{
		"category": categoryLinear,
		"symbol":   instrument,
	}).GetMarketTickers(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err = decodeResult(resp, &res); err != nil {
		return decimal.Zero, err
	}
	if len(res.List) == 0 {
		return decimal.Zero, fmt.Errorf("price of %s: %w", instrument, market.ErrNoData)
	}
	return decimal.NewFromString(res.List[0].LastPrice)
}

// GetFundingRate 返回最近一次结算的资金费率 (百分比)
func (s *Source) GetFundingRate(ctx context.Context, instrument string) (decimal.Decimal, error) {
	type fundingRate struct {
		FundingRate string `json:"fundingRate"`
	}
	var res struct {
		List []fundingRate `json:"list"`
	}
	resp, err := s.cli.NewUtaBybitServiceWithParams(map[string]interface{}{
		"category": categoryLinear,
		"symbol":   instrument,
		"limit":    1,
	}).GetFundingRateHistory(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err = decodeResult(resp, &res); err != nil {
		return decimal.Zero, err
	}
	if len(res.List) == 0 {
		return decimal.Zero, fmt.Errorf("funding rate of %s: %w", instrument, market.ErrNoData)
	}
	rate, err := decimal.NewFromString(res.List[0].FundingRate)
	if err != nil {
		return decimal.Zero, err
	}
	return decimalx.Percent(rate), nil
}

func (s *Source) GetOpenInterest(ctx context.Context, instrument string) (decimal.Decimal, error) {
	type openInterest struct {
		OpenInterest string `json:"openInterest"`
	}
	var res struct {
		List []openInterest `json:"list"`
	}
	resp, err := s.cli.NewUtaBybitServiceWithParams(map[string]interface{}{
		"category":     categoryLinear,
		"symbol":       instrument,
		"intervalTime": "5min",
		"limit":        1,
	}).GetOpenInterests(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err = decodeResult(resp, &res); err != nil {
		return decimal.Zero, err
	}
	if len(res.List) == 0 {
		return decimal.Zero, fmt.Errorf("open interest of %s: %w", instrument, market.ErrNoData)
	}
	return decimal.NewFromString(res.List[0].OpenInterest)
}

// decodeResult sdk 的 Result 是 interface{}, 重新编解码到具体结构
func decodeResult(resp *bybit.ServerResponse, v any) error {
	if resp == nil {
		return market.ErrNoData
	}
	if resp.RetCode != 0 {
		return &APIError{Code: resp.RetCode, Msg: resp.RetMsg}
	}
	payload, err := json.Marshal(resp.Result)
	if err != nil {
		return fmt.Errorf("marshal bybit result: %w", err)
	}
	if err = json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode bybit result: %w", err)
	}
	return nil
}
