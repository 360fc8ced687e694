package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ market.Source = (*Source)(nil)

const (
	DefaultBaseURL = "https://www.okx.com"
	userAgent      = "funding-monitor/1.0"
	instStateLive  = "live"
)

// APIError OKX 返回 code != "0"
type APIError struct {
	Code string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okx api error: code=%s, msg=%s", e.Code, e.Msg)
}

type response[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

// Source OKX 永续合约 (SWAP) 公开行情
type Source struct {
	client  *http.Client
	baseURL string
	settle  string
}

type Option func(s *Source)

func WithBaseURL(baseURL string) Option {
	return func(s *Source) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
	}
}

// WithSettle 只保留指定结算币种的合约, 为空则不过滤
func WithSettle(settle string) Option {
	return func(s *Source) {
		s.settle = settle
	}
}

func NewSource(opts ...Option) *Source {
	s := &Source{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: userAgentTransport{agent: userAgent, base: http.DefaultTransport},
		},
		baseURL: DefaultBaseURL,
		settle:  "USDT",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Exchange() market.Exchange {
	return market.OKX
}

func (s *Source) ListInstruments(ctx context.Context) ([]string, error) {
	type instrument struct {
		InstId    string `json:"instId"`
		SettleCcy string `json:"settleCcy"`
		State     string `json:"state"`
	}
	data, err := get[instrument](ctx, s, "/api/v5/public/instruments", url.Values{"instType": {"SWAP"}})
	if err != nil {
		return nil, err
	}

	data = lo.Filter(data, func(item instrument, index int) bool {
		if item.State != "" && item.State != instStateLive {
			return false
		}
		return s.settle == "" || item.SettleCcy == s.settle
	})
	return lo.Map(data, func(item instrument, index int) string {
		return item.InstId
	}), nil
}

func (s *Source) GetPrice(ctx context.Context, instrument string) (decimal.Decimal, error) {
	type ticker struct {
		Last string `json:"last"`
	}
	data, err := get[ticker](ctx, s, "/api/v5/market/ticker", url.Values{"instId": {instrument}})
	if err != nil {
		return decimal.Zero, err
	}
	if len(data) == 0 {
		return decimal.Zero, fmt.Errorf("price of %s: %w", instrument, market.ErrNoData)
	}
	return decimal.NewFromString(data[0].Last)
}

// GetFundingRate 返回当前周期资金费率 (百分比)
func (s *Source) GetFundingRate(ctx context.Context, instrument string) (decimal.Decimal, error) {
	type fundingRate struct {
		FundingRate string `json:"fundingRate"`
	}
	data, err := get[fundingRate](ctx, s, "/api/v5/public/funding-rate", url.Values{"instId": {instrument}})
	if err != nil {
		return decimal.Zero, err
	}
	if len(data) == 0 {
		return decimal.Zero, fmt.Errorf("funding rate of %s: %w", instrument, market.ErrNoData)
	}
	rate, err := decimal.NewFromString(data[0].FundingRate)
	if err != nil {
		return decimal.Zero, err
	}
	return decimalx.Percent(rate), nil
}

// GetOpenInterest 返回合约张数口径的持仓量
func (s *Source) GetOpenInterest(ctx context.Context, instrument string) (decimal.Decimal, error) {
	type openInterest struct {
		Oi string `json:"oi"`
	}
	data, err := get[openInterest](ctx, s, "/api/v5/public/open-interest", url.Values{
		"instType": {"SWAP"},
		"instId":   {instrument},
	})
	if err != nil {
		return decimal.Zero, err
	}
	if len(data) == 0 {
		return decimal.Zero, fmt.Errorf("open interest of %s: %w", instrument, market.ErrNoData)
	}
	return decimal.NewFromString(data[0].Oi)
}

func get[T any](ctx context.Context, s *Source, path string, query url.Values) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	var res response[T]
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if res.Code != "0" {
		return nil, &APIError{Code: res.Code, Msg: res.Msg}
	}
	return res.Data, nil
}
