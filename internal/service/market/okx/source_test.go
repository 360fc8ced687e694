package okx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/pkg/decimalx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc, opts ...Option) *Source {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSource(append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func routes(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		q := r.URL.Query()
		switch r.URL.Path {
		case "/api/v5/public/instruments":
			assert.Equal(t, "SWAP", q.Get("instType"))
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[
				{"instId":"BTC-USDT-SWAP","settleCcy":"USDT","state":"live"},
				{"instId":"BTC-USD-SWAP","settleCcy":"BTC","state":"live"},
				{"instId":"OLD-USDT-SWAP","settleCcy":"USDT","state":"suspend"}
			]}`))
		case "/api/v5/market/ticker":
			assert.Equal(t, "BTC-USDT-SWAP", q.Get("instId"))
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USDT-SWAP","last":"64210.5"}]}`))
		case "/api/v5/public/funding-rate":
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USDT-SWAP","fundingRate":"0.0001"}]}`))
		case "/api/v5/public/open-interest":
			assert.Equal(t, "SWAP", q.Get("instType"))
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USDT-SWAP","oi":"2212345","oiCcy":"22123.45"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestSource_ListInstruments(t *testing.T) {
	src := newTestSource(t, routes(t))

	instruments, err := src.ListInstruments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC-USDT-SWAP"}, instruments)
	assert.Equal(t, market.OKX, src.Exchange())
}

func TestSource_ListInstruments_AnySettle(t *testing.T) {
	src := newTestSource(t, routes(t), WithSettle(""))

	instruments, err := src.ListInstruments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC-USDT-SWAP", "BTC-USD-SWAP"}, instruments)
}

func TestSource_Metrics(t *testing.T) {
	src := newTestSource(t, routes(t))
	ctx := context.Background()

	price, err := src.GetPrice(ctx, "BTC-USDT-SWAP")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimalx.MustFromString("64210.5")))

	rate, err := src.GetFundingRate(ctx, "BTC-USDT-SWAP")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimalx.MustFromString("0.01")), "rate %s", rate)

	oi, err := src.GetOpenInterest(ctx, "BTC-USDT-SWAP")
	require.NoError(t, err)
	assert.True(t, oi.Equal(decimalx.MustFromString("2212345")))
}

func TestSource_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "api error code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":"51001","msg":"Instrument ID does not exist","data":[]}`))
			},
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "51001", apiErr.Code)
			},
		},
		{
			name: "empty data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, market.ErrNoData)
			},
		},
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "status 429")
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "decode")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := newTestSource(t, tc.handler)
			_, err := src.GetPrice(context.Background(), "X-USDT-SWAP")
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}
