package ioc

import (
	"net/http"

	bybit "github.com/bybit-exchange/bybit.go.api"
)

func InitBybitCli() *bybit.Client {
	cfg := loadExchangeConfig("bybit")

	cli := bybit.NewBybitHttpClient("", "", bybit.WithBaseURL(cfg.BaseURL))
	cli.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return cli
}
