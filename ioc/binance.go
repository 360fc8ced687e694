package ioc

import (
	"net/http"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
)

// InitBinanceCli 只访问公开行情, 不需要 api key
func InitBinanceCli() *futures.Client {
	cfg := loadExchangeConfig("binance")

	cli := binance.NewFuturesClient("", "")
	cli.BaseURL = cfg.BaseURL
	cli.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return cli
}
