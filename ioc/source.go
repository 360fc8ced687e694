package ioc

import (
	"github.com/impovo/monitor/internal/service/market"
	binancesrc "github.com/impovo/monitor/internal/service/market/binance"
	bybitsrc "github.com/impovo/monitor/internal/service/market/bybit"
	"github.com/impovo/monitor/internal/service/market/okx"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// InitSources 按 monitor.exchanges 的顺序创建行情源, 重复项只保留一个
func InitSources() []market.Source {
	names := viper.GetStringSlice("monitor.exchanges")
	if len(names) == 0 {
		panic("no exchange configured in monitor.exchanges")
	}

	exchanges := make([]market.Exchange, 0, len(names))
	for _, name := range names {
		ex, err := market.ParseExchange(name)
		if err != nil {
			panic(err)
		}
		exchanges = append(exchanges, ex)
	}

	return lo.Map(lo.Uniq(exchanges), func(item market.Exchange, index int) market.Source {
		return initSource(item)
	})
}

func initSource(ex market.Exchange) market.Source {
	cfg := loadExchangeConfig(ex.ToString())
	switch ex {
	case market.Binance:
		return binancesrc.NewSource(InitBinanceCli(), binancesrc.WithQuote(cfg.Quote))
	case market.OKX:
		return okx.NewSource(
			okx.WithBaseURL(cfg.BaseURL),
			okx.WithTimeout(cfg.Timeout),
			okx.WithSettle(cfg.Quote),
		)
	case market.Bybit:
		return bybitsrc.NewSource(InitBybitCli(), bybitsrc.WithQuote(cfg.Quote))
	default:
		panic(market.ErrUnknownExchange)
	}
}
