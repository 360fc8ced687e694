package ioc

import (
	"strings"
	"time"

	"github.com/impovo/monitor/internal/service/market/okx"
	"github.com/spf13/viper"
)

const defaultExchangeTimeout = 10 * time.Second

var defaultBaseURLs = map[string]string{
	"binance": "https://fapi.binance.com",
	"okx":     okx.DefaultBaseURL,
	"bybit":   "https://api.bybit.com",
}

// SetDefaults 未配置时的默认值, 配置文件与环境变量均可覆盖
func SetDefaults() {
	viper.SetDefault("monitor.interval", time.Minute)
	viper.SetDefault("monitor.concurrency", 4)
	viper.SetDefault("monitor.exchanges", []string{"binance", "okx", "bybit"})
	viper.SetDefault("monitor.exclude", []string{})

	viper.SetDefault("alert.funding_floor", -1.0)
	viper.SetDefault("alert.price_spike", 10.0)
	viper.SetDefault("alert.oi_surge", 15.0)
	viper.SetDefault("alert.policy", "rearm")

	viper.SetDefault("notifier.webhook", "")
	viper.SetDefault("notifier.format", "text")
	viper.SetDefault("notifier.timeout", 5*time.Second)

	for name, baseURL := range defaultBaseURLs {
		viper.SetDefault("exchange."+name+".base_url", baseURL)
		viper.SetDefault("exchange."+name+".timeout", defaultExchangeTimeout)
		viper.SetDefault("exchange."+name+".quote", "USDT")
	}

	viper.SetDefault("journal.enabled", false)
	viper.SetDefault("journal.dsn", "monitor.db")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "monitor.log")
}

// InitEnv MONITOR_ALERT_FUNDING_FLOOR 覆盖 alert.funding_floor, webhook 兼容 WECHAT_WEBHOOK
func InitEnv() {
	viper.SetEnvPrefix("MONITOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("notifier.webhook", "MONITOR_NOTIFIER_WEBHOOK", "WECHAT_WEBHOOK"); err != nil {
		panic(err)
	}
}

type exchangeConfig struct {
	BaseURL string
	Timeout time.Duration
	Quote   string
}

// loadExchangeConfig 逐个 key 读取, 文件/环境变量/默认值可以分别覆盖不同字段
func loadExchangeConfig(name string) exchangeConfig {
	prefix := "exchange." + name + "."
	cfg := exchangeConfig{
		BaseURL: viper.GetString(prefix + "base_url"),
		Timeout: viper.GetDuration(prefix + "timeout"),
		Quote:   viper.GetString(prefix + "quote"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURLs[name]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultExchangeTimeout
	}
	return cfg
}
