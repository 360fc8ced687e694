package ioc

import (
	"context"
	"time"

	"github.com/impovo/monitor/internal/repo"
	"github.com/impovo/monitor/internal/schedule"
	"github.com/impovo/monitor/internal/service/alert"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/internal/service/monitor"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

func InitStore() *alert.Store {
	policy, err := alert.ParsePolicy(viper.GetString("alert.policy"))
	if err != nil {
		panic(err)
	}
	store, err := alert.NewStore(alert.Thresholds{
		FundingFloor: decimal.NewFromFloat(viper.GetFloat64("alert.funding_floor")),
		PriceSpike:   decimal.NewFromFloat(viper.GetFloat64("alert.price_spike")),
		OISurge:      decimal.NewFromFloat(viper.GetFloat64("alert.oi_surge")),
	}, alert.WithPolicy(policy))
	if err != nil {
		panic(err)
	}
	return store
}

func InitMonitor(store *alert.Store, sources []market.Source) *monitor.Monitor {
	opts := []monitor.Option{
		monitor.WithFormatter(InitFormatter()),
		monitor.WithConcurrency(viper.GetInt("monitor.concurrency")),
		monitor.WithExclude(viper.GetStringSlice("monitor.exclude")...),
	}
	if notifier := InitNotifier(); notifier != nil {
		opts = append(opts, monitor.WithNotifier(notifier))
	}
	if viper.GetBool("journal.enabled") {
		journal := monitor.NewJournal(repo.NewAlertRepo(InitDB()))
		journal.Summary(context.Background())
		opts = append(opts, monitor.WithRecorder(journal))
	}
	return monitor.NewMonitor(store, sources, opts...)
}

func InitRunner(m *monitor.Monitor) *schedule.Runner {
	interval := viper.GetDuration("monitor.interval")
	if interval <= 0 {
		interval = time.Minute
	}
	return schedule.NewRunner(interval, monitor.NewTasks(m)...)
}
