package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/impovo/monitor/internal/service/alert"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Monitor runs one polling pass over an exchange: fetch metrics, feed the
// alert store, deliver whatever it emits.
type Monitor struct {
	store     *alert.Store
	sources   map[market.Exchange]market.Source
	exchanges []market.Exchange

	notifier  Notifier
	formatter Formatter
	recorder  Recorder

	concurrency int
	exclude     map[string]struct{}
}

type consoleNotifier struct {
}

func (c consoleNotifier) Send(ctx context.Context, text string) error {
	slog.Info("alert notification", "message", text)
	return nil
}

type Option func(m *Monitor)

func WithNotifier(notifier Notifier) Option {
	return func(m *Monitor) {
		m.notifier = notifier
	}
}

func WithFormatter(formatter Formatter) Option {
	return func(m *Monitor) {
		m.formatter = formatter
	}
}

// WithRecorder 记录每条告警及推送结果
func WithRecorder(recorder Recorder) Option {
	return func(m *Monitor) {
		m.recorder = recorder
	}
}

// WithConcurrency 单个交易所内并发拉取指标的合约数
func WithConcurrency(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithExclude 跳过指定合约
func WithExclude(instruments ...string) Option {
	return func(m *Monitor) {
		for _, inst := range instruments {
			m.exclude[inst] = struct{}{}
		}
	}
}

func NewMonitor(store *alert.Store, sources []market.Source, opts ...Option) *Monitor {
	m := &Monitor{
		store:       store,
		sources:     make(map[market.Exchange]market.Source, len(sources)),
		notifier:    consoleNotifier{},
		formatter:   TextFormatter{},
		concurrency: 1,
		exclude:     make(map[string]struct{}),
	}
	for _, src := range sources {
		if _, ok := m.sources[src.Exchange()]; !ok {
			m.exchanges = append(m.exchanges, src.Exchange())
		}
		m.sources[src.Exchange()] = src
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Exchanges returns the monitored exchanges in registration order.
func (m *Monitor) Exchanges() []market.Exchange {
	return append([]market.Exchange(nil), m.exchanges...)
}

// RunCycle 对一个交易所完整执行一轮监控
// 合约列表获取失败时返回错误, 本轮不评估任何合约
func (m *Monitor) RunCycle(ctx context.Context, exchange market.Exchange) error {
	src, ok := m.sources[exchange]
	if !ok {
		return fmt.Errorf("%w: %s", market.ErrUnknownExchange, exchange)
	}

	start := time.Now()
	instruments, err := src.ListInstruments(ctx)
	if err != nil {
		return fmt.Errorf("list %s instruments: %w", exchange, err)
	}
	instruments = lo.Reject(instruments, func(item string, index int) bool {
		_, excluded := m.exclude[item]
		return excluded
	})
	slog.Info("monitoring exchange", "exchange", exchange, "instruments", len(instruments))

	samples, err := m.fetchAll(ctx, src, instruments)
	if err != nil {
		return err
	}

	// 按合约列表顺序评估, 保证同一交易所内告警顺序确定
	alerts := 0
	for i, instrument := range instruments {
		events := m.store.Observe(market.InstrumentKey{Exchange: exchange, Instrument: instrument}, samples[i])
		for _, ev := range events {
			m.deliver(ctx, ev)
		}
		alerts += len(events)
	}

	slog.Info("monitor cycle finished",
		"exchange", exchange,
		"instruments", len(instruments),
		"alerts", alerts,
		"tracked", m.store.Len(),
		"elapsed", time.Since(start),
	)
	return nil
}

func (m *Monitor) fetchAll(ctx context.Context, src market.Source, instruments []string) ([]alert.Sample, error) {
	samples := make([]alert.Sample, len(instruments))
	sem := make(chan struct{}, m.concurrency)
	var wg sync.WaitGroup

	for i, instrument := range instruments {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, instrument string) {
			defer wg.Done()
			defer func() { <-sem }()
			samples[i] = m.fetch(ctx, src, instrument)
		}(i, instrument)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// fetch 三个指标互相独立, 单个失败只影响该指标
func (m *Monitor) fetch(ctx context.Context, src market.Source, instrument string) (sample alert.Sample) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("fetch metrics panicked", "exchange", src.Exchange(), "instrument", instrument, "panic", rec)
		}
	}()

	sample.Price = m.metric(ctx, src, instrument, "price", src.GetPrice)
	sample.FundingRate = m.metric(ctx, src, instrument, "funding_rate", src.GetFundingRate)
	sample.OpenInterest = m.metric(ctx, src, instrument, "open_interest", src.GetOpenInterest)
	return sample
}

func (m *Monitor) metric(ctx context.Context, src market.Source, instrument, name string,
	get func(ctx context.Context, instrument string) (decimal.Decimal, error)) decimal.NullDecimal {
	v, err := get(ctx, instrument)
	if err != nil {
		slog.Warn("failed to fetch metric", "exchange", src.Exchange(), "instrument", instrument, "metric", name, "error", err)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

func (m *Monitor) deliver(ctx context.Context, ev alert.Event) {
	message := m.formatter.Format(ev)
	slog.Info("alert triggered", "id", ev.ID, "exchange", ev.Key.Exchange, "instrument", ev.Key.Instrument, "kind", ev.Kind)

	sendErr := m.notifier.Send(ctx, message)
	if sendErr != nil {
		slog.Error("failed to send alert", "id", ev.ID, "exchange", ev.Key.Exchange, "instrument", ev.Key.Instrument, "error", sendErr)
	}

	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(ctx, ev, message, sendErr); err != nil {
		slog.Error("failed to record alert", "id", ev.ID, "error", err)
	}
}
