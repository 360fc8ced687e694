package monitor

import (
	"context"

	"github.com/impovo/monitor/internal/schedule"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/samber/lo"
)

// CycleTask 单个交易所的一轮监控
type CycleTask struct {
	monitor  *Monitor
	exchange market.Exchange
}

func NewTask(m *Monitor, exchange market.Exchange) schedule.Task {
	return &CycleTask{
		monitor:  m,
		exchange: exchange,
	}
}

// NewTasks returns one task per monitored exchange, in registration order.
func NewTasks(m *Monitor) []schedule.Task {
	return lo.Map(m.Exchanges(), func(item market.Exchange, index int) schedule.Task {
		return NewTask(m, item)
	})
}

func (t *CycleTask) Run(ctx context.Context) error {
	return t.monitor.RunCycle(ctx, t.exchange)
}

func (t *CycleTask) Name() string {
	return "monitor " + t.exchange.ToString()
}
