package monitor

import (
	"context"
	"log/slog"

	"github.com/impovo/monitor/internal/entity"
	"github.com/impovo/monitor/internal/repo"
	"github.com/impovo/monitor/internal/service/alert"
)

var _ Recorder = (*Journal)(nil)

// Journal records alerts into the alert repo.
type Journal struct {
	alerts repo.AlertRepo
}

func NewJournal(alerts repo.AlertRepo) *Journal {
	return &Journal{
		alerts: alerts,
	}
}

func (j *Journal) Record(ctx context.Context, ev alert.Event, message string, sendErr error) error {
	row := entity.Alert{
		EventId:    ev.ID,
		Exchange:   ev.Key.Exchange.ToString(),
		Instrument: ev.Key.Instrument,
		Kind:       string(ev.Kind),
		Current:    ev.Current.String(),
		Threshold:  ev.Threshold.String(),
		Message:    message,
		Status:     entity.AlertStatusDelivered,
		CreatedAt:  ev.At,
	}
	if ev.Previous.Valid {
		row.Previous = ev.Previous.Decimal.String()
	}
	if ev.ChangePct.Valid {
		row.ChangePct = ev.ChangePct.Decimal.String()
	}
	if sendErr != nil {
		row.Status = entity.AlertStatusFailed
		row.Error = sendErr.Error()
	}

	_, err := j.alerts.Create(ctx, row)
	return err
}

// Summary 启动时输出历史告警数量和最近一条告警, 查询失败只记录日志
func (j *Journal) Summary(ctx context.Context) {
	for _, kind := range alert.AllKinds() {
		count, err := j.alerts.CountByKind(ctx, string(kind))
		if err != nil {
			slog.Warn("failed to count journal alerts", "kind", kind, "error", err)
			return
		}
		slog.Info("journal alerts", "kind", kind, "count", count)
	}

	recent, err := j.alerts.FindRecent(ctx, 1)
	if err != nil {
		slog.Warn("failed to load latest journal alert", "error", err)
		return
	}
	if len(recent) > 0 {
		last := recent[0]
		slog.Info("latest journal alert",
			"exchange", last.Exchange,
			"instrument", last.Instrument,
			"kind", last.Kind,
			"at", last.CreatedAt,
		)
	}
}
