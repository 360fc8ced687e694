package monitor

import (
	"context"

	"github.com/impovo/monitor/internal/service/alert"
)

// Notifier 告警推送, 尽力而为, 失败只记录日志
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Formatter interface {
	Format(ev alert.Event) string
}

// Recorder persists an emitted alert together with its delivery result.
type Recorder interface {
	Record(ctx context.Context, ev alert.Event, message string, sendErr error) error
}
