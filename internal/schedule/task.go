package schedule

import "context"

// Task 一次完整的周期性工作, 由 Runner 调度
type Task interface {
	Run(ctx context.Context) error
	// Name 用于日志
	Name() string
}
