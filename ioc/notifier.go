package ioc

import (
	"github.com/impovo/monitor/internal/service/monitor"
	"github.com/impovo/monitor/internal/service/notification"
	"github.com/spf13/viper"
)

func loadFormat() notification.Format {
	format, err := notification.ParseFormat(viper.GetString("notifier.format"))
	if err != nil {
		panic(err)
	}
	return format
}

// InitNotifier 未配置 webhook 时返回 nil, 告警只输出到日志
func InitNotifier() monitor.Notifier {
	webhook := viper.GetString("notifier.webhook")
	if webhook == "" {
		return nil
	}

	return notification.NewWechatNotifier(webhook,
		notification.WithFormat(loadFormat()),
		notification.WithTimeout(viper.GetDuration("notifier.timeout")),
	)
}

func InitFormatter() monitor.Formatter {
	if loadFormat() == notification.FormatMarkdown {
		return monitor.MarkdownFormatter{}
	}
	return monitor.TextFormatter{}
}
