package monitor

import (
	"fmt"

	"github.com/impovo/monitor/internal/service/alert"
	"github.com/shopspring/decimal"
)

// TextFormatter 纯文本, 一行一条
type TextFormatter struct{}

func (TextFormatter) Format(ev alert.Event) string {
	name := ev.Key.Exchange.DisplayName()
	switch ev.Kind {
	case alert.KindFundingRate:
		return fmt.Sprintf("[%s] %s funding rate alert: %s%% (< %s%%)",
			name, ev.Key.Instrument, ev.Current.StringFixed(2), ev.Threshold.StringFixed(2))
	case alert.KindPriceSpike:
		return fmt.Sprintf("[%s] %s price up %s%% (%s -> %s)",
			name, ev.Key.Instrument, changePct(ev), previous(ev), ev.Current.String())
	case alert.KindOpenInterestSurge:
		return fmt.Sprintf("[%s] %s open interest up %s%% (%s -> %s)",
			name, ev.Key.Instrument, changePct(ev), previous(ev), ev.Current.String())
	default:
		return fmt.Sprintf("[%s] %s %s: %s", name, ev.Key.Instrument, ev.Kind, ev.Current.String())
	}
}

// MarkdownFormatter 企业微信 markdown 消息
type MarkdownFormatter struct{}

func (MarkdownFormatter) Format(ev alert.Event) string {
	name := ev.Key.Exchange.DisplayName()
	switch ev.Kind {
	case alert.KindFundingRate:
		return fmt.Sprintf("**Funding rate alert**\n>Exchange: %s\n>Instrument: %s\n>Rate: %s%%\n**below %s%%**",
			name, ev.Key.Instrument, ev.Current.StringFixed(4), ev.Threshold.StringFixed(2))
	case alert.KindPriceSpike:
		return fmt.Sprintf("**Price spike**\n>Exchange: %s\n>Instrument: %s\n>Change: +%s%%\n>Price: %s -> %s",
			name, ev.Key.Instrument, changePct(ev), previous(ev), ev.Current.String())
	case alert.KindOpenInterestSurge:
		return fmt.Sprintf("**Open interest surge**\n>Exchange: %s\n>Instrument: %s\n>Change: +%s%%\n>Open interest: %s -> %s",
			name, ev.Key.Instrument, changePct(ev), previous(ev), ev.Current.String())
	default:
		return TextFormatter{}.Format(ev)
	}
}

func changePct(ev alert.Event) string {
	return nullString(ev.ChangePct, 2)
}

func previous(ev alert.Event) string {
	return nullString(ev.Previous, -1)
}

// nullString places < 0 keeps the original precision.
func nullString(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return "-"
	}
	if places < 0 {
		return d.Decimal.String()
	}
	return d.Decimal.StringFixed(places)
}
