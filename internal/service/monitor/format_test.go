package monitor

import (
	"testing"
	"time"

	"github.com/impovo/monitor/internal/service/alert"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/pkg/decimalx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fundingEvent() alert.Event {
	return alert.Event{
		ID:        "a1",
		Kind:      alert.KindFundingRate,
		Key:       market.InstrumentKey{Exchange: market.OKX, Instrument: "BTC-USDT-SWAP"},
		Current:   decimalx.MustFromString("-1.23456"),
		Threshold: decimal.NewFromInt(-1),
		At:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func spikeEvent(kind alert.Kind) alert.Event {
	return alert.Event{
		ID:        "a2",
		Kind:      kind,
		Key:       market.InstrumentKey{Exchange: market.Bybit, Instrument: "ETHUSDT"},
		Previous:  decimal.NewNullDecimal(decimalx.MustFromString("2000.5")),
		Current:   decimalx.MustFromString("2400.6"),
		ChangePct: decimal.NewNullDecimal(decimalx.MustFromString("20.0049987503")),
		Threshold: decimal.NewFromInt(10),
	}
}

func TestTextFormatter(t *testing.T) {
	f := TextFormatter{}
	tests := []struct {
		name string
		ev   alert.Event
		want string
	}{
		{
			name: "funding",
			ev:   fundingEvent(),
			want: "[OKX] BTC-USDT-SWAP funding rate alert: -1.23% (< -1.00%)",
		},
		{
			name: "price",
			ev:   spikeEvent(alert.KindPriceSpike),
			want: "[Bybit] ETHUSDT price up 20.00% (2000.5 -> 2400.6)",
		},
		{
			name: "open interest",
			ev:   spikeEvent(alert.KindOpenInterestSurge),
			want: "[Bybit] ETHUSDT open interest up 20.00% (2000.5 -> 2400.6)",
		},
		{
			name: "missing previous",
			ev: func() alert.Event {
				ev := spikeEvent(alert.KindPriceSpike)
				ev.Previous = decimal.NullDecimal{}
				ev.ChangePct = decimal.NullDecimal{}
				return ev
			}(),
			want: "[Bybit] ETHUSDT price up -% (- -> 2400.6)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.ev))
		})
	}
}

func TestMarkdownFormatter(t *testing.T) {
	f := MarkdownFormatter{}

	assert.Equal(t,
		"**Funding rate alert**\n>Exchange: OKX\n>Instrument: BTC-USDT-SWAP\n>Rate: -1.2346%\n**below -1.00%**",
		f.Format(fundingEvent()))
	assert.Equal(t,
		"**Price spike**\n>Exchange: Bybit\n>Instrument: ETHUSDT\n>Change: +20.00%\n>Price: 2000.5 -> 2400.6",
		f.Format(spikeEvent(alert.KindPriceSpike)))
	assert.Equal(t,
		"**Open interest surge**\n>Exchange: Bybit\n>Instrument: ETHUSDT\n>Change: +20.00%\n>Open interest: 2000.5 -> 2400.6",
		f.Format(spikeEvent(alert.KindOpenInterestSurge)))
}

func TestFormatter_UnknownKind(t *testing.T) {
	ev := fundingEvent()
	ev.Kind = "volume"

	want := "[OKX] BTC-USDT-SWAP volume: -1.23456"
	assert.Equal(t, want, TextFormatter{}.Format(ev))
	assert.Equal(t, want, MarkdownFormatter{}.Format(ev))
}
