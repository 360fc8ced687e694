package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/impovo/monitor/internal/entity"
	"github.com/impovo/monitor/internal/service/alert"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) Create(ctx context.Context, alert entity.Alert) (int64, error) {
	args := m.Called(ctx, alert)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepo) FindRecent(ctx context.Context, limit int) ([]entity.Alert, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]entity.Alert), args.Error(1)
}

func (m *MockAlertRepo) CountByKind(ctx context.Context, kind string) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

func TestJournal_RecordDelivered(t *testing.T) {
	ev := spikeEvent(alert.KindPriceSpike)
	repo := new(MockAlertRepo)
	repo.On("Create", mock.Anything, entity.Alert{
		EventId:    "a2",
		Exchange:   "bybit",
		Instrument: "ETHUSDT",
		Kind:       "price_spike",
		Previous:   "2000.5",
		Current:    "2400.6",
		ChangePct:  "20.0049987503",
		Threshold:  "10",
		Message:    "msg",
		Status:     entity.AlertStatusDelivered,
		CreatedAt:  ev.At,
	}).Return(int64(1), nil)

	require.NoError(t, NewJournal(repo).Record(context.Background(), ev, "msg", nil))
	repo.AssertExpectations(t)
}

func TestJournal_RecordFailed(t *testing.T) {
	ev := fundingEvent()
	repo := new(MockAlertRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(row entity.Alert) bool {
		return row.Status == entity.AlertStatusFailed &&
			row.Error == "webhook down" &&
			row.Kind == "funding_rate" &&
			row.Previous == "" &&
			row.ChangePct == "" &&
			row.Current == "-1.23456" &&
			row.Threshold == "-1"
	})).Return(int64(7), nil)

	require.NoError(t, NewJournal(repo).Record(context.Background(), ev, "msg", errors.New("webhook down")))
	repo.AssertExpectations(t)
}

func TestJournal_RepoError(t *testing.T) {
	repo := new(MockAlertRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	err := NewJournal(repo).Record(context.Background(), fundingEvent(), "msg", nil)
	assert.EqualError(t, err, "disk full")
}

func TestMonitor_WithJournal(t *testing.T) {
	src := newFakeSource(market.Binance, "AUSDT")
	src.set("AUSDT", "1", "-2", "1")
	repo := new(MockAlertRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(row entity.Alert) bool {
		return row.Instrument == "AUSDT" && row.Status == entity.AlertStatusDelivered && row.EventId != ""
	})).Return(int64(1), nil).Once()

	m := NewMonitor(newTestStore(t), []market.Source{src},
		WithNotifier(&recordingNotifier{}), WithRecorder(NewJournal(repo)))
	require.NoError(t, m.RunCycle(context.Background(), market.Binance))
	repo.AssertExpectations(t)
}

func TestJournal_Summary(t *testing.T) {
	repo := new(MockAlertRepo)
	repo.On("CountByKind", mock.Anything, "funding_rate").Return(int64(3), nil).Once()
	repo.On("CountByKind", mock.Anything, "price_spike").Return(int64(1), nil).Once()
	repo.On("CountByKind", mock.Anything, "open_interest_surge").Return(int64(0), nil).Once()
	repo.On("FindRecent", mock.Anything, 1).Return([]entity.Alert{{Exchange: "okx", Instrument: "BTC-USDT-SWAP", Kind: "funding_rate"}}, nil).Once()

	NewJournal(repo).Summary(context.Background())
	repo.AssertExpectations(t)
}

func TestJournal_SummaryStopsOnError(t *testing.T) {
	repo := new(MockAlertRepo)
	repo.On("CountByKind", mock.Anything, "funding_rate").Return(int64(0), errors.New("no such table")).Once()

	NewJournal(repo).Summary(context.Background())
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything)
}
