package alert

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/impovo/monitor/internal/service/market"
	"github.com/impovo/monitor/pkg/decimalx"
	"github.com/shopspring/decimal"
)

// Store keeps the last observation of every instrument and turns new samples
// into alert events. Observe is the only method that mutates state.
type Store struct {
	mu         sync.Mutex
	thresholds Thresholds
	policy     Policy
	records    map[market.InstrumentKey]*Record

	now   func() time.Time
	newID func() string
}

type Option func(s *Store)

func WithPolicy(policy Policy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(thresholds Thresholds, opts ...Option) (*Store, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		thresholds: thresholds,
		policy:     PolicyRearm,
		records:    make(map[market.InstrumentKey]*Record),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Thresholds() Thresholds {
	return s.thresholds
}

// Observe evaluates the funding, price and open interest rules for one
// instrument, in that order, and updates the stored state.
func (s *Store) Observe(key market.InstrumentKey, sample Sample) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		if sample.empty() {
			return nil
		}
		rec = &Record{}
		s.records[key] = rec
	}
	if s.policy == PolicyOnce && rec.Silenced {
		return nil
	}

	at := s.now()
	var events []Event

	if ev, fired := s.checkFunding(key, rec, sample.FundingRate); fired {
		events = append(events, s.stamp(ev, at))
	}

	if ev, fired := s.checkChange(key, KindPriceSpike, rec.LastPrice, sample.Price, s.thresholds.PriceSpike); fired {
		events = append(events, s.stamp(ev, at))
	}
	if sample.Price.Valid {
		rec.LastPrice = sample.Price
	}

	if ev, fired := s.checkChange(key, KindOpenInterestSurge, rec.LastOpenInterest, sample.OpenInterest, s.thresholds.OISurge); fired {
		events = append(events, s.stamp(ev, at))
	}
	if sample.OpenInterest.Valid {
		rec.LastOpenInterest = sample.OpenInterest
	}

	if s.policy == PolicyOnce && len(events) > 0 {
		rec.Silenced = true
	}
	return events
}

// checkFunding 边沿触发: 只在首次跌破下限时告警
func (s *Store) checkFunding(key market.InstrumentKey, rec *Record, rate decimal.NullDecimal) (Event, bool) {
	if !rate.Valid || !rate.Decimal.LessThan(s.thresholds.FundingFloor) {
		rec.FundingAlertActive = false
		return Event{}, false
	}
	if rec.FundingAlertActive {
		return Event{}, false
	}
	rec.FundingAlertActive = true
	return Event{
		Kind:      KindFundingRate,
		Key:       key,
		Current:   rate.Decimal,
		Threshold: s.thresholds.FundingFloor,
	}, true
}

// checkChange 与上一次成功获取的值比较, 前值不存在或不为正时跳过
func (s *Store) checkChange(key market.InstrumentKey, kind Kind, prev, cur decimal.NullDecimal, threshold decimal.Decimal) (Event, bool) {
	if !cur.Valid || !prev.Valid || !prev.Decimal.IsPositive() {
		return Event{}, false
	}
	change := decimalx.ChangePct(prev.Decimal, cur.Decimal)
	if !change.GreaterThan(threshold) {
		return Event{}, false
	}
	return Event{
		Kind:      kind,
		Key:       key,
		Previous:  prev,
		Current:   cur.Decimal,
		ChangePct: decimal.NewNullDecimal(change),
		Threshold: threshold,
	}, true
}

func (s *Store) stamp(ev Event, at time.Time) Event {
	ev.ID = s.newID()
	ev.At = at
	return ev
}

// Len returns the number of tracked instruments.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
