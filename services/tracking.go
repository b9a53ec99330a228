package services

import (
	"context"
	"fmt"
	"time"
)

// TrackingNumbers formats human-facing order identifiers: PREFIX-YYYYMMDD-NNNN
type TrackingNumbers struct {
	prefix string
	seq    Sequence
	now    func() time.Time
}

func NewTrackingNumbers(prefix string, seq Sequence) *TrackingNumbers {
	return &TrackingNumbers{prefix: prefix, seq: seq, now: time.Now}
}

func (t *TrackingNumbers) Next(ctx context.Context) (string, error) {
	day := t.now()
	n, err := t.seq.Next(ctx, day)
	if err != nil {
		return "", fmt.Errorf("next tracking sequence: %w", err)
	}
	return FormatTrackingNumber(t.prefix, day, n), nil
}

func FormatTrackingNumber(prefix string, day time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), n)
}

// OrderCountSequence derives the day sequence from the number of orders created
// since local midnight. Two checkouts reading the count at the same time get the
// same number; the unique index on trackingNumber then rejects the second insert.
// Use a RedisSequence where concurrent checkouts are expected.
type OrderCountSequence struct {
	orders OrderRepository
}

func NewOrderCountSequence(orders OrderRepository) *OrderCountSequence {
	return &OrderCountSequence{orders: orders}
}

func (s *OrderCountSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	n, err := s.orders.CountCreatedSince(ctx, startOfDay(day))
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
