package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	ids []string
	err error
}

func (s *recordingSender) SendReminder(_ context.Context, bookingID string, _ time.Time) error {
	s.ids = append(s.ids, bookingID)
	return s.err
}

func TestNewReminderTask(t *testing.T) {
	start := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	task, opts, err := NewReminderTask("b1", start, start.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, TypeBookingReminder, task.Type())
	assert.JSONEq(t, `{"booking_id":"b1","start_time":"2026-10-20T10:00:00Z"}`, string(task.Payload()))
	assert.Len(t, opts, 3)
}

func TestHandleReminderTask(t *testing.T) {
	sender := &recordingSender{}
	h := handleReminderTask(sender, zap.NewNop())

	task, _, err := NewReminderTask("b1", time.Now(), time.Now())
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), task))
	assert.Equal(t, []string{"b1"}, sender.ids)

	sender.err = errors.New("smtp down")
	assert.Error(t, h(context.Background(), task))

	err = h(context.Background(), asynq.NewTask(TypeBookingReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestAsynqSchedulerClose(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewAsynqScheduler(asynq.RedisClientOpt{Addr: mr.Addr()}, zap.NewNop())

	require.NoError(t, s.Close())

	start := time.Now().Add(24 * time.Hour)
	assert.Error(t, s.Schedule(context.Background(), "b1", start, start.Add(-2*time.Hour)), "a closed scheduler must not enqueue")
}

func TestNopSchedulerClose(t *testing.T) {
	assert.NoError(t, NewNopScheduler().Close())
}

func TestHeaderCarrier(t *testing.T) {
	c := &headerCarrier{headers: []kafka.Header{{Key: "event_type", Value: []byte("booking.created")}}}
	c.Set("traceparent", "00-abc-def-01")
	c.Set("event_type", "booking.confirmed")

	assert.Equal(t, "booking.confirmed", c.Get("event_type"))
	assert.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	assert.Equal(t, []string{"event_type", "traceparent"}, c.Keys())
	assert.Empty(t, c.Get("missing"))
}
