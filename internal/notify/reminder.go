package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingReminder = "booking:reminder"

// ReminderPayload is the body of a reminder task.
type ReminderPayload struct {
	BookingID string    `json:"booking_id"`
	StartTime time.Time `json:"start_time"`
}

// ReminderScheduler plans the reminder of a confirmed booking.
type ReminderScheduler interface {
	Schedule(ctx context.Context, bookingID string, startTime, fireAt time.Time) error
	Cancel(ctx context.Context, bookingID string) error
	Close() error
}

type nopScheduler struct{}

func NewNopScheduler() ReminderScheduler { return nopScheduler{} }

func (nopScheduler) Schedule(context.Context, string, time.Time, time.Time) error { return nil }
func (nopScheduler) Cancel(context.Context, string) error                         { return nil }
func (nopScheduler) Close() error                                                 { return nil }

// NewReminderTask builds the task for one booking. The task id is derived from
// the booking, so scheduling the same booking twice is a no-op.
func NewReminderTask(bookingID string, startTime, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ReminderPayload{BookingID: bookingID, StartTime: startTime})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(reminderTaskID(bookingID)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func reminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

type asynqScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	log       *zap.Logger
}

func NewAsynqScheduler(opt asynq.RedisConnOpt, log *zap.Logger) ReminderScheduler {
	return &asynqScheduler{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		log:       log,
	}
}

func (s *asynqScheduler) Schedule(ctx context.Context, bookingID string, startTime, fireAt time.Time) error {
	task, opts, err := NewReminderTask(bookingID, startTime, fireAt)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	switch {
	case errors.Is(err, asynq.ErrTaskIDConflict):
		return nil
	case err != nil:
		return fmt.Errorf("enqueue reminder failed: %w", err)
	}
	s.log.Debug("reminder scheduled",
		zap.String("booking_id", bookingID),
		zap.String("task_id", info.ID),
		zap.Time("fire_at", fireAt),
	)
	return nil
}

func (s *asynqScheduler) Cancel(ctx context.Context, bookingID string) error {
	err := s.inspector.DeleteTask("default", reminderTaskID(bookingID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("delete reminder failed: %w", err)
}

// Close releases the client and inspector connections.
func (s *asynqScheduler) Close() error {
	return errors.Join(s.client.Close(), s.inspector.Close())
}

// ReminderSender delivers the reminder of one booking.
type ReminderSender interface {
	SendReminder(ctx context.Context, bookingID string, now time.Time) error
}

// NewReminderMux routes reminder tasks to sender.
func NewReminderMux(sender ReminderSender, log *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingReminder, handleReminderTask(sender, log))
	return mux
}

func handleReminderTask(sender ReminderSender, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder payload: %w: %w", err, asynq.SkipRetry)
		}
		if err := sender.SendReminder(ctx, p.BookingID, time.Now()); err != nil {
			log.Warn("reminder not sent", zap.String("booking_id", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// NewReminderServer creates the worker that processes reminder tasks.
func NewReminderServer(opt asynq.RedisConnOpt, log *zap.Logger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: log.Sugar(),
	})
}
