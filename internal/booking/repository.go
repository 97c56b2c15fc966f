package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ilya24037/www.spa.com-sub004/internal/db"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

type Repository interface {
	// Create inserts b together with its service block in one transaction.
	// It fails with ErrSlotConflict when the block overlaps any other block of the provider.
	Create(ctx context.Context, b *Booking, block *timeblock.Block) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// SaveStatus persists the status related columns of b, provided the stored
	// status is still from. Otherwise it returns ErrInvalidState.
	SaveStatus(ctx context.Context, b *Booking, from Status) error
	// Cancel is SaveStatus that also deletes the service block.
	Cancel(ctx context.Context, b *Booking, from Status) error
	// Reschedule moves the booking and its service block to b's new interval.
	Reschedule(ctx context.Context, b *Booking, from Status) error
	// ListDue returns confirmed bookings that ended at or before t.
	ListDue(ctx context.Context, t time.Time, limit int) ([]*Booking, error)
	// MarkReminderSent stamps the reminder once. It returns ErrInvalidState if it
	// was already sent or the booking is no longer confirmed.
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"id", "booking_number", "client_id", "provider_id", "service_id", "booking_date", "start_time", "end_time",
	"duration_minutes", "is_home_service", "client_name", "client_phone", "client_email", "client_comment",
	"service_price", "travel_fee", "total_price", "status", "payment_status", "cancel_reason", "cancelled_by",
	"cancellation_fee_pct", "confirmed_at", "cancelled_at", "completed_at", "reminder_sent_at",
	"created_at", "updated_at",
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.BookingNumber, &b.ClientID, &b.ProviderID, &b.ServiceID, &b.BookingDate, &b.StartTime, &b.EndTime,
		&b.DurationMinutes, &b.IsHomeService, &b.ClientName, &b.ClientPhone, &b.ClientEmail, &b.ClientComment,
		&b.ServicePrice, &b.TravelFee, &b.TotalPrice, &b.Status, &b.PaymentStatus, &b.CancelReason, &b.CancelledBy,
		&b.CancellationFeePercent, &b.ConfirmedAt, &b.CancelledAt, &b.CompletedAt, &b.ReminderSentAt,
		&b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking, block *timeblock.Block) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockProvider(ctx, tx, b.ProviderID); err != nil {
			return err
		}

		// Manual blocked intervals also make the time unbookable.
		taken, err := timeblock.HasOverlapTx(ctx, tx, b.ProviderID, b.StartTime, b.EndTime, "", true)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}

		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Insert("public.bookings").
			Columns(
				"booking_number", "client_id", "provider_id", "service_id", "booking_date", "start_time", "end_time",
				"duration_minutes", "is_home_service", "client_name", "client_phone", "client_email", "client_comment",
				"service_price", "travel_fee", "total_price", "status", "payment_status",
			).
			Values(
				b.BookingNumber, b.ClientID, b.ProviderID, b.ServiceID, b.BookingDate, b.StartTime, b.EndTime,
				b.DurationMinutes, b.IsHomeService, b.ClientName, b.ClientPhone, b.ClientEmail, b.ClientComment,
				b.ServicePrice, b.TravelFee, b.TotalPrice, b.Status, b.PaymentStatus,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return fmt.Errorf("create booking failed: %w", err)
		}

		block.BookingID = &b.ID
		return timeblock.InsertTx(ctx, tx, block)
	})
	if timeblock.IsConflict(err) {
		return ErrSlotConflict
	}
	return err
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(bookingColumns, "count(*) OVER() as total_count")...).
		From("public.bookings")

	if filter.ClientID != "" {
		query = query.Where(squirrel.Eq{"client_id": filter.ClientID})
	}
	if filter.ProviderID != "" {
		query = query.Where(squirrel.Eq{"provider_id": filter.ProviderID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"end_time": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"start_time": *filter.To})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("start_time " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) SaveStatus(ctx context.Context, b *Booking, from Status) error {
	return saveStatus(ctx, r.pool, b, from)
}

func (r *pgxRepository) Cancel(ctx context.Context, b *Booking, from Status) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := saveStatus(ctx, tx, b, from); err != nil {
			return err
		}
		return timeblock.DeleteByBookingTx(ctx, tx, b.ID)
	})
}

func (r *pgxRepository) Reschedule(ctx context.Context, b *Booking, from Status) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockProvider(ctx, tx, b.ProviderID); err != nil {
			return err
		}

		block, err := timeblock.GetByBookingTx(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		block.StartTime, block.EndTime = b.StartTime, b.EndTime
		if err := block.Normalize(); err != nil {
			return err
		}

		taken, err := timeblock.HasOverlapTx(ctx, tx, b.ProviderID, block.StartTime, block.EndTime, block.ID, true)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}
		if err := timeblock.UpdateTx(ctx, tx, block); err != nil {
			return err
		}

		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Update("public.bookings").
			Set("booking_date", b.BookingDate).
			Set("start_time", b.StartTime).
			Set("end_time", b.EndTime).
			Set("duration_minutes", b.DurationMinutes).
			Set("reminder_sent_at", b.ReminderSentAt).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": b.ID, "status": from}).
			Suffix("RETURNING updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build reschedule booking query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidState
			}
			return fmt.Errorf("reschedule booking failed: %w", err)
		}
		return nil
	})
	if timeblock.IsConflict(err) {
		return ErrSlotConflict
	}
	return err
}

func (r *pgxRepository) ListDue(ctx context.Context, t time.Time, limit int) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"status": StatusConfirmed}).
		Where(squirrel.LtOrEq{"end_time": t}).
		OrderBy("end_time ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list due bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list due bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("reminder_sent_at", at).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": StatusConfirmed, "reminder_sent_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark reminder query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark reminder failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

func saveStatus(ctx context.Context, q db.DBTX, b *Booking, from Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("payment_status", b.PaymentStatus).
		Set("cancel_reason", b.CancelReason).
		Set("cancelled_by", b.CancelledBy).
		Set("cancellation_fee_pct", b.CancellationFeePercent).
		Set("confirmed_at", b.ConfirmedAt).
		Set("cancelled_at", b.CancelledAt).
		Set("completed_at", b.CompletedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidState
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}
