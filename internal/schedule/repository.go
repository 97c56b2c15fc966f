package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ilya24037/www.spa.com-sub004/internal/db"
)

type Repository interface {
	ListDays(ctx context.Context, providerID string) (Week, error)
	GetDay(ctx context.Context, providerID string, day Weekday) (*Definition, error)
	// UpsertDays inserts or replaces the given definitions atomically.
	UpsertDays(ctx context.Context, defs []*Definition) error
	DeleteDay(ctx context.Context, providerID string, day Weekday) error

	GetOverride(ctx context.Context, providerID string, date time.Time) (*Override, error)
	ListOverrides(ctx context.Context, providerID string, from, to time.Time) ([]*Override, error)
	UpsertOverride(ctx context.Context, o *Override) error
	DeleteOverride(ctx context.Context, providerID string, date time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var definitionColumns = []string{
	"id", "provider_id", "day_of_week", "start_time::text", "end_time::text", "is_working_day",
	"break_start::text", "break_end::text", "slot_duration", "buffer_time", "is_flexible",
	"created_at", "updated_at",
}

func scanDefinition(row pgx.Row) (*Definition, error) {
	var (
		d                    Definition
		day                  int
		start, end           string
		breakStart, breakEnd *string
	)
	if err := row.Scan(
		&d.ID, &d.ProviderID, &day, &start, &end, &d.IsWorkingDay,
		&breakStart, &breakEnd, &d.SlotDurationMinutes, &d.BufferMinutes, &d.IsFlexible,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.DayOfWeek = Weekday(day)
	var err error
	if d.StartTime, err = ParseClock(start); err != nil {
		return nil, err
	}
	if d.EndTime, err = ParseClock(end); err != nil {
		return nil, err
	}
	if d.BreakStart, err = parseOptionalClock(breakStart); err != nil {
		return nil, err
	}
	if d.BreakEnd, err = parseOptionalClock(breakEnd); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *pgxRepository) ListDays(ctx context.Context, providerID string) (Week, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(definitionColumns...).
		From("public.schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("day_of_week").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list schedule query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedule failed: %w", err)
	}
	defer rows.Close()

	var week Week
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule failed: %w", err)
		}
		week = append(week, d)
	}
	return week, rows.Err()
}

func (r *pgxRepository) GetDay(ctx context.Context, providerID string, day Weekday) (*Definition, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(definitionColumns...).
		From("public.schedules").
		Where(squirrel.Eq{"provider_id": providerID, "day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get schedule query failed: %w", err)
	}

	d, err := scanDefinition(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get schedule failed: %w", err)
	}
	return d, nil
}

func (r *pgxRepository) UpsertDays(ctx context.Context, defs []*Definition) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, d := range defs {
			if err := upsertDay(ctx, tx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertDay(ctx context.Context, q db.DBTX, d *Definition) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.schedules").
		Columns(
			"provider_id", "day_of_week", "start_time", "end_time", "is_working_day",
			"break_start", "break_end", "slot_duration", "buffer_time", "is_flexible",
		).
		Values(
			d.ProviderID, int(d.DayOfWeek),
			squirrel.Expr("?::time", d.StartTime.sqlTime()), squirrel.Expr("?::time", d.EndTime.sqlTime()),
			d.IsWorkingDay,
			squirrel.Expr("?::time", optionalClockArg(d.BreakStart)), squirrel.Expr("?::time", optionalClockArg(d.BreakEnd)),
			d.SlotDurationMinutes, d.BufferMinutes, d.IsFlexible,
		).
		Suffix(`ON CONFLICT (provider_id, day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_working_day = EXCLUDED.is_working_day,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			slot_duration = EXCLUDED.slot_duration,
			buffer_time = EXCLUDED.buffer_time,
			is_flexible = EXCLUDED.is_flexible,
			updated_at = now()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert schedule query failed: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("upsert schedule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteDay(ctx context.Context, providerID string, day Weekday) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.schedules").
		Where(squirrel.Eq{"provider_id": providerID, "day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete schedule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete schedule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var overrideColumns = []string{
	"id", "provider_id", "date", "is_working_day", "start_time::text", "end_time::text",
	"break_start::text", "break_end::text", "reason", "created_at",
}

func scanOverride(row pgx.Row) (*Override, error) {
	var (
		o                                Override
		start, end, breakStart, breakEnd *string
	)
	if err := row.Scan(
		&o.ID, &o.ProviderID, &o.Date, &o.IsWorkingDay, &start, &end,
		&breakStart, &breakEnd, &o.Reason, &o.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	for _, f := range []struct {
		src *string
		dst **Clock
	}{{start, &o.StartTime}, {end, &o.EndTime}, {breakStart, &o.BreakStart}, {breakEnd, &o.BreakEnd}} {
		if *f.dst, err = parseOptionalClock(f.src); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (r *pgxRepository) GetOverride(ctx context.Context, providerID string, date time.Time) (*Override, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(overrideColumns...).
		From("public.schedule_overrides").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Expr("date = ?::date", dateArg(date))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get override query failed: %w", err)
	}

	o, err := scanOverride(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("get override failed: %w", err)
	}
	o.Date = inLocation(o.Date, date.Location())
	return o, nil
}

func (r *pgxRepository) ListOverrides(ctx context.Context, providerID string, from, to time.Time) ([]*Override, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(overrideColumns...).
		From("public.schedule_overrides").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Expr("date BETWEEN ?::date AND ?::date", dateArg(from), dateArg(to))).
		OrderBy("date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides failed: %w", err)
	}
	defer rows.Close()

	var out []*Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override failed: %w", err)
		}
		o.Date = inLocation(o.Date, from.Location())
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *pgxRepository) UpsertOverride(ctx context.Context, o *Override) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.schedule_overrides").
		Columns("provider_id", "date", "is_working_day", "start_time", "end_time", "break_start", "break_end", "reason").
		Values(
			o.ProviderID, squirrel.Expr("?::date", dateArg(o.Date)), o.IsWorkingDay,
			squirrel.Expr("?::time", optionalClockArg(o.StartTime)), squirrel.Expr("?::time", optionalClockArg(o.EndTime)),
			squirrel.Expr("?::time", optionalClockArg(o.BreakStart)), squirrel.Expr("?::time", optionalClockArg(o.BreakEnd)),
			o.Reason,
		).
		Suffix(`ON CONFLICT (provider_id, date) DO UPDATE SET
			is_working_day = EXCLUDED.is_working_day,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			reason = EXCLUDED.reason
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert override query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return fmt.Errorf("upsert override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteOverride(ctx context.Context, providerID string, date time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.schedule_overrides").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Expr("date = ?::date", dateArg(date))).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete override query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete override failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func parseOptionalClock(s *string) (*Clock, error) {
	if s == nil {
		return nil, nil
	}
	c, err := ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func optionalClockArg(c *Clock) any {
	if c == nil {
		return nil
	}
	return c.sqlTime()
}

func dateArg(t time.Time) string {
	return t.Format(time.DateOnly)
}

// inLocation re-anchors a DATE column (scanned as UTC midnight) to loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
