package timeblock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ilya24037/www.spa.com-sub004/internal/db"
)

type Repository interface {
	// Create inserts b after checking it against the provider's calendar.
	Create(ctx context.Context, b *Block) error
	GetByID(ctx context.Context, id string) (*Block, error)
	// List returns blocks intersecting [filter.From, filter.To), ordered by start.
	List(ctx context.Context, filter Filter) ([]*Block, error)
	// Update persists new bounds, kind and notes, re-checking overlaps.
	Update(ctx context.Context, b *Block) error
	// Split persists the shortened head and inserts tail atomically.
	Split(ctx context.Context, head, tail *Block) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var blockColumns = []string{
	"id", "provider_id", "booking_id", "resource_type", "resource_id", "start_time", "end_time",
	"duration_minutes", "kind", "prior_kind", "notes", "created_at", "updated_at",
}

func scanBlock(row pgx.Row) (*Block, error) {
	var (
		b              Block
		resType, resID *string
		kind           string
		priorKind      *string
	)
	if err := row.Scan(
		&b.ID, &b.ProviderID, &b.BookingID, &resType, &resID, &b.StartTime, &b.EndTime,
		&b.DurationMinutes, &kind, &priorKind, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Kind = Kind(kind)
	if priorKind != nil {
		b.PriorKind = Kind(*priorKind)
	}
	res, err := resourceFromColumns(resType, resID)
	if err != nil {
		return nil, err
	}
	b.Resource = res
	return &b, nil
}

// IsConflict reports whether err is a calendar constraint violation.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ExclusionViolation || pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}

func (r *pgxRepository) Create(ctx context.Context, b *Block) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := guard(ctx, tx, b); err != nil {
			return err
		}
		return InsertTx(ctx, tx, b)
	})
	return mapConflict(err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Block, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(blockColumns...).
		From("public.booking_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get time block query failed: %w", err)
	}

	b, err := scanBlock(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get time block failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Block, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(blockColumns...).
		From("public.booking_slots").
		Where(squirrel.Eq{"provider_id": filter.ProviderID}).
		Where(squirrel.Lt{"start_time": filter.To}).
		Where(squirrel.Gt{"end_time": filter.From}).
		OrderBy("start_time", "end_time")

	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		query = query.Where(squirrel.Eq{"kind": kinds})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list time blocks query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list time blocks failed: %w", err)
	}
	defer rows.Close()

	var blocks []*Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time block failed: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, b *Block) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := guard(ctx, tx, b); err != nil {
			return err
		}
		return UpdateTx(ctx, tx, b)
	})
	return mapConflict(err)
}

func (r *pgxRepository) Split(ctx context.Context, head, tail *Block) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockProvider(ctx, tx, head.ProviderID); err != nil {
			return err
		}
		// Shrink first so the tail does not collide with the old head range.
		if err := UpdateTx(ctx, tx, head); err != nil {
			return err
		}
		return InsertTx(ctx, tx, tail)
	})
	return mapConflict(err)
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.booking_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete time block query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete time block failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// guard serializes writes for the provider and rejects b when it would overlap
// another non-blocked block. Blocked intervals may overlap anything.
func guard(ctx context.Context, tx pgx.Tx, b *Block) error {
	if err := db.LockProvider(ctx, tx, b.ProviderID); err != nil {
		return err
	}
	if b.Kind == KindBlocked {
		return nil
	}
	taken, err := HasOverlapTx(ctx, tx, b.ProviderID, b.StartTime, b.EndTime, b.ID, false)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotConflict
	}
	return nil
}

func mapConflict(err error) error {
	if IsConflict(err) {
		return ErrSlotConflict
	}
	return err
}

// InsertTx inserts b using q and fills its generated fields.
func InsertTx(ctx context.Context, q db.DBTX, b *Block) error {
	resType, resID := resourceColumns(b.Resource)
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.booking_slots").
		Columns(
			"provider_id", "booking_id", "resource_type", "resource_id", "start_time", "end_time",
			"duration_minutes", "kind", "prior_kind", "notes",
		).
		Values(
			b.ProviderID, b.BookingID, resType, resID, b.StartTime, b.EndTime,
			b.DurationMinutes, string(b.Kind), priorKindArg(b.PriorKind), b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create time block query failed: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create time block failed: %w", err)
	}
	return nil
}

// UpdateTx writes the mutable columns of b using q.
func UpdateTx(ctx context.Context, q db.DBTX, b *Block) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.booking_slots").
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("duration_minutes", b.DurationMinutes).
		Set("kind", string(b.Kind)).
		Set("prior_kind", priorKindArg(b.PriorKind)).
		Set("notes", b.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update time block query failed: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update time block failed: %w", err)
	}
	return nil
}

// HasOverlapTx reports whether the provider has a block intersecting [start, end).
// excludeID skips the block being changed; includeBlocked also counts blocked intervals.
func HasOverlapTx(ctx context.Context, q db.DBTX, providerID string, start, end time.Time, excludeID string, includeBlocked bool) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.booking_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}
	if !includeBlocked {
		subQuery = subQuery.Where(squirrel.NotEq{"kind": string(KindBlocked)})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

// GetByBookingTx loads and row-locks the service block of a booking.
func GetByBookingTx(ctx context.Context, q db.DBTX, bookingID string) (*Block, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(blockColumns...).
		From("public.booking_slots").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking block query failed: %w", err)
	}

	b, err := scanBlock(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking block failed: %w", err)
	}
	return b, nil
}

// DeleteByBookingTx removes the service block of a booking.
func DeleteByBookingTx(ctx context.Context, q db.DBTX, bookingID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.booking_slots").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking block query failed: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete booking block failed: %w", err)
	}
	return nil
}

func priorKindArg(k Kind) any {
	if k == "" {
		return nil
	}
	return string(k)
}
