package timeblock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilya24037/www.spa.com-sub004/internal/db/dbtest"
)

var pgxNine = time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC)

func pgxBlock(t *testing.T, provider string, kind Kind, offset, minutes int) *Block {
	t.Helper()
	start := pgxNine.Add(time.Duration(offset) * time.Minute)
	b, err := New(provider, kind, start, start.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
	return b
}

func TestPgxExclusionConstraint(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	provider := dbtest.NewProvider(t, pool)

	require.NoError(t, InsertTx(ctx, pool, pgxBlock(t, provider, KindBreak, 0, 60)))

	// InsertTx skips the overlap check, so only the constraint stands in the way.
	err := InsertTx(ctx, pool, pgxBlock(t, provider, KindPreparation, 30, 60))
	require.Error(t, err)
	assert.True(t, IsConflict(err), "want an exclusion violation, got %v", err)
	assert.ErrorIs(t, mapConflict(err), ErrSlotConflict)

	t.Run("touching intervals do not overlap", func(t *testing.T) {
		require.NoError(t, InsertTx(ctx, pool, pgxBlock(t, provider, KindBreak, 60, 15)))
	})

	t.Run("blocked intervals are exempt", func(t *testing.T) {
		require.NoError(t, InsertTx(ctx, pool, pgxBlock(t, provider, KindBlocked, 0, 120)))
	})

	t.Run("other providers are independent", func(t *testing.T) {
		other := dbtest.NewProvider(t, pool)
		require.NoError(t, InsertTx(ctx, pool, pgxBlock(t, other, KindBreak, 0, 60)))
	})
}

func TestPgxRepository(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()
	provider := dbtest.NewProvider(t, pool)

	notes := "deep clean"
	prep := pgxBlock(t, provider, KindPreparation, 0, 90)
	prep.Notes = &notes
	prep.Resource = Room{ID: uuid.NewString()}
	require.NoError(t, repo.Create(ctx, prep))
	require.NotEmpty(t, prep.ID)

	got, err := repo.GetByID(ctx, prep.ID)
	require.NoError(t, err)
	assert.Equal(t, KindPreparation, got.Kind)
	assert.Equal(t, 90, got.DurationMinutes)
	assert.Equal(t, prep.Resource, got.Resource)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)
	assert.True(t, got.StartTime.Equal(pgxNine))

	t.Run("create rejects an overlap", func(t *testing.T) {
		err := repo.Create(ctx, pgxBlock(t, provider, KindBreak, 60, 60))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("blocked may cover anything", func(t *testing.T) {
		blocked := pgxBlock(t, provider, KindBlocked, -60, 240)
		require.NoError(t, repo.Create(ctx, blocked))
		require.NoError(t, repo.Delete(ctx, blocked.ID))
	})

	t.Run("update re-checks overlaps", func(t *testing.T) {
		brk := pgxBlock(t, provider, KindBreak, 120, 30)
		require.NoError(t, repo.Create(ctx, brk))

		require.NoError(t, brk.MoveBy(-45))
		assert.ErrorIs(t, repo.Update(ctx, brk), ErrSlotConflict)

		require.NoError(t, brk.MoveBy(60))
		require.NoError(t, repo.Update(ctx, brk))
		stored, err := repo.GetByID(ctx, brk.ID)
		require.NoError(t, err)
		assert.True(t, stored.StartTime.Equal(pgxNine.Add(135*time.Minute)))
	})

	t.Run("split keeps both halves", func(t *testing.T) {
		head, err := repo.GetByID(ctx, prep.ID)
		require.NoError(t, err)
		tail, err := head.Split(pgxNine.Add(30 * time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Split(ctx, head, tail))
		require.NotEmpty(t, tail.ID)

		blocks, err := repo.List(ctx, Filter{ProviderID: provider, From: pgxNine, To: pgxNine.Add(90 * time.Minute)})
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Equal(t, head.ID, blocks[0].ID)
		assert.Equal(t, 30, blocks[0].DurationMinutes)
		assert.Equal(t, tail.ID, blocks[1].ID)
		assert.Equal(t, 60, blocks[1].DurationMinutes)
		assert.Equal(t, prep.Resource, blocks[1].Resource)
	})

	t.Run("list filters by kind", func(t *testing.T) {
		blocks, err := repo.List(ctx, Filter{
			ProviderID: provider,
			From:       pgxNine.Add(-time.Hour),
			To:         pgxNine.Add(6 * time.Hour),
			Kinds:      []Kind{KindBreak},
		})
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, KindBreak, blocks[0].Kind)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, prep.ID))
		_, err := repo.GetByID(ctx, prep.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, prep.ID), ErrNotFound)
	})
}
