package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dpscalc/internal/db"
	"github.com/udisondev/dpscalc/internal/model"
	"github.com/udisondev/dpscalc/internal/testutil"
)

// eachDialect runs fn against sqlite and, when configured, postgres.
func eachDialect(t *testing.T, fn func(t *testing.T, s *db.Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, testutil.SetupTestStore(t)) })
	t.Run("postgres", func(t *testing.T) { fn(t, testutil.SetupPostgresStore(t)) })
}

func TestStore_Players(t *testing.T) {
	eachDialect(t, func(t *testing.T, s *db.Store) {
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		_, err := s.LatestPlayer(ctx, "Zezima")
		assert.ErrorIs(t, err, db.ErrNotFound)

		old := time.UnixMilli(1_700_000_000_000)
		require.NoError(t, s.SavePlayer(ctx, db.PlayerSnapshot{
			Username:  "Zezima",
			Skills:    map[model.Skill]int{model.SkillAttack: 90},
			Equipment: map[model.Slot]int{model.SlotWeapon: 4151},
			FetchedAt: old,
		}))
		require.NoError(t, s.SavePlayer(ctx, db.PlayerSnapshot{
			Username:  "Zezima",
			Skills:    map[model.Skill]int{model.SkillAttack: 99, model.SkillStrength: 99},
			Equipment: map[model.Slot]int{model.SlotWeapon: 12006, model.SlotNeck: 19553},
			FetchedAt: old.Add(time.Hour),
		}))

		p, err := s.LatestPlayer(ctx, "zezima")
		require.NoError(t, err)
		assert.Equal(t, "Zezima", p.Username)
		assert.Equal(t, 99, p.Skills[model.SkillAttack])
		assert.Equal(t, 12006, p.Equipment[model.SlotWeapon])
		assert.True(t, p.FetchedAt.Equal(old.Add(time.Hour)))
	})
}

func TestStore_Prices(t *testing.T) {
	eachDialect(t, func(t *testing.T, s *db.Store) {
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		prices, err := s.LoadPrices(ctx)
		require.NoError(t, err)
		assert.Empty(t, prices)

		t0 := time.UnixMilli(1_700_000_000_000)
		require.NoError(t, s.SavePrices(ctx, map[int]model.Quote{
			4151:  {High: 1_500_000, Low: 1_400_000},
			12006: {High: 900_000, Low: 850_000},
		}, t0))
		require.NoError(t, s.SavePrices(ctx, map[int]model.Quote{
			4151: {High: 1_600_000, Low: 1_550_000},
		}, t0.Add(time.Minute)))

		prices, err = s.LoadPrices(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int]model.Quote{
			4151:  {High: 1_600_000, Low: 1_550_000},
			12006: {High: 900_000, Low: 850_000},
		}, prices)
	})
}

func TestStore_SavePricesIsAtomic(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	at := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, s.SavePrices(ctx, map[int]model.Quote{4151: {High: 1, Low: 1}}, at))
	// same item and timestamp violates the primary key
	err := s.SavePrices(ctx, map[int]model.Quote{4151: {High: 2, Low: 2}, 995: {High: 1, Low: 1}}, at)
	require.Error(t, err)

	prices, err := s.LoadPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]model.Quote{4151: {High: 1, Low: 1}}, prices)
}

func TestStore_RecordCatalog(t *testing.T) {
	eachDialect(t, func(t *testing.T, s *db.Store) {
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		fresh, err := s.RecordCatalog(ctx, "items", "abc", 10)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = s.RecordCatalog(ctx, "items", "abc", 10)
		require.NoError(t, err)
		assert.False(t, fresh)

		fresh, err = s.RecordCatalog(ctx, "monsters", "abc", 3)
		require.NoError(t, err)
		assert.True(t, fresh, "fingerprints are tracked per kind")
	})
}

func TestStore_UpgradeRuns(t *testing.T) {
	eachDialect(t, func(t *testing.T, s *db.Store) {
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		base := time.UnixMilli(1_700_000_000_000)
		first, err := s.SaveUpgradeRun(ctx, db.UpgradeRun{
			Username:    "Zezima",
			Target:      "Vorkath",
			BaselineDPS: 4.2,
			CreatedAt:   base,
		})
		require.NoError(t, err)

		second, err := s.SaveUpgradeRun(ctx, db.UpgradeRun{
			Username:    "Zezima",
			Target:      "Zulrah",
			BaselineDPS: 5.5,
			Suggestions: []db.RunSuggestion{
				{Items: "Amulet of torture", Price: 10_000_000, DPSGain: 0.3, Efficiency: 0.03},
			},
			CreatedAt: base.Add(time.Second),
		})
		require.NoError(t, err)
		assert.Greater(t, second, first)

		runs, err := s.RecentUpgradeRuns(ctx, 5)
		require.NoError(t, err)
		require.Len(t, runs, 2)

		assert.Equal(t, second, runs[0].ID)
		assert.Equal(t, "Zulrah", runs[0].Target)
		require.Len(t, runs[0].Suggestions, 1)
		assert.Equal(t, "Amulet of torture", runs[0].Suggestions[0].Items)
		assert.Equal(t, "Vorkath", runs[1].Target)
		assert.Empty(t, runs[1].Suggestions)
		assert.InDelta(t, 4.2, runs[1].BaselineDPS, 1e-9)

		runs, err = s.RecentUpgradeRuns(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})
}

func TestStore_CancelledContext(t *testing.T) {
	s := testutil.SetupTestStore(t)
	_, err := s.RecentUpgradeRuns(testutil.CancelledContext(t), 5)
	assert.ErrorIs(t, err, context.Canceled)
}
