package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/insurance-rates/database"
	"github.com/blogem/insurance-rates/models"
)

func setupTestDB(t *testing.T, set database.MigrationSet) *sql.DB {
	t.Helper()

	// Initialize test database using the actual migration system
	db, err := database.InitializeDatabase(filepath.Join(t.TempDir(), "test.db"), set)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return models.NewDate(d)
}

func TestRateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRateRepository(setupTestDB(t, database.RatesMigrations))

	// Test Create
	rate := &models.RateRecord{
		Date:      mustDate(t, "2021-04-02"),
		CargoType: "Beer",
		Rate:      decimal.RequireFromString("0.005"),
	}
	require.NoError(t, repo.Create(ctx, rate))
	assert.NotZero(t, rate.ID, "Expected rate ID to be set after creation")

	// Test GetByID
	retrieved, err := repo.GetByID(ctx, rate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beer", retrieved.CargoType)
	assert.Equal(t, "2021-04-02", retrieved.Date.String())
	assert.True(t, rate.Rate.Equal(retrieved.Rate))

	// Test Update
	rate.Date = mustDate(t, "2002-04-02")
	rate.CargoType = "Glass"
	require.NoError(t, repo.Update(ctx, rate))

	found, err := repo.FindByDateAndCargoType(ctx, mustDate(t, "2002-04-02"), "Glass")
	require.NoError(t, err)
	assert.Equal(t, rate.ID, found.ID)

	// Test GetAll
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Test Delete is not repeatable
	require.NoError(t, repo.Delete(ctx, rate.ID))
	assert.ErrorIs(t, repo.Delete(ctx, rate.ID), models.ErrNotFound)

	_, err = repo.GetByID(ctx, rate.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	rate.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, rate), models.ErrNotFound)
}

func TestRateRepository_FindPicksNewestDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewRateRepository(setupTestDB(t, database.RatesMigrations))

	for _, r := range []string{"0.01", "0.02"} {
		require.NoError(t, repo.Create(ctx, &models.RateRecord{
			Date:      mustDate(t, "2023-11-30"),
			CargoType: "Glass",
			Rate:      decimal.RequireFromString(r),
		}))
	}

	found, err := repo.FindByDateAndCargoType(ctx, mustDate(t, "2023-11-30"), "Glass")
	require.NoError(t, err)
	assert.Equal(t, "0.02", found.Rate.String())

	_, err = repo.FindByDateAndCargoType(ctx, mustDate(t, "2023-12-01"), "Glass")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRateRepository_UpsertBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewRateRepository(setupTestDB(t, database.RatesMigrations))

	existing := &models.RateRecord{Date: mustDate(t, "2023-11-30"), CargoType: "Glass", Rate: decimal.RequireFromString("0.9")}
	require.NoError(t, repo.Create(ctx, existing))

	batch := []models.RateRecord{
		{Date: mustDate(t, "2023-11-30"), CargoType: "Glass", Rate: decimal.RequireFromString("0.015")},
		{Date: mustDate(t, "2023-11-30"), CargoType: "Other", Rate: decimal.RequireFromString("0.04")},
		{Date: mustDate(t, "2023-12-01"), CargoType: "Glass", Rate: decimal.RequireFromString("0.01")},
	}
	n, err := repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, existing.ID, batch[0].ID, "existing row must be overwritten, not duplicated")

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	glass, err := repo.FindByDateAndCargoType(ctx, mustDate(t, "2023-11-30"), "Glass")
	require.NoError(t, err)
	assert.Equal(t, "0.015", glass.Rate.String())
}

func appendEvent(t *testing.T, repo LogRepository, action models.Action, userID *int64, at time.Time) models.LogEntry {
	t.Helper()
	entries := []models.LogEntry{{
		EventID:    "evt-" + at.Format(time.RFC3339Nano),
		Action:     action,
		UserID:     userID,
		DateTime:   models.NewTimestamp(at),
		ReceivedAt: models.Now(),
	}}
	require.NoError(t, repo.AppendBatch(context.Background(), entries))
	require.NotZero(t, entries[0].ID)
	return entries[0]
}

func TestLogRepository_ListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewLogRepository(setupTestDB(t, database.LogsMigrations))
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// Arrival order differs from occurrence order
	late := appendEvent(t, repo, models.ActionUpdateRate, nil, base.Add(2*time.Second))
	early := appendEvent(t, repo, models.ActionUpdateRate, nil, base)
	appendEvent(t, repo, models.ActionCreateRate, nil, base.Add(time.Second))

	entries, err := repo.List(ctx, models.LogFilter{Action: models.ActionUpdateRate})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, late.ID, entries[0].ID)
	assert.Equal(t, early.ID, entries[1].ID)
	assert.Nil(t, entries[0].UserID)

	all, err := repo.List(ctx, models.LogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := repo.List(ctx, models.LogFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, late.ID, limited[0].ID)
}

func TestLogRepository_ListTimeBounds(t *testing.T) {
	ctx := context.Background()
	repo := NewLogRepository(setupTestDB(t, database.LogsMigrations))
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	userID := int64(18)

	appendEvent(t, repo, models.ActionCalculate, &userID, base.Add(-time.Microsecond))
	atBound := appendEvent(t, repo, models.ActionCalculate, &userID, base)
	after := appendEvent(t, repo, models.ActionCalculate, nil, base.Add(time.Hour))

	start := models.NewTimestamp(base)
	entries, err := repo.List(ctx, models.LogFilter{Start: &start})
	require.NoError(t, err)
	require.Len(t, entries, 2, "start bound is inclusive and excludes earlier entries")
	assert.Equal(t, after.ID, entries[0].ID)
	assert.Equal(t, atBound.ID, entries[1].ID)

	end := models.NewTimestamp(base.Add(time.Hour))
	entries, err = repo.List(ctx, models.LogFilter{Start: &start, End: &end, UserID: &userID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, atBound.ID, entries[0].ID)
	assert.Equal(t, int64(18), *entries[0].UserID)

	none, err := repo.List(ctx, models.LogFilter{Action: "no_such_action"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLogRepository_ConcurrentAppends(t *testing.T) {
	repo := NewLogRepository(setupTestDB(t, database.LogsMigrations))
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries := []models.LogEntry{{
				Action:     models.ActionCreateRate,
				DateTime:   models.NewTimestamp(base.Add(time.Duration(i) * time.Millisecond)),
				ReceivedAt: models.Now(),
				Detail:     []byte(`{"rate_id":1}`),
			}}
			assert.NoError(t, repo.AppendBatch(context.Background(), entries))
		}(i)
	}
	wg.Wait()

	entries, err := repo.List(context.Background(), models.LogFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	assert.JSONEq(t, `{"rate_id":1}`, string(entries[0].Detail))
}
