package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *SpoolRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&SpooledEvent{}))
	return NewSpoolRepository(db)
}

func testEvent(eventID, name string) SpooledEvent {
	return SpooledEvent{
		EventID:    eventID,
		Name:       name,
		SessionID:  "s1",
		Properties: `{"page":"/products"}`,
		OccurredAt: time.Now(),
		Status:     SpoolStatusPending,
	}
}

func TestSpoolRepository_EnqueueAndFetch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Enqueue(ctx, []SpooledEvent{
		testEvent("e1", "page_view"),
		testEvent("e2", "add_to_cart"),
	}))

	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "e1", pending[0].EventID)
	assert.Equal(t, "e2", pending[1].EventID)
}

func TestSpoolRepository_EnqueueIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Enqueue(ctx, []SpooledEvent{testEvent("e1", "page_view")}))
	require.NoError(t, repo.Enqueue(ctx, []SpooledEvent{testEvent("e1", "page_view")}))

	count, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSpoolRepository_ClassifiesDuplicateKey(t *testing.T) {
	repo := newTestRepository(t)

	first := testEvent("e1", "page_view")
	require.NoError(t, repo.db.Create(&first).Error)

	second := testEvent("e1", "page_view")
	err := repo.db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyError(err))
	assert.False(t, IsDuplicateKeyError(errors.New("connection reset")))
}

func TestSpoolRepository_MarkSent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Enqueue(ctx, []SpooledEvent{testEvent("e1", "page_view")}))
	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkSent(ctx, []uint{pending[0].ID}))

	remaining, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSpoolRepository_MarkFailedAbandonsAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Enqueue(ctx, []SpooledEvent{testEvent("e1", "page_view")}))
	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	id := pending[0].ID

	// Two failures below the cap keep the event pending
	require.NoError(t, repo.MarkFailed(ctx, []uint{id}, "connection refused", 3))
	require.NoError(t, repo.MarkFailed(ctx, []uint{id}, "connection refused", 3))

	pending, err = repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Attempts)

	// Third failure reaches the cap and abandons the event
	require.NoError(t, repo.MarkFailed(ctx, []uint{id}, "connection refused", 3))

	pending, err = repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSpoolRepository_PurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	old := testEvent("e1", "page_view")
	old.Status = SpoolStatusSent
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.db.Create(&old).Error)

	fresh := testEvent("e2", "page_view")
	require.NoError(t, repo.Enqueue(ctx, []SpooledEvent{fresh}))

	deleted, err := repo.PurgeOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Pending events are never purged regardless of age
	count, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
