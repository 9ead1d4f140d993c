package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTimelineRepo(database)
	ctx := context.Background()

	tl := testutil.NewTestTimeline(testutil.WithOwner("user-1"))
	require.NoError(t, repo.Create(ctx, tl))

	got, err := repo.GetByID(ctx, tl.ID)
	require.NoError(t, err)
	assert.Equal(t, tl.ID, got.ID)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, "user-1", *got.OwnerID)
	assert.True(t, tl.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, int64(0), got.Revision)
}

func TestTimelineRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteTimelineRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimelineRepo_AnonymousOwner(t *testing.T) {
	repo := NewSQLiteTimelineRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	tl := testutil.NewTestTimeline()
	require.NoError(t, repo.Create(ctx, tl))
	got, err := repo.GetByID(ctx, tl.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OwnerID)
}

func TestTimelineRepo_ListByOwner(t *testing.T) {
	repo := NewSQLiteTimelineRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	mine1 := testutil.NewTestTimeline(testutil.WithOwner("me"))
	mine2 := testutil.NewTestTimeline(testutil.WithOwner("me"))
	theirs := testutil.NewTestTimeline(testutil.WithOwner("them"))
	anon := testutil.NewTestTimeline()
	for _, tl := range []*domain.Timeline{mine1, mine2, theirs, anon} {
		require.NoError(t, repo.Create(ctx, tl))
	}

	mine, err := repo.ListByOwner(ctx, "me")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTimelineRepo_BumpRevision(t *testing.T) {
	repo := NewSQLiteTimelineRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	tl := testutil.NewTestTimeline()
	require.NoError(t, repo.Create(ctx, tl))

	rev, err := repo.BumpRevision(ctx, tl.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	rev, err = repo.BumpRevision(ctx, tl.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	_, err = repo.BumpRevision(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimelineRepo_DeleteCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	tl := testutil.NewTestTimeline(testutil.WithItems(testutil.NewTestItem("Later")))
	require.NoError(t, InsertTimeline(ctx, database, tl))
	require.NoError(t, NewSQLiteTimelineRepo(database).Delete(ctx, tl.ID))

	n, err := NewSQLiteItemRepo(database).CountByTimeline(ctx, tl.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	rows, err := NewSQLiteRowRepo(database).ListByTimeline(ctx, tl.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
