package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
)

func TestReviewCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()

	author := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	resp, err := svc.Create(ctx, db, author, &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeMarket),
		TargetID:   market.ID,
		Rating:     ptr(5),
		Title:      ptr("great atmosphere"),
	})
	require.NoError(t, err)
	require.Equal(t, author, resp.AuthorUserID)
	require.Equal(t, 5, *resp.Rating)
	require.True(t, resp.IsPublished)
}

func TestReviewCreateUnknownTarget(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()

	_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeBusiness),
		TargetID:   uuid.NewString(),
		Rating:     ptr(3),
	})
	requireAppError(t, err, http.StatusNotFound)
}

func TestReviewCreateDuplicatePerTarget(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()

	author := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	req := &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeMarket),
		TargetID:   market.ID,
		Rating:     ptr(4),
	}
	_, err := svc.Create(ctx, db, author, req)
	require.NoError(t, err)

	// One review per author and target
	_, err = svc.Create(ctx, db, author, req)
	requireAppError(t, err, http.StatusConflict)

	// A different author is fine
	_, err = svc.Create(ctx, db, uuid.NewString(), req)
	require.NoError(t, err)
}

func TestReviewUpdateOnlyAuthor(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()

	author := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	created, err := svc.Create(ctx, db, author, &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeMarket),
		TargetID:   market.ID,
		Rating:     ptr(2),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, db, uuid.NewString(), created.ID, &dto.UpdateReviewRequest{
		Rating: ptr(5),
	})
	requireAppError(t, err, http.StatusForbidden)

	updated, err := svc.Update(ctx, db, author, created.ID, &dto.UpdateReviewRequest{
		Rating: ptr(5),
		Body:   ptr("came back a second day, much better"),
	})
	require.NoError(t, err)
	require.Equal(t, 5, *updated.Rating)

	err = svc.Delete(ctx, db, uuid.NewString(), created.ID)
	requireAppError(t, err, http.StatusForbidden)
	require.NoError(t, svc.Delete(ctx, db, author, created.ID))
}

func TestReviewStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()

	market := seedMarket(t, db, uuid.NewString())

	// No reviews yet
	stats, err := svc.Stats(ctx, db, string(models.TargetTypeMarket), market.ID)
	require.NoError(t, err)
	require.Zero(t, stats.ReviewCount)
	require.Nil(t, stats.AverageRating)

	for _, rating := range []int{4, 5} {
		_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateReviewRequest{
			TargetType: string(models.TargetTypeMarket),
			TargetID:   market.ID,
			Rating:     ptr(rating),
		})
		require.NoError(t, err)
	}

	stats, err = svc.Stats(ctx, db, string(models.TargetTypeMarket), market.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.ReviewCount)
	require.InDelta(t, 4.5, *stats.AverageRating, 0.001)

	_, err = svc.Stats(ctx, db, "concert", market.ID)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestReviewBatchStatsCoversAllTargets(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()
	reviewRepo := repositories.NewReviewRepository()

	rated := seedMarket(t, db, uuid.NewString())
	unrated := seedMarket(t, db, uuid.NewString())

	_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeMarket),
		TargetID:   rated.ID,
		Rating:     ptr(3),
	})
	require.NoError(t, err)

	stats, err := reviewRepo.BatchStats(db, models.TargetTypeMarket, []string{rated.ID, unrated.ID})
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.Equal(t, int64(1), stats[rated.ID].ReviewCount)
	require.InDelta(t, 3.0, *stats[rated.ID].AverageRating, 0.001)

	// Targets without reviews still get a zero entry
	require.NotNil(t, stats[unrated.ID])
	require.Zero(t, stats[unrated.ID].ReviewCount)
	require.Nil(t, stats[unrated.ID].AverageRating)
}

func TestReviewList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestReviewService()

	author := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())
	business := seedBusiness(t, db, uuid.NewString())

	_, err := svc.Create(ctx, db, author, &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeMarket),
		TargetID:   market.ID,
		Rating:     ptr(4),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, db, author, &dto.CreateReviewRequest{
		TargetType: string(models.TargetTypeBusiness),
		TargetID:   business.ID,
		Rating:     ptr(5),
	})
	require.NoError(t, err)

	byAuthor, err := svc.List(ctx, db, repositories.ReviewSearchCriteria{
		AuthorUserID: author,
		Limit:        20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), byAuthor.Total)

	byTarget, err := svc.List(ctx, db, repositories.ReviewSearchCriteria{
		TargetType: string(models.TargetTypeBusiness),
		TargetID:   business.ID,
		Limit:      20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), byTarget.Total)
	require.Equal(t, business.ID, byTarget.Reviews[0].TargetID)
}
