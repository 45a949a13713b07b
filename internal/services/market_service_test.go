package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
)

func TestMarketCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	organizer := uuid.NewString()
	start := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)

	resp, err := svc.Create(ctx, db, organizer, &dto.CreateMarketRequest{
		MarketName: "Harvest Fair",
		City:       ptr("Lisbon"),
		StartDate:  &start,
	})
	require.NoError(t, err)
	require.Equal(t, organizer, resp.OrganizerUserID)
	require.Equal(t, "Harvest Fair", resp.MarketName)
	require.True(t, resp.IsFree)
	require.True(t, resp.IsPublished)
}

func TestMarketCreatePaidRequiresCostFields(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateMarketRequest{
		MarketName: "Paid Fair",
		IsFree:     ptr(false),
		CostAmount: ptr("50"),
	})
	requireAppError(t, err, http.StatusBadRequest)

	// Nothing was written
	var count int64
	require.NoError(t, db.Model(&models.Market{}).Count(&count).Error)
	require.Zero(t, count)

	resp, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateMarketRequest{
		MarketName:          "Paid Fair",
		IsFree:              ptr(false),
		CostAmount:          ptr("50"),
		CostCurrency:        ptr("EUR"),
		PaymentInstructions: ptr("bank transfer before the event"),
	})
	require.NoError(t, err)
	require.False(t, resp.IsFree)
	require.Equal(t, "50", *resp.CostAmount)
}

func TestMarketUpdateOnlyOrganizer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	organizer := uuid.NewString()
	market := seedMarket(t, db, organizer)

	_, err := svc.Update(ctx, db, uuid.NewString(), market.ID, &dto.UpdateMarketRequest{
		MarketName: ptr("Hijacked Fair"),
	})
	requireAppError(t, err, http.StatusForbidden)

	updated, err := svc.Update(ctx, db, organizer, market.ID, &dto.UpdateMarketRequest{
		MarketName: ptr("Renamed Fair"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed Fair", updated.MarketName)
}

func TestMarketUpdatePaidRequiresCostFields(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	organizer := uuid.NewString()
	market := seedMarket(t, db, organizer)

	// Flipping a free market to paid needs the full cost block
	_, err := svc.Update(ctx, db, organizer, market.ID, &dto.UpdateMarketRequest{
		IsFree: ptr(false),
	})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestMarketSearchExcludesOwnMarkets(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	actor := uuid.NewString()
	seedMarket(t, db, actor, func(m *models.Market) { m.MarketName = "My Own Fair" })
	other := seedMarket(t, db, uuid.NewString(), func(m *models.Market) { m.MarketName = "Someone Else's Fair" })

	result, err := svc.Search(ctx, db, actor, repositories.MarketSearchCriteria{Limit: 20})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	require.Len(t, result.Markets, 1)
	require.Equal(t, other.ID, result.Markets[0].ID)
}

func TestMarketSearchKeepsFavoritedUnpublished(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	actor := uuid.NewString()
	hidden := seedMarket(t, db, uuid.NewString(), func(m *models.Market) {
		m.MarketName = "Hidden Fair"
		m.IsPublished = false
	})
	require.NoError(t, db.Create(&models.MarketFavorite{
		MarketID: hidden.ID,
		UserID:   actor,
	}).Error)

	// Favorites ride along even when the published filter would drop them
	result, err := svc.Search(ctx, db, actor, repositories.MarketSearchCriteria{
		IsPublished: ptr(true),
		Limit:       20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	require.Equal(t, hidden.ID, result.Markets[0].ID)

	// Without the favorite the same search finds nothing
	stranger, err := svc.Search(ctx, db, uuid.NewString(), repositories.MarketSearchCriteria{
		IsPublished: ptr(true),
		Limit:       20,
	})
	require.NoError(t, err)
	require.Zero(t, stranger.Total)
}

func TestMarketSearchCityFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	seedMarket(t, db, uuid.NewString(), func(m *models.Market) { m.City = ptr("Lisbon") })
	seedMarket(t, db, uuid.NewString(), func(m *models.Market) { m.City = ptr("Porto") })

	result, err := svc.Search(ctx, db, "", repositories.MarketSearchCriteria{
		City:  "lisbon",
		Limit: 20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	require.Equal(t, "Lisbon", *result.Markets[0].City)
}

func TestMarketDeleteOnlyOrganizer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	organizer := uuid.NewString()
	market := seedMarket(t, db, organizer)

	err := svc.Delete(ctx, db, uuid.NewString(), market.ID)
	requireAppError(t, err, http.StatusForbidden)

	require.NoError(t, svc.Delete(ctx, db, organizer, market.ID))

	_, err = svc.GetByID(ctx, db, market.ID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestMarketImageLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestMarketService()

	organizer := uuid.NewString()
	market := seedMarket(t, db, organizer)

	img, err := svc.AddImage(ctx, db, organizer, market.ID, &dto.AddImageRequest{
		ImageURL:  "markets/banner.jpg",
		SortOrder: ptr(1),
	})
	require.NoError(t, err)

	_, err = svc.AddImage(ctx, db, uuid.NewString(), market.ID, &dto.AddImageRequest{
		ImageURL: "markets/sneaky.jpg",
	})
	requireAppError(t, err, http.StatusForbidden)

	images, err := svc.ListImages(ctx, db, market.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)

	require.NoError(t, svc.DeleteImage(ctx, db, organizer, market.ID, img.ID))

	images, err = svc.ListImages(ctx, db, market.ID)
	require.NoError(t, err)
	require.Empty(t, images)
}
