package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/services/dto"
)

func TestFavoriteCreateAndCheck(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestFavoriteService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	check, err := svc.Check(ctx, db, user, market.ID)
	require.NoError(t, err)
	require.False(t, check.IsFavorited)

	_, err = svc.Create(ctx, db, user, &dto.CreateFavoriteRequest{MarketID: market.ID})
	require.NoError(t, err)

	check, err = svc.Check(ctx, db, user, market.ID)
	require.NoError(t, err)
	require.True(t, check.IsFavorited)

	_, err = svc.Create(ctx, db, user, &dto.CreateFavoriteRequest{MarketID: market.ID})
	requireAppError(t, err, http.StatusConflict)
}

func TestFavoriteCreateUnknownMarket(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestFavoriteService()

	_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateFavoriteRequest{
		MarketID: uuid.NewString(),
	})
	requireAppError(t, err, http.StatusNotFound)
}

func TestFavoriteDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestFavoriteService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	// Removing a market that was never favorited
	err := svc.Delete(ctx, db, user, market.ID)
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Create(ctx, db, user, &dto.CreateFavoriteRequest{MarketID: market.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, db, user, market.ID))

	check, err := svc.Check(ctx, db, user, market.ID)
	require.NoError(t, err)
	require.False(t, check.IsFavorited)
}

func TestMyFavoritesIncludesMarketCards(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestFavoriteService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString(), func(m *models.Market) {
		m.MarketName = "Flea Sunday"
	})

	_, err := svc.Create(ctx, db, user, &dto.CreateFavoriteRequest{MarketID: market.ID})
	require.NoError(t, err)

	favorites, err := svc.MyFavorites(ctx, db, user)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	require.NotNil(t, favorites[0].Market)
	require.Equal(t, "Flea Sunday", favorites[0].Market.MarketName)
}
