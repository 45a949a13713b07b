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

func TestBusinessCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestBusinessService()

	owner := uuid.NewString()
	resp, err := svc.Create(ctx, db, owner, &dto.CreateBusinessRequest{
		ShopName: "Ceramics by Ana",
		Category: ptr("pottery"),
		Images: []dto.ImageInput{
			{ImageURL: "businesses/stand.jpg", SortOrder: ptr(1)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, owner, resp.OwnerUserID)
	require.Equal(t, "Ceramics by Ana", resp.ShopName)
	require.Len(t, resp.Images, 1)
}

func TestBusinessCreateConsumesPendingImages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestBusinessService()

	owner := uuid.NewString()
	require.NoError(t, db.Create(&models.PendingImage{
		UserID:   owner,
		ImageURL: "businesses/stand.jpg",
		S3Key:    "businesses/stand.jpg",
	}).Error)

	_, err := svc.Create(ctx, db, owner, &dto.CreateBusinessRequest{
		ShopName: "Ceramics by Ana",
		Images: []dto.ImageInput{
			{ImageURL: "businesses/stand.jpg"},
		},
	})
	require.NoError(t, err)

	// Attaching the image settles its pending record
	var pending int64
	require.NoError(t, db.Model(&models.PendingImage{}).Count(&pending).Error)
	require.Zero(t, pending)
}

func TestBusinessUpdateOnlyOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestBusinessService()

	owner := uuid.NewString()
	business := seedBusiness(t, db, owner)

	_, err := svc.Update(ctx, db, uuid.NewString(), business.ID, &dto.UpdateBusinessRequest{
		ShopName: ptr("Not Yours"),
	})
	requireAppError(t, err, http.StatusForbidden)

	updated, err := svc.Update(ctx, db, owner, business.ID, &dto.UpdateBusinessRequest{
		ShopName:    ptr("Candle Corner Studio"),
		Description: ptr("hand poured in small batches"),
	})
	require.NoError(t, err)
	require.Equal(t, "Candle Corner Studio", updated.ShopName)
}

func TestBusinessSearch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestBusinessService()

	seedBusiness(t, db, uuid.NewString(), func(b *models.Business) {
		b.ShopName = "Vintage Vinyl"
		b.Category = ptr("music")
	})
	seedBusiness(t, db, uuid.NewString(), func(b *models.Business) {
		b.ShopName = "Fresh Flowers"
		b.Category = ptr("florist")
	})

	byName, err := svc.Search(ctx, db, repositories.BusinessSearchCriteria{
		Query: "vinyl",
		Limit: 20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), byName.Total)
	require.Equal(t, "Vintage Vinyl", byName.Businesses[0].ShopName)

	byCategory, err := svc.Search(ctx, db, repositories.BusinessSearchCriteria{
		Category: "florist",
		Limit:    20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), byCategory.Total)
}

func TestBusinessDeleteOnlyOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestBusinessService()

	owner := uuid.NewString()
	business := seedBusiness(t, db, owner)

	err := svc.Delete(ctx, db, uuid.NewString(), business.ID)
	requireAppError(t, err, http.StatusForbidden)

	require.NoError(t, svc.Delete(ctx, db, owner, business.ID))

	_, err = svc.GetByID(ctx, db, business.ID)
	requireAppError(t, err, http.StatusNotFound)
}
