package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/services/dto"
)

func TestAttendanceCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestAttendanceService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	resp, err := svc.Create(ctx, db, user, &dto.CreateAttendanceRequest{
		MarketID: market.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "attending", resp.Status)
	require.Equal(t, user, resp.UserID)
}

func TestAttendanceCreateEndedMarket(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestAttendanceService()

	past := time.Now().UTC().Add(-48 * time.Hour)
	market := seedMarket(t, db, uuid.NewString(), func(m *models.Market) {
		m.EndDate = &past
	})

	_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateAttendanceRequest{
		MarketID: market.ID,
	})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestAttendanceCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestAttendanceService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	req := &dto.CreateAttendanceRequest{MarketID: market.ID}
	_, err := svc.Create(ctx, db, user, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, db, user, req)
	requireAppError(t, err, http.StatusConflict)

	// Another user may still attend
	_, err = svc.Create(ctx, db, uuid.NewString(), req)
	require.NoError(t, err)
}

func TestAttendanceUpdateAndDeleteOnlyOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestAttendanceService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())

	created, err := svc.Create(ctx, db, user, &dto.CreateAttendanceRequest{
		MarketID: market.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, db, uuid.NewString(), created.ID, &dto.UpdateAttendanceRequest{
		Status: ptr("maybe"),
	})
	requireAppError(t, err, http.StatusForbidden)

	updated, err := svc.Update(ctx, db, user, created.ID, &dto.UpdateAttendanceRequest{
		Status:          ptr("maybe"),
		CalendarEventID: ptr("cal_123"),
	})
	require.NoError(t, err)
	require.Equal(t, "maybe", updated.Status)
	require.Equal(t, "cal_123", *updated.CalendarEventID)

	err = svc.Delete(ctx, db, uuid.NewString(), created.ID)
	requireAppError(t, err, http.StatusForbidden)
	require.NoError(t, svc.Delete(ctx, db, user, created.ID))
}

func TestMyAttendancesIncludesMarketCards(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestAttendanceService()

	user := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString(), func(m *models.Market) {
		m.MarketName = "Winter Bazaar"
	})

	_, err := svc.Create(ctx, db, user, &dto.CreateAttendanceRequest{
		MarketID: market.ID,
	})
	require.NoError(t, err)

	details, err := svc.MyAttendances(ctx, db, user)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Market)
	require.Equal(t, "Winter Bazaar", details[0].Market.MarketName)
}
