package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/services/dto"
)

func TestDashboardStatsEmpty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestDashboardService()

	stats, err := svc.Stats(ctx, db, uuid.NewString())
	require.NoError(t, err)
	require.Zero(t, stats.BusinessCount)
	require.Zero(t, stats.MarketCount)
	require.Zero(t, stats.ApplicationTotal)
	require.Empty(t, stats.ApplicationsByState)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestDashboardService()
	apps := newTestApplicationService(&emailRecorder{})

	user := uuid.NewString()
	organizer := uuid.NewString()

	business := seedBusiness(t, db, user)
	seedMarket(t, db, user)
	market := seedMarket(t, db, organizer)
	other := seedMarket(t, db, organizer, func(m *models.Market) {
		m.MarketName = "Second Fair"
	})

	created, err := apps.Create(ctx, db, user, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)
	_, err = apps.Create(ctx, db, user, &dto.CreateApplicationRequest{
		MarketID:   other.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)
	_, err = apps.Accept(ctx, db, organizer, created.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, db, user)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.BusinessCount)
	require.Equal(t, int64(1), stats.MarketCount)
	require.Equal(t, int64(2), stats.ApplicationTotal)
	require.Equal(t, int64(1), stats.ApplicationsByState["applied"])
	require.Equal(t, int64(1), stats.ApplicationsByState["accepted"])
}
