package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/pkg/apperrors"
)

// newTestDB opens an in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Market{},
		&models.MarketImage{},
		&models.Business{},
		&models.BusinessImage{},
		&models.Application{},
		&models.Review{},
		&models.ReviewImage{},
		&models.MarketAttendance{},
		&models.MarketFavorite{},
		&models.PendingImage{},
	))
	return db
}

func ptr[T any](v T) *T {
	return &v
}

func seedMarket(t *testing.T, db *gorm.DB, organizerID string, mutate ...func(*models.Market)) *models.Market {
	t.Helper()
	market := &models.Market{
		OrganizerUserID: organizerID,
		MarketName:      "Riverside Night Market",
		IsPublished:     true,
		IsFree:          true,
	}
	for _, m := range mutate {
		m(market)
	}
	require.NoError(t, db.Create(market).Error)
	return market
}

func seedBusiness(t *testing.T, db *gorm.DB, ownerID string, mutate ...func(*models.Business)) *models.Business {
	t.Helper()
	business := &models.Business{
		OwnerUserID: ownerID,
		ShopName:    "Candle Corner",
		Email:       ptr("owner@candlecorner.test"),
	}
	for _, m := range mutate {
		m(business)
	}
	require.NoError(t, db.Create(business).Error)
	return business
}

// requireAppError asserts that err carries the expected HTTP status
func requireAppError(t *testing.T, err error, httpCode int) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, httpCode, appErr.HTTPCode, "unexpected status for %v", appErr)
	return appErr
}

// emailRecorder replaces the SMTP-backed notifications in tests
type emailRecorder struct {
	sent    []string
	changed []string
}

func (r *emailRecorder) SendCreated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	r.sent = append(r.sent, "created")
}

func (r *emailRecorder) SendAccepted(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	r.sent = append(r.sent, "accepted")
}

func (r *emailRecorder) SendDeclined(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	r.sent = append(r.sent, "declined")
}

func (r *emailRecorder) SendConfirmed(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	r.sent = append(r.sent, "confirmed")
}

func (r *emailRecorder) SendPaymentUpdated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application) {
	r.sent = append(r.sent, "payment_updated")
}

func (r *emailRecorder) SendUpdated(ctx context.Context, market *models.Market, business *models.Business, app *models.Application, changedFields []string) {
	r.sent = append(r.sent, "updated")
	r.changed = changedFields
}

func newTestApplicationService(emails ApplicationEmailService) ApplicationService {
	return NewApplicationService(
		repositories.NewApplicationRepository(),
		repositories.NewMarketRepository(),
		repositories.NewBusinessRepository(),
		repositories.NewReviewRepository(),
		emails,
	)
}

func newTestMarketService() MarketService {
	return NewMarketService(
		repositories.NewMarketRepository(),
		repositories.NewApplicationRepository(),
		repositories.NewBusinessRepository(),
		repositories.NewReviewRepository(),
		repositories.NewAttendanceRepository(),
		repositories.NewFavoriteRepository(),
		repositories.NewUploadRepository(),
		nil,
	)
}

func newTestBusinessService() BusinessService {
	return NewBusinessService(
		repositories.NewBusinessRepository(),
		repositories.NewReviewRepository(),
		repositories.NewUploadRepository(),
	)
}

func newTestReviewService() ReviewService {
	return NewReviewService(
		repositories.NewReviewRepository(),
		repositories.NewMarketRepository(),
		repositories.NewBusinessRepository(),
		repositories.NewUploadRepository(),
		nil,
	)
}

func newTestAttendanceService() AttendanceService {
	return NewAttendanceService(
		repositories.NewAttendanceRepository(),
		repositories.NewMarketRepository(),
		repositories.NewReviewRepository(),
	)
}

func newTestFavoriteService() FavoriteService {
	return NewFavoriteService(
		repositories.NewFavoriteRepository(),
		repositories.NewMarketRepository(),
		repositories.NewReviewRepository(),
	)
}

func newTestDashboardService() DashboardService {
	return NewDashboardService(
		repositories.NewBusinessRepository(),
		repositories.NewMarketRepository(),
		repositories.NewAttendanceRepository(),
		repositories.NewReviewRepository(),
		repositories.NewApplicationRepository(),
	)
}
