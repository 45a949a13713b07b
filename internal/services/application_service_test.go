package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"markethub_backend/internal/models"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

func TestApplicationCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	emails := &emailRecorder{}
	svc := newTestApplicationService(emails)

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	resp, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:    market.ID,
		BusinessID:  business.ID,
		NotesForOrg: ptr("we sell soy candles"),
	})
	require.NoError(t, err)
	require.Equal(t, string(models.ApplicationStatusApplied), resp.Status)
	require.Equal(t, string(models.PaymentStatusPending), resp.PaymentStatus)
	require.NotNil(t, resp.AppliedAt)
	require.Equal(t, []string{"created"}, emails.sent)
}

func TestApplicationCreateChecksOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	market := seedMarket(t, db, uuid.NewString())
	business := seedBusiness(t, db, uuid.NewString())

	_, err := svc.Create(ctx, db, uuid.NewString(), &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	requireAppError(t, err, http.StatusForbidden)
}

func TestApplicationCreateUnknownParties(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	vendor := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())
	business := seedBusiness(t, db, vendor)

	_, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   uuid.NewString(),
		BusinessID: business.ID,
	})
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: uuid.NewString(),
	})
	requireAppError(t, err, http.StatusNotFound)
}

func TestApplicationCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	vendor := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString())
	business := seedBusiness(t, db, vendor)

	req := &dto.CreateApplicationRequest{MarketID: market.ID, BusinessID: business.ID}
	_, err := svc.Create(ctx, db, vendor, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, db, vendor, req)
	appErr := requireAppError(t, err, http.StatusConflict)
	require.Equal(t, "application", appErr.Domain)

	// The unique index backstops callers that race past the pre-flight check
	dupErr := db.Create(&models.Application{
		MarketID:   market.ID,
		BusinessID: business.ID,
		Status:     models.ApplicationStatusApplied,
	}).Error
	require.Error(t, dupErr)
	require.True(t, apperrors.IsUniqueViolation(dupErr))
}

func TestApplicationCreateValidatesFormAnswers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	vendor := uuid.NewString()
	market := seedMarket(t, db, uuid.NewString(), func(m *models.Market) {
		m.ApplicationForm = datatypes.JSON(`{"questions":[
			{"id":"booth_size","type":"single_choice","required":true,"options":["small","large"]}
		]}`)
	})
	business := seedBusiness(t, db, vendor)

	// Required answer missing
	_, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	appErr := requireAppError(t, err, http.StatusBadRequest)
	require.Contains(t, appErr.Message, "booth_size")

	// Answer outside the options
	_, err = svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
		Answers:    datatypes.JSON(`{"booth_size":"gigantic"}`),
	})
	requireAppError(t, err, http.StatusBadRequest)

	// Valid answer goes through
	resp, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
		Answers:    datatypes.JSON(`{"booth_size":"small"}`),
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"booth_size":"small"}`, string(resp.Answers))
}

func TestApplicationAccept(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	emails := &emailRecorder{}
	svc := newTestApplicationService(emails)

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	// Only the organizer may accept
	_, err = svc.Accept(ctx, db, vendor, created.ID)
	requireAppError(t, err, http.StatusForbidden)

	accepted, err := svc.Accept(ctx, db, organizer, created.ID)
	require.NoError(t, err)
	require.Equal(t, string(models.ApplicationStatusAccepted), accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	require.Contains(t, emails.sent, "accepted")

	// Accepting an accepted application is a no-go
	_, err = svc.Accept(ctx, db, organizer, created.ID)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestApplicationAcceptedAtStampedOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	first, err := svc.Accept(ctx, db, organizer, created.ID)
	require.NoError(t, err)
	require.NotNil(t, first.AcceptedAt)

	// Pin the acceptance time so a re-stamp would be obvious
	original := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Application{}).
		Where("id = ?", created.ID).
		Update("accepted_at", original).Error)

	rejected, err := svc.Reject(ctx, db, organizer, created.ID, &dto.RejectApplicationRequest{
		RejectionReason: ptr("booth plan changed"),
	})
	require.NoError(t, err)
	require.NotNil(t, rejected.DeclinedAt)
	require.Equal(t, "booth plan changed", *rejected.RejectionReason)

	// Re-accepting keeps the original acceptance time and drops the reason
	second, err := svc.Accept(ctx, db, organizer, created.ID)
	require.NoError(t, err)
	require.WithinDuration(t, original, *second.AcceptedAt, time.Second)
	require.Nil(t, second.RejectionReason)
}

func TestStampStatusNeverOverwrites(t *testing.T) {
	app := &models.Application{}
	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	stampStatus(app, models.ApplicationStatusAccepted, t1)
	stampStatus(app, models.ApplicationStatusDeclined, t2)
	stampStatus(app, models.ApplicationStatusAccepted, t3)

	require.Equal(t, models.ApplicationStatusAccepted, app.Status)
	require.Equal(t, t1, *app.AcceptedAt)
	require.Equal(t, t2, *app.DeclinedAt)
}

func TestApplicationRejectTwice(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, db, organizer, created.ID, nil)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, db, organizer, created.ID, nil)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestApplicationConfirm(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	emails := &emailRecorder{}
	svc := newTestApplicationService(emails)

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	// Confirm is only reachable from accepted
	_, err = svc.Confirm(ctx, db, vendor, created.ID)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	require.Contains(t, appErr.Message, "applied")

	_, err = svc.Accept(ctx, db, organizer, created.ID)
	require.NoError(t, err)

	// And only by the business owner
	_, err = svc.Confirm(ctx, db, organizer, created.ID)
	requireAppError(t, err, http.StatusForbidden)

	confirmed, err := svc.Confirm(ctx, db, vendor, created.ID)
	require.NoError(t, err)
	require.Equal(t, string(models.ApplicationStatusConfirmed), confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	_, err = svc.Confirm(ctx, db, vendor, created.ID)
	requireAppError(t, err, http.StatusBadRequest)

	require.Equal(t, []string{"created", "accepted", "confirmed"}, emails.sent)
}

func TestApplicationUpdatePaymentRequiresAccepted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	emails := &emailRecorder{}
	svc := newTestApplicationService(emails)

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	req := &dto.UpdatePaymentRequest{
		PaymentMethod: ptr(string(models.PaymentMethodBankTransfer)),
		PaymentStatus: ptr(string(models.PaymentStatusPaid)),
	}

	_, err = svc.UpdatePayment(ctx, db, vendor, created.ID, req)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Accept(ctx, db, organizer, created.ID)
	require.NoError(t, err)

	// The organizer cannot touch the vendor's payment details
	_, err = svc.UpdatePayment(ctx, db, organizer, created.ID, req)
	requireAppError(t, err, http.StatusForbidden)

	updated, err := svc.UpdatePayment(ctx, db, vendor, created.ID, req)
	require.NoError(t, err)
	require.Equal(t, string(models.PaymentMethodBankTransfer), *updated.PaymentMethod)
	require.Equal(t, string(models.PaymentStatusPaid), updated.PaymentStatus)
	require.Contains(t, emails.sent, "payment_updated")
}

func TestApplicationUpdateReportsChangedFields(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	emails := &emailRecorder{}
	svc := newTestApplicationService(emails)

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, db, vendor, created.ID, &dto.UpdateApplicationRequest{
		NotesForOrg:   ptr("bringing a bigger tent"),
		PaymentStatus: ptr(string(models.PaymentStatusPaid)),
	})
	require.NoError(t, err)
	require.Equal(t, "bringing a bigger tent", *updated.NotesForOrg)
	require.Len(t, emails.changed, 2)

	// A no-op patch still notifies, with nothing changed
	_, err = svc.Update(ctx, db, vendor, created.ID, &dto.UpdateApplicationRequest{
		NotesForOrg: ptr("bringing a bigger tent"),
	})
	require.NoError(t, err)
	require.Empty(t, emails.changed)

	// Only the business owner may patch
	_, err = svc.Update(ctx, db, organizer, created.ID, &dto.UpdateApplicationRequest{})
	requireAppError(t, err, http.StatusForbidden)
}

func TestApplicationGetByIDAccess(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, db, vendor, created.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, db, organizer, created.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, db, uuid.NewString(), created.ID)
	requireAppError(t, err, http.StatusForbidden)

	_, err = svc.GetByID(ctx, db, vendor, uuid.NewString())
	requireAppError(t, err, http.StatusNotFound)
}

func TestApplicationDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	created, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	// Withdrawal is the vendor's call, not the organizer's
	err = svc.Delete(ctx, db, organizer, created.ID)
	requireAppError(t, err, http.StatusForbidden)

	require.NoError(t, svc.Delete(ctx, db, vendor, created.ID))

	_, err = svc.GetByID(ctx, db, vendor, created.ID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestApplicationDetailsViews(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestApplicationService(&emailRecorder{})

	organizer := uuid.NewString()
	vendor := uuid.NewString()
	market := seedMarket(t, db, organizer)
	business := seedBusiness(t, db, vendor)

	_, err := svc.Create(ctx, db, vendor, &dto.CreateApplicationRequest{
		MarketID:   market.ID,
		BusinessID: business.ID,
	})
	require.NoError(t, err)

	mine, err := svc.MyApplicationsDetails(ctx, db, vendor, "", 20, 0)
	require.NoError(t, err)
	require.Len(t, mine.Applications, 1)
	require.NotNil(t, mine.Applications[0].Market)
	require.Equal(t, market.MarketName, mine.Applications[0].Market.MarketName)

	received, err := svc.MarketApplicationsDetails(ctx, db, organizer, "", 20, 0)
	require.NoError(t, err)
	require.Len(t, received.Applications, 1)
	require.NotNil(t, received.Applications[0].Business)
	require.Equal(t, business.ShopName, received.Applications[0].Business.ShopName)

	// Status filter narrows the vendor view
	filtered, err := svc.MyApplicationsDetails(ctx, db, vendor, string(models.ApplicationStatusAccepted), 20, 0)
	require.NoError(t, err)
	require.Empty(t, filtered.Applications)
}
