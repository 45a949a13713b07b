package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

type ApplicationService interface {
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.ApplicationResponse, error)
	Search(ctx context.Context, db *gorm.DB, actorID string, query *dto.ApplicationSearchQuery) (*dto.ApplicationListResponse, error)
	ListForMarket(ctx context.Context, db *gorm.DB, actorID, marketID string) ([]*dto.ApplicationResponse, error)
	MyApplications(ctx context.Context, db *gorm.DB, actorID, status string, limit, offset int) (*dto.ApplicationListResponse, error)
	MyApplicationsDetails(ctx context.Context, db *gorm.DB, actorID, status string, limit, offset int) (*dto.ApplicationDetailsListResponse, error)
	MarketApplicationsDetails(ctx context.Context, db *gorm.DB, actorID, status string, limit, offset int) (*dto.ApplicationDetailsListResponse, error)
	Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, id string) error
	Accept(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.ApplicationResponse, error)
	Reject(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.RejectApplicationRequest) (*dto.ApplicationResponse, error)
	UpdatePayment(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdatePaymentRequest) (*dto.ApplicationResponse, error)
	Confirm(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	marketRepo      repositories.MarketRepository
	businessRepo    repositories.BusinessRepository
	reviewRepo      repositories.ReviewRepository
	emails          ApplicationEmailService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	marketRepo repositories.MarketRepository,
	businessRepo repositories.BusinessRepository,
	reviewRepo repositories.ReviewRepository,
	emails ApplicationEmailService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		marketRepo:      marketRepo,
		businessRepo:    businessRepo,
		reviewRepo:      reviewRepo,
		emails:          emails,
	}
}

const applicationDomain = "application"

func handleApplicationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(applicationDomain, "application not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

// stampStatus sets the status and its lifecycle timestamp.
// Timestamps are stamped once: re-entering a status never overwrites.
func stampStatus(app *models.Application, status models.ApplicationStatus, now time.Time) {
	app.Status = status
	switch status {
	case models.ApplicationStatusApplied:
		if app.AppliedAt == nil {
			app.AppliedAt = &now
		}
	case models.ApplicationStatusAccepted:
		if app.AcceptedAt == nil {
			app.AcceptedAt = &now
		}
	case models.ApplicationStatusDeclined:
		if app.DeclinedAt == nil {
			app.DeclinedAt = &now
		}
	case models.ApplicationStatusConfirmed:
		if app.ConfirmedAt == nil {
			app.ConfirmedAt = &now
		}
	}
}

func (s *applicationService) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	market, err := s.marketRepo.FindByID(db, req.MarketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(applicationDomain, "market not found")
		}
		return nil, apperrors.InternalError(err)
	}

	business, err := s.businessRepo.FindByID(db, req.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(applicationDomain, "business not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if business.OwnerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "you can only apply on behalf of your own business")
	}

	// Pre-flight duplicate check. The unique index still backstops the race.
	if _, err := s.applicationRepo.FindByMarketAndBusiness(db, req.MarketID, req.BusinessID); err == nil {
		return nil, apperrors.ErrConflict(applicationDomain, "this business has already applied to this market")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	form := models.ParseApplicationForm(market.ApplicationForm)
	if err := form.ValidateAnswers(req.Answers); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app := &models.Application{
		MarketID:      req.MarketID,
		BusinessID:    req.BusinessID,
		Status:        models.ApplicationStatusApplied,
		AppliedAt:     &now,
		NotesForOrg:   req.NotesForOrg,
		PaymentStatus: models.PaymentStatusPending,
		Answers:       req.Answers,
	}

	if err := s.applicationRepo.Create(db, app); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyExists(err, applicationDomain, "this business has already applied to this market")
		}
		return nil, apperrors.InternalError(err)
	}

	s.emails.SendCreated(ctx, market, business, app)
	logger.CtxInfo(ctx, "application created",
		"application_id", app.ID, "market_id", app.MarketID, "business_id", app.BusinessID)

	return applicationToResponse(app), nil
}

// loadApplicationParties fetches the application with its market and business
func (s *applicationService) loadApplicationParties(db *gorm.DB, id string) (*models.Application, *models.Market, *models.Business, error) {
	app, err := s.applicationRepo.FindByID(db, id)
	if err != nil {
		return nil, nil, nil, handleApplicationError(err)
	}
	market, err := s.marketRepo.FindByID(db, app.MarketID)
	if err != nil {
		return nil, nil, nil, apperrors.InternalError(err)
	}
	business, err := s.businessRepo.FindByID(db, app.BusinessID)
	if err != nil {
		return nil, nil, nil, apperrors.InternalError(err)
	}
	return app, market, business, nil
}

func (s *applicationService) GetByID(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.ApplicationResponse, error) {
	app, market, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return nil, err
	}
	if business.OwnerUserID != actorID && market.OrganizerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "no access to this application")
	}
	return applicationToResponse(app), nil
}

func (s *applicationService) Search(ctx context.Context, db *gorm.DB, actorID string, query *dto.ApplicationSearchQuery) (*dto.ApplicationListResponse, error) {
	if query.MarketID == "" && query.BusinessID == "" {
		return nil, apperrors.ErrBadRequest(applicationDomain, "market_id or business_id is required")
	}

	// The caller must own whichever side they are searching by
	if query.MarketID != "" {
		market, err := s.marketRepo.FindByID(db, query.MarketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound(applicationDomain, "market not found")
			}
			return nil, apperrors.InternalError(err)
		}
		if market.OrganizerUserID != actorID {
			return nil, apperrors.ErrForbidden(applicationDomain, "no access to this market's applications")
		}
	}
	if query.BusinessID != "" {
		business, err := s.businessRepo.FindByID(db, query.BusinessID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound(applicationDomain, "business not found")
			}
			return nil, apperrors.InternalError(err)
		}
		if business.OwnerUserID != actorID {
			return nil, apperrors.ErrForbidden(applicationDomain, "no access to this business's applications")
		}
	}

	apps, total, err := s.applicationRepo.Search(db, repositories.ApplicationSearchCriteria{
		MarketID:   query.MarketID,
		BusinessID: query.BusinessID,
		Status:     query.Status,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ApplicationListResponse{
		Applications: applicationsToResponses(apps),
		Total:        total,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}, nil
}

func (s *applicationService) ListForMarket(ctx context.Context, db *gorm.DB, actorID, marketID string) ([]*dto.ApplicationResponse, error) {
	market, err := s.marketRepo.FindByID(db, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(applicationDomain, "market not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if market.OrganizerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "no access to this market's applications")
	}

	apps, err := s.applicationRepo.FindByMarket(db, marketID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return applicationsToResponses(apps), nil
}

func (s *applicationService) MyApplications(ctx context.Context, db *gorm.DB, actorID, status string, limit, offset int) (*dto.ApplicationListResponse, error) {
	businessIDs, err := s.actorBusinessIDs(db, actorID)
	if err != nil {
		return nil, err
	}

	apps, total, err := s.applicationRepo.FindByBusinessIDs(db, businessIDs, status, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ApplicationListResponse{
		Applications: applicationsToResponses(apps),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func (s *applicationService) actorBusinessIDs(db *gorm.DB, actorID string) ([]string, error) {
	businesses, err := s.businessRepo.FindByOwner(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	ids := make([]string, 0, len(businesses))
	for _, b := range businesses {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

// MyApplicationsDetails is the vendor view: every application of the
// caller's businesses, each with its market card. Related entities are
// loaded in one batch per type and assembled through maps.
func (s *applicationService) MyApplicationsDetails(ctx context.Context, db *gorm.DB, actorID, status string, limit, offset int) (*dto.ApplicationDetailsListResponse, error) {
	businessIDs, err := s.actorBusinessIDs(db, actorID)
	if err != nil {
		return nil, err
	}

	apps, total, err := s.applicationRepo.FindByBusinessIDs(db, businessIDs, status, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	details, err := s.assembleDetails(db, apps, true, false)
	if err != nil {
		return nil, err
	}

	return &dto.ApplicationDetailsListResponse{
		Applications: details,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

// MarketApplicationsDetails is the organizer view: every application to
// the caller's markets, each with its business card
func (s *applicationService) MarketApplicationsDetails(ctx context.Context, db *gorm.DB, actorID, status string, limit, offset int) (*dto.ApplicationDetailsListResponse, error) {
	markets, err := s.marketRepo.FindByOrganizer(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	marketIDs := make([]string, 0, len(markets))
	for _, m := range markets {
		marketIDs = append(marketIDs, m.ID)
	}

	apps, total, err := s.applicationRepo.FindByMarketIDs(db, marketIDs, status, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	details, err := s.assembleDetails(db, apps, true, true)
	if err != nil {
		return nil, err
	}

	return &dto.ApplicationDetailsListResponse{
		Applications: details,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func (s *applicationService) assembleDetails(db *gorm.DB, apps []models.Application, withMarket, withBusiness bool) ([]*dto.ApplicationDetails, error) {
	marketIDs := make([]string, 0, len(apps))
	businessIDs := make([]string, 0, len(apps))
	seenMarkets := map[string]bool{}
	seenBusinesses := map[string]bool{}
	for _, app := range apps {
		if !seenMarkets[app.MarketID] {
			seenMarkets[app.MarketID] = true
			marketIDs = append(marketIDs, app.MarketID)
		}
		if !seenBusinesses[app.BusinessID] {
			seenBusinesses[app.BusinessID] = true
			businessIDs = append(businessIDs, app.BusinessID)
		}
	}

	marketCards := map[string]*dto.MarketCard{}
	if withMarket {
		markets, err := s.marketRepo.FindByIDs(db, marketIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		images, err := s.marketRepo.FindImagesByMarkets(db, marketIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		stats, err := s.reviewRepo.BatchStats(db, models.TargetTypeMarket, marketIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		imagesByMarket := map[string][]models.MarketImage{}
		for _, img := range images {
			imagesByMarket[img.MarketID] = append(imagesByMarket[img.MarketID], img)
		}
		for i := range markets {
			m := &markets[i]
			marketCards[m.ID] = marketToCard(m, imagesByMarket[m.ID], stats[m.ID])
		}
	}

	businessCards := map[string]*dto.BusinessCard{}
	if withBusiness {
		businesses, err := s.businessRepo.FindByIDs(db, businessIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		images, err := s.businessRepo.FindImagesByBusinesses(db, businessIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		stats, err := s.reviewRepo.BatchStats(db, models.TargetTypeBusiness, businessIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		imagesByBusiness := map[string][]models.BusinessImage{}
		for _, img := range images {
			imagesByBusiness[img.BusinessID] = append(imagesByBusiness[img.BusinessID], img)
		}
		for i := range businesses {
			b := &businesses[i]
			businessCards[b.ID] = businessToCard(b, imagesByBusiness[b.ID], stats[b.ID])
		}
	}

	details := make([]*dto.ApplicationDetails, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		detail := &dto.ApplicationDetails{ApplicationResponse: *applicationToResponse(app)}
		if withMarket {
			detail.Market = marketCards[app.MarketID]
		}
		if withBusiness {
			detail.Business = businessCards[app.BusinessID]
		}
		details = append(details, detail)
	}
	return details, nil
}

// Update is a loose patch: status changes route through timestamp
// stamping but the transition graph is not enforced here. A field diff
// drives the "updated" notification.
func (s *applicationService) Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, market, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return nil, err
	}
	if business.OwnerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "only the business owner can update the application")
	}

	var changedFields []string
	now := time.Now().UTC()

	if req.Status != nil && models.ApplicationStatus(*req.Status) != app.Status {
		stampStatus(app, models.ApplicationStatus(*req.Status), now)
		changedFields = append(changedFields, fmt.Sprintf("status: %s", *req.Status))
	}
	if req.PaymentMethod != nil {
		method := models.PaymentMethod(*req.PaymentMethod)
		if app.PaymentMethod == nil || *app.PaymentMethod != method {
			app.PaymentMethod = &method
			changedFields = append(changedFields, fmt.Sprintf("payment method: %s", method))
		}
	}
	if req.PaymentStatus != nil && models.PaymentStatus(*req.PaymentStatus) != app.PaymentStatus {
		app.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
		changedFields = append(changedFields, fmt.Sprintf("payment status: %s", app.PaymentStatus))
	}
	if req.NotesForOrg != nil {
		if app.NotesForOrg == nil || *app.NotesForOrg != *req.NotesForOrg {
			app.NotesForOrg = req.NotesForOrg
			changedFields = append(changedFields, "notes updated")
		}
	}
	if len(req.Answers) > 0 {
		form := models.ParseApplicationForm(market.ApplicationForm)
		if err := form.ValidateAnswers(req.Answers); err != nil {
			return nil, err
		}
		app.Answers = req.Answers
		changedFields = append(changedFields, "answers updated")
	}

	if err := s.applicationRepo.Update(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emails.SendUpdated(ctx, market, business, app, changedFields)

	return applicationToResponse(app), nil
}

func (s *applicationService) Delete(ctx context.Context, db *gorm.DB, actorID, id string) error {
	app, _, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return err
	}
	if business.OwnerUserID != actorID {
		return apperrors.ErrForbidden(applicationDomain, "only the business owner can withdraw the application")
	}
	if err := s.applicationRepo.Delete(db, app.ID); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "application withdrawn", "application_id", app.ID)
	return nil
}

func (s *applicationService) Accept(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.ApplicationResponse, error) {
	app, market, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return nil, err
	}
	if market.OrganizerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "only the market organizer can accept applications")
	}
	if app.Status == models.ApplicationStatusAccepted {
		return nil, apperrors.ErrInvalidStatus(applicationDomain, "application is already accepted")
	}

	stampStatus(app, models.ApplicationStatusAccepted, time.Now().UTC())
	app.RejectionReason = nil

	if err := s.applicationRepo.Update(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emails.SendAccepted(ctx, market, business, app)
	logger.CtxInfo(ctx, "application accepted", "application_id", app.ID)

	return applicationToResponse(app), nil
}

func (s *applicationService) Reject(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.RejectApplicationRequest) (*dto.ApplicationResponse, error) {
	app, market, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return nil, err
	}
	if market.OrganizerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "only the market organizer can reject applications")
	}
	if app.Status == models.ApplicationStatusDeclined {
		return nil, apperrors.ErrInvalidStatus(applicationDomain, "application is already declined")
	}

	stampStatus(app, models.ApplicationStatusDeclined, time.Now().UTC())
	if req != nil {
		app.RejectionReason = req.RejectionReason
	}

	if err := s.applicationRepo.Update(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emails.SendDeclined(ctx, market, business, app)
	logger.CtxInfo(ctx, "application declined", "application_id", app.ID)

	return applicationToResponse(app), nil
}

func (s *applicationService) UpdatePayment(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdatePaymentRequest) (*dto.ApplicationResponse, error) {
	app, market, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return nil, err
	}
	if business.OwnerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "only the business owner can update payment details")
	}
	if app.Status != models.ApplicationStatusAccepted {
		return nil, apperrors.ErrInvalidOperation(applicationDomain, "payment can only be updated for accepted applications")
	}

	if req.PaymentMethod != nil {
		method := models.PaymentMethod(*req.PaymentMethod)
		app.PaymentMethod = &method
	}
	if req.PaymentStatus != nil {
		app.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
	}

	if err := s.applicationRepo.Update(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emails.SendPaymentUpdated(ctx, market, business, app)

	return applicationToResponse(app), nil
}

// Confirm locks in an accepted spot. Only the business owner may confirm,
// and only from the accepted status exactly.
func (s *applicationService) Confirm(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.ApplicationResponse, error) {
	app, market, business, err := s.loadApplicationParties(db, id)
	if err != nil {
		return nil, err
	}
	if business.OwnerUserID != actorID {
		return nil, apperrors.ErrForbidden(applicationDomain, "only the business owner can confirm the spot")
	}
	if app.Status != models.ApplicationStatusAccepted {
		return nil, apperrors.ErrInvalidStatus(applicationDomain,
			fmt.Sprintf("only accepted applications can be confirmed, current status is %s", app.Status))
	}

	stampStatus(app, models.ApplicationStatusConfirmed, time.Now().UTC())

	if err := s.applicationRepo.Update(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emails.SendConfirmed(ctx, market, business, app)
	logger.CtxInfo(ctx, "application confirmed", "application_id", app.ID)

	return applicationToResponse(app), nil
}

// --- projections ---

func applicationToResponse(app *models.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:              app.ID,
		MarketID:        app.MarketID,
		BusinessID:      app.BusinessID,
		Status:          string(app.Status),
		AppliedAt:       app.AppliedAt,
		ViewedAt:        app.ViewedAt,
		AcceptedAt:      app.AcceptedAt,
		ConfirmedAt:     app.ConfirmedAt,
		DeclinedAt:      app.DeclinedAt,
		NotesForOrg:     app.NotesForOrg,
		RejectionReason: app.RejectionReason,
		PaymentStatus:   string(app.PaymentStatus),
		Answers:         app.Answers,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
	if app.PaymentMethod != nil {
		method := string(*app.PaymentMethod)
		resp.PaymentMethod = &method
	}
	return resp
}

func applicationsToResponses(apps []models.Application) []*dto.ApplicationResponse {
	responses := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, applicationToResponse(&apps[i]))
	}
	return responses
}
