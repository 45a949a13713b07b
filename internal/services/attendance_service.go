package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

type AttendanceService interface {
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.AttendanceResponse, error)
	List(ctx context.Context, db *gorm.DB, criteria repositories.AttendanceSearchCriteria) (*dto.AttendanceListResponse, error)
	Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, id string) error
	MyAttendances(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.AttendanceDetails, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	marketRepo     repositories.MarketRepository
	reviewRepo     repositories.ReviewRepository
}

func NewAttendanceService(
	attendanceRepo repositories.AttendanceRepository,
	marketRepo repositories.MarketRepository,
	reviewRepo repositories.ReviewRepository,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		marketRepo:     marketRepo,
		reviewRepo:     reviewRepo,
	}
}

const attendanceDomain = "attendance"

func handleAttendanceError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(attendanceDomain, "attendance not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

func (s *attendanceService) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error) {
	market, err := s.marketRepo.FindByID(db, req.MarketID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound(attendanceDomain, "market not found")
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if market.EndDate != nil && market.EndDate.Before(time.Now().UTC()) {
		return nil, apperrors.ErrInvalidOperation(attendanceDomain, "market has already ended")
	}

	if _, err := s.attendanceRepo.FindByMarketAndUser(db, market.ID, actorID); err == nil {
		return nil, apperrors.ErrConflict(attendanceDomain, "already attending this market")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	attendance := &models.MarketAttendance{
		MarketID:        market.ID,
		UserID:          actorID,
		Status:          "attending",
		CalendarEventID: req.CalendarEventID,
	}
	if req.Status != nil && *req.Status != "" {
		attendance.Status = *req.Status
	}

	if err := s.attendanceRepo.Create(db, attendance); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrConflict(attendanceDomain, "already attending this market")
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "attendance created", "attendance_id", attendance.ID, "market_id", market.ID)

	return attendanceToResponse(attendance), nil
}

func (s *attendanceService) ownedAttendance(db *gorm.DB, actorID, id string) (*models.MarketAttendance, error) {
	attendance, err := s.attendanceRepo.FindByID(db, id)
	if err != nil {
		return nil, handleAttendanceError(err)
	}
	if attendance.UserID != actorID {
		return nil, apperrors.ErrForbidden(attendanceDomain, "this attendance belongs to another user")
	}
	return attendance, nil
}

func (s *attendanceService) GetByID(ctx context.Context, db *gorm.DB, actorID, id string) (*dto.AttendanceResponse, error) {
	attendance, err := s.ownedAttendance(db, actorID, id)
	if err != nil {
		return nil, err
	}
	return attendanceToResponse(attendance), nil
}

func (s *attendanceService) List(ctx context.Context, db *gorm.DB, criteria repositories.AttendanceSearchCriteria) (*dto.AttendanceListResponse, error) {
	attendances, total, err := s.attendanceRepo.List(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.AttendanceResponse, 0, len(attendances))
	for i := range attendances {
		responses = append(responses, attendanceToResponse(&attendances[i]))
	}

	return &dto.AttendanceListResponse{
		Attendances: responses,
		Total:       total,
		Limit:       criteria.Limit,
		Offset:      criteria.Offset,
	}, nil
}

func (s *attendanceService) Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error) {
	attendance, err := s.ownedAttendance(db, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		attendance.Status = *req.Status
	}
	if req.CalendarEventID != nil {
		attendance.CalendarEventID = req.CalendarEventID
	}

	if err := s.attendanceRepo.Update(db, attendance); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return attendanceToResponse(attendance), nil
}

func (s *attendanceService) Delete(ctx context.Context, db *gorm.DB, actorID, id string) error {
	attendance, err := s.ownedAttendance(db, actorID, id)
	if err != nil {
		return err
	}
	if err := s.attendanceRepo.Delete(db, attendance.ID); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "attendance deleted", "attendance_id", attendance.ID)
	return nil
}

// MyAttendances returns the user's attendances enriched with market cards.
func (s *attendanceService) MyAttendances(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.AttendanceDetails, error) {
	attendances, err := s.attendanceRepo.FindByUser(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	marketIDs := make([]string, 0, len(attendances))
	seen := map[string]bool{}
	for _, a := range attendances {
		if !seen[a.MarketID] {
			seen[a.MarketID] = true
			marketIDs = append(marketIDs, a.MarketID)
		}
	}

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

	marketsByID := make(map[string]*models.Market, len(markets))
	for i := range markets {
		marketsByID[markets[i].ID] = &markets[i]
	}
	imagesByMarket := map[string][]models.MarketImage{}
	for _, img := range images {
		imagesByMarket[img.MarketID] = append(imagesByMarket[img.MarketID], img)
	}

	details := make([]*dto.AttendanceDetails, 0, len(attendances))
	for i := range attendances {
		a := &attendances[i]
		d := &dto.AttendanceDetails{AttendanceResponse: *attendanceToResponse(a)}
		if market, ok := marketsByID[a.MarketID]; ok {
			d.Market = marketToCard(market, imagesByMarket[market.ID], stats[market.ID])
		}
		details = append(details, d)
	}
	return details, nil
}

func attendanceToResponse(attendance *models.MarketAttendance) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		ID:              attendance.ID,
		MarketID:        attendance.MarketID,
		UserID:          attendance.UserID,
		Status:          attendance.Status,
		CalendarEventID: attendance.CalendarEventID,
		CreatedAt:       attendance.CreatedAt,
	}
}
