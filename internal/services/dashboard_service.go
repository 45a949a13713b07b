package services

import (
	"context"

	"gorm.io/gorm"

	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

// DashboardService aggregates per-user counts for the home screen.
type DashboardService interface {
	Stats(ctx context.Context, db *gorm.DB, actorID string) (*dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	businessRepo    repositories.BusinessRepository
	marketRepo      repositories.MarketRepository
	attendanceRepo  repositories.AttendanceRepository
	reviewRepo      repositories.ReviewRepository
	applicationRepo repositories.ApplicationRepository
}

func NewDashboardService(
	businessRepo repositories.BusinessRepository,
	marketRepo repositories.MarketRepository,
	attendanceRepo repositories.AttendanceRepository,
	reviewRepo repositories.ReviewRepository,
	applicationRepo repositories.ApplicationRepository,
) DashboardService {
	return &dashboardService{
		businessRepo:    businessRepo,
		marketRepo:      marketRepo,
		attendanceRepo:  attendanceRepo,
		reviewRepo:      reviewRepo,
		applicationRepo: applicationRepo,
	}
}

func (s *dashboardService) Stats(ctx context.Context, db *gorm.DB, actorID string) (*dto.DashboardStatsResponse, error) {
	businesses, err := s.businessRepo.FindByOwner(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	markets, err := s.marketRepo.FindByOrganizer(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	attendances, err := s.attendanceRepo.FindByUser(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	_, reviewTotal, err := s.reviewRepo.List(db, repositories.ReviewSearchCriteria{
		AuthorUserID: actorID,
		Limit:        1,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	businessIDs := make([]string, 0, len(businesses))
	for _, b := range businesses {
		businessIDs = append(businessIDs, b.ID)
	}

	stats := &dto.DashboardStatsResponse{
		BusinessCount:       int64(len(businesses)),
		MarketCount:         int64(len(markets)),
		AttendanceCount:     int64(len(attendances)),
		ReviewCount:         reviewTotal,
		ApplicationsByState: map[string]int64{},
	}

	if len(businessIDs) > 0 {
		counts, err := s.applicationRepo.CountByStatusForBusinesses(db, businessIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		for _, c := range counts {
			stats.ApplicationsByState[string(c.Status)] = c.Count
			stats.ApplicationTotal += c.Count
		}
	}

	return stats, nil
}
