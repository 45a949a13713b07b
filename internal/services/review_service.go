package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/identity"
	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/internal/storage"
	"markethub_backend/pkg/apperrors"
)

type ReviewService interface {
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.ReviewResponse, error)
	List(ctx context.Context, db *gorm.DB, criteria repositories.ReviewSearchCriteria) (*dto.ReviewListResponse, error)
	Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, id string) error
	Stats(ctx context.Context, db *gorm.DB, targetType, targetID string) (*dto.ReviewStatsResponse, error)
}

type reviewService struct {
	reviewRepo   repositories.ReviewRepository
	marketRepo   repositories.MarketRepository
	businessRepo repositories.BusinessRepository
	uploadRepo   repositories.UploadRepository
	directory    identity.Directory
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	marketRepo repositories.MarketRepository,
	businessRepo repositories.BusinessRepository,
	uploadRepo repositories.UploadRepository,
	directory identity.Directory,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		marketRepo:   marketRepo,
		businessRepo: businessRepo,
		uploadRepo:   uploadRepo,
		directory:    directory,
	}
}

const reviewDomain = "review"

func handleReviewError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(reviewDomain, "review not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

// targetExists checks that the reviewed entity is real before the insert.
func (s *reviewService) targetExists(db *gorm.DB, targetType models.TargetType, targetID string) error {
	var err error
	switch targetType {
	case models.TargetTypeMarket:
		_, err = s.marketRepo.FindByID(db, targetID)
	case models.TargetTypeBusiness:
		_, err = s.businessRepo.FindByID(db, targetID)
	default:
		return apperrors.ErrBadRequest(reviewDomain, "unknown target type")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(reviewDomain, "review target not found")
	}
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *reviewService) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	targetType := models.TargetType(req.TargetType)
	if err := s.targetExists(db, targetType, req.TargetID); err != nil {
		return nil, err
	}

	if existing, err := s.reviewRepo.FindByAuthorAndTarget(db, actorID, targetType, req.TargetID); err == nil && existing != nil {
		return nil, apperrors.ErrConflict(reviewDomain, "you have already reviewed this target")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	review := &models.Review{
		AuthorUserID: actorID,
		TargetType:   targetType,
		TargetID:     req.TargetID,
		Rating:       req.Rating,
		Title:        req.Title,
		Body:         req.Body,
		IsPublished:  true,
	}
	for _, img := range req.Images {
		review.Images = append(review.Images, models.ReviewImage{
			ImageURL:  img.ImageURL,
			Caption:   img.Caption,
			SortOrder: img.SortOrder,
		})
	}

	if err := s.reviewRepo.Create(db, review); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrConflict(reviewDomain, "you have already reviewed this target")
		}
		return nil, apperrors.InternalError(err)
	}

	consumed := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		consumed = append(consumed, img.ImageURL)
	}
	if err := s.uploadRepo.DeletePendingByURLs(db, consumed); err != nil {
		logger.CtxWarn(ctx, "failed to consume pending images", "error", err)
	}

	logger.CtxInfo(ctx, "review created",
		"review_id", review.ID, "target_type", review.TargetType, "target_id", review.TargetID)

	return s.toResponse(ctx, review), nil
}

func (s *reviewService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, id)
	if err != nil {
		return nil, handleReviewError(err)
	}
	return s.toResponse(ctx, review), nil
}

func (s *reviewService) List(ctx context.Context, db *gorm.DB, criteria repositories.ReviewSearchCriteria) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.List(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, s.toResponse(ctx, &reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews: responses,
		Total:   total,
		Limit:   criteria.Limit,
		Offset:  criteria.Offset,
	}, nil
}

func (s *reviewService) authoredReview(db *gorm.DB, actorID, id string) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(db, id)
	if err != nil {
		return nil, handleReviewError(err)
	}
	if review.AuthorUserID != actorID {
		return nil, apperrors.ErrForbidden(reviewDomain, "only the author can modify this review")
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.authoredReview(db, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = req.Rating
	}
	if req.Title != nil {
		review.Title = req.Title
	}
	if req.Body != nil {
		review.Body = req.Body
	}
	if req.IsPublished != nil {
		review.IsPublished = *req.IsPublished
	}

	images := review.Images
	review.Images = nil
	if err := s.reviewRepo.Update(db, review); err != nil {
		return nil, apperrors.InternalError(err)
	}
	review.Images = images

	return s.toResponse(ctx, review), nil
}

func (s *reviewService) Delete(ctx context.Context, db *gorm.DB, actorID, id string) error {
	review, err := s.authoredReview(db, actorID, id)
	if err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(db, review.ID); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "review deleted", "review_id", review.ID)
	return nil
}

func (s *reviewService) Stats(ctx context.Context, db *gorm.DB, targetType, targetID string) (*dto.ReviewStatsResponse, error) {
	tt := models.TargetType(targetType)
	if !tt.Valid() {
		return nil, apperrors.ErrBadRequest(reviewDomain, "unknown target type")
	}
	stats, err := s.reviewRepo.Stats(db, tt, targetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ReviewStatsResponse{
		TargetType:    targetType,
		TargetID:      targetID,
		ReviewCount:   stats.ReviewCount,
		AverageRating: stats.AverageRating,
	}, nil
}

// resolveAuthor is best effort, the review renders without it.
func (s *reviewService) resolveAuthor(ctx context.Context, userID string) *dto.ReviewAuthor {
	if s.directory == nil {
		return nil
	}
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := s.directory.GetUser(lookupCtx, userID)
	if err != nil {
		logger.CtxWarn(ctx, "author lookup failed", "user_id", userID, "error", err)
		return nil
	}
	return &dto.ReviewAuthor{
		UserID:    user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

func (s *reviewService) toResponse(ctx context.Context, review *models.Review) *dto.ReviewResponse {
	images := make([]dto.ImageResponse, 0, len(review.Images))
	for _, img := range review.Images {
		images = append(images, dto.ImageResponse{
			ID:        img.ID,
			ImageURL:  storage.PublicURL(img.ImageURL),
			Caption:   img.Caption,
			SortOrder: img.SortOrder,
		})
	}

	return &dto.ReviewResponse{
		ID:           review.ID,
		AuthorUserID: review.AuthorUserID,
		TargetType:   string(review.TargetType),
		TargetID:     review.TargetID,
		Rating:       review.Rating,
		Title:        review.Title,
		Body:         review.Body,
		IsPublished:  review.IsPublished,
		Images:       images,
		Author:       s.resolveAuthor(ctx, review.AuthorUserID),
		CreatedAt:    review.CreatedAt,
		UpdatedAt:    review.UpdatedAt,
	}
}
