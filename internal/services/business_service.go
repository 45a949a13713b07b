package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/internal/storage"
	"markethub_backend/pkg/apperrors"
)

type BusinessService interface {
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateBusinessRequest) (*dto.BusinessResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.BusinessResponse, error)
	Search(ctx context.Context, db *gorm.DB, criteria repositories.BusinessSearchCriteria) (*dto.BusinessListResponse, error)
	MyBusinesses(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.BusinessResponse, error)
	Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateBusinessRequest) (*dto.BusinessResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, id string) error

	AddImage(ctx context.Context, db *gorm.DB, actorID, businessID string, req *dto.AddImageRequest) (*dto.ImageResponse, error)
	ListImages(ctx context.Context, db *gorm.DB, businessID string) ([]dto.ImageResponse, error)
	UpdateImage(ctx context.Context, db *gorm.DB, actorID, businessID, imageID string, req *dto.UpdateImageRequest) (*dto.ImageResponse, error)
	DeleteImage(ctx context.Context, db *gorm.DB, actorID, businessID, imageID string) error
}

type businessService struct {
	businessRepo repositories.BusinessRepository
	reviewRepo   repositories.ReviewRepository
	uploadRepo   repositories.UploadRepository
}

func NewBusinessService(
	businessRepo repositories.BusinessRepository,
	reviewRepo repositories.ReviewRepository,
	uploadRepo repositories.UploadRepository,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		reviewRepo:   reviewRepo,
		uploadRepo:   uploadRepo,
	}
}

const businessDomain = "business"

func handleBusinessError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(businessDomain, "business not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

func (s *businessService) consumePendingImages(ctx context.Context, db *gorm.DB, urls []string) {
	if err := s.uploadRepo.DeletePendingByURLs(db, urls); err != nil {
		logger.CtxWarn(ctx, "failed to consume pending images", "error", err)
	}
}

func (s *businessService) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	business := &models.Business{
		OwnerUserID:       actorID,
		ShopName:          req.ShopName,
		Email:             req.Email,
		Phone:             req.Phone,
		WebsiteURL:        req.WebsiteURL,
		InstagramHandle:   req.InstagramHandle,
		TiktokHandle:      req.TiktokHandle,
		TwitterHandle:     req.TwitterHandle,
		FacebookHandle:    req.FacebookHandle,
		Category:          req.Category,
		AveragePriceRange: req.AveragePriceRange,
		Description:       req.Description,
		LogoURL:           req.LogoURL,
	}

	for _, img := range req.Images {
		business.Images = append(business.Images, models.BusinessImage{
			ImageURL:  img.ImageURL,
			Caption:   img.Caption,
			SortOrder: img.SortOrder,
		})
	}

	if err := s.businessRepo.Create(db, business); err != nil {
		return nil, apperrors.InternalError(err)
	}

	consumed := make([]string, 0, len(req.Images)+1)
	for _, img := range req.Images {
		consumed = append(consumed, img.ImageURL)
	}
	if req.LogoURL != nil {
		consumed = append(consumed, *req.LogoURL)
	}
	s.consumePendingImages(ctx, db, consumed)

	logger.CtxInfo(ctx, "business created", "business_id", business.ID, "shop_name", business.ShopName)

	return s.GetByID(ctx, db, business.ID)
}

func (s *businessService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.BusinessResponse, error) {
	business, err := s.businessRepo.FindByID(db, id)
	if err != nil {
		return nil, handleBusinessError(err)
	}

	stats, err := s.reviewRepo.Stats(db, models.TargetTypeBusiness, business.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return businessToResponse(business, business.Images, stats), nil
}

func (s *businessService) Search(ctx context.Context, db *gorm.DB, criteria repositories.BusinessSearchCriteria) (*dto.BusinessListResponse, error) {
	businesses, total, err := s.businessRepo.Search(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses, err := s.toResponses(db, businesses)
	if err != nil {
		return nil, err
	}

	return &dto.BusinessListResponse{
		Businesses: responses,
		Total:      total,
		Limit:      criteria.Limit,
		Offset:     criteria.Offset,
	}, nil
}

func (s *businessService) toResponses(db *gorm.DB, businesses []models.Business) ([]*dto.BusinessResponse, error) {
	ids := make([]string, 0, len(businesses))
	for _, b := range businesses {
		ids = append(ids, b.ID)
	}

	images, err := s.businessRepo.FindImagesByBusinesses(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	imagesByBusiness := map[string][]models.BusinessImage{}
	for _, img := range images {
		imagesByBusiness[img.BusinessID] = append(imagesByBusiness[img.BusinessID], img)
	}

	stats, err := s.reviewRepo.BatchStats(db, models.TargetTypeBusiness, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.BusinessResponse, 0, len(businesses))
	for i := range businesses {
		b := &businesses[i]
		responses = append(responses, businessToResponse(b, imagesByBusiness[b.ID], stats[b.ID]))
	}
	return responses, nil
}

func (s *businessService) MyBusinesses(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.BusinessResponse, error) {
	businesses, err := s.businessRepo.FindByOwner(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.toResponses(db, businesses)
}

func (s *businessService) ownedBusiness(db *gorm.DB, actorID, id string) (*models.Business, error) {
	business, err := s.businessRepo.FindByID(db, id)
	if err != nil {
		return nil, handleBusinessError(err)
	}
	if business.OwnerUserID != actorID {
		return nil, apperrors.ErrForbidden(businessDomain, "only the owner can modify this business")
	}
	return business, nil
}

func (s *businessService) Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	business, err := s.ownedBusiness(db, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.ShopName != nil {
		business.ShopName = *req.ShopName
	}
	if req.Email != nil {
		business.Email = req.Email
	}
	if req.Phone != nil {
		business.Phone = req.Phone
	}
	if req.WebsiteURL != nil {
		business.WebsiteURL = req.WebsiteURL
	}
	if req.InstagramHandle != nil {
		business.InstagramHandle = req.InstagramHandle
	}
	if req.TiktokHandle != nil {
		business.TiktokHandle = req.TiktokHandle
	}
	if req.TwitterHandle != nil {
		business.TwitterHandle = req.TwitterHandle
	}
	if req.FacebookHandle != nil {
		business.FacebookHandle = req.FacebookHandle
	}
	if req.Category != nil {
		business.Category = req.Category
	}
	if req.AveragePriceRange != nil {
		business.AveragePriceRange = req.AveragePriceRange
	}
	if req.Description != nil {
		business.Description = req.Description
	}
	if req.LogoURL != nil {
		business.LogoURL = req.LogoURL
	}

	business.Images = nil // gallery is managed explicitly below
	if err := s.businessRepo.Update(db, business); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if req.Images != nil {
		replacement := make([]models.BusinessImage, 0, len(*req.Images))
		consumed := make([]string, 0, len(*req.Images))
		for _, img := range *req.Images {
			replacement = append(replacement, models.BusinessImage{
				BusinessID: business.ID,
				ImageURL:   img.ImageURL,
				Caption:    img.Caption,
				SortOrder:  img.SortOrder,
			})
			consumed = append(consumed, img.ImageURL)
		}
		if err := s.businessRepo.ReplaceImages(db, business.ID, replacement); err != nil {
			return nil, apperrors.InternalError(err)
		}
		s.consumePendingImages(ctx, db, consumed)
	}
	if req.LogoURL != nil {
		s.consumePendingImages(ctx, db, []string{*req.LogoURL})
	}

	return s.GetByID(ctx, db, business.ID)
}

func (s *businessService) Delete(ctx context.Context, db *gorm.DB, actorID, id string) error {
	business, err := s.ownedBusiness(db, actorID, id)
	if err != nil {
		return err
	}
	if err := s.businessRepo.Delete(db, business.ID); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "business deleted", "business_id", business.ID)
	return nil
}

// --- image sub-resource ---

func (s *businessService) AddImage(ctx context.Context, db *gorm.DB, actorID, businessID string, req *dto.AddImageRequest) (*dto.ImageResponse, error) {
	if _, err := s.ownedBusiness(db, actorID, businessID); err != nil {
		return nil, err
	}

	image := &models.BusinessImage{
		BusinessID: businessID,
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		SortOrder:  req.SortOrder,
	}
	if err := s.businessRepo.AddImage(db, image); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.consumePendingImages(ctx, db, []string{req.ImageURL})

	resp := businessImageToResponse(*image)
	return &resp, nil
}

func (s *businessService) ListImages(ctx context.Context, db *gorm.DB, businessID string) ([]dto.ImageResponse, error) {
	if _, err := s.businessRepo.FindByID(db, businessID); err != nil {
		return nil, handleBusinessError(err)
	}
	images, err := s.businessRepo.FindImagesByBusiness(db, businessID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return businessImagesToResponses(images), nil
}

func (s *businessService) UpdateImage(ctx context.Context, db *gorm.DB, actorID, businessID, imageID string, req *dto.UpdateImageRequest) (*dto.ImageResponse, error) {
	if _, err := s.ownedBusiness(db, actorID, businessID); err != nil {
		return nil, err
	}

	image, err := s.businessRepo.FindImageByID(db, imageID)
	if err != nil || image.BusinessID != businessID {
		return nil, apperrors.ErrNotFound(businessDomain, "image not found")
	}

	if req.Caption != nil {
		image.Caption = req.Caption
	}
	if req.SortOrder != nil {
		image.SortOrder = req.SortOrder
	}
	if err := s.businessRepo.UpdateImage(db, image); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := businessImageToResponse(*image)
	return &resp, nil
}

func (s *businessService) DeleteImage(ctx context.Context, db *gorm.DB, actorID, businessID, imageID string) error {
	if _, err := s.ownedBusiness(db, actorID, businessID); err != nil {
		return err
	}

	image, err := s.businessRepo.FindImageByID(db, imageID)
	if err != nil || image.BusinessID != businessID {
		return apperrors.ErrNotFound(businessDomain, "image not found")
	}
	return s.businessRepo.DeleteImage(db, imageID)
}

// --- projections ---

func businessImageToResponse(img models.BusinessImage) dto.ImageResponse {
	return dto.ImageResponse{
		ID:        img.ID,
		ImageURL:  storage.PublicURL(img.ImageURL),
		Caption:   img.Caption,
		SortOrder: img.SortOrder,
	}
}

func businessImagesToResponses(images []models.BusinessImage) []dto.ImageResponse {
	responses := make([]dto.ImageResponse, 0, len(images))
	for _, img := range images {
		responses = append(responses, businessImageToResponse(img))
	}
	return responses
}

func businessThumbnail(business *models.Business, images []models.BusinessImage) *string {
	if len(images) > 0 {
		url := storage.PublicURL(images[0].ImageURL)
		return &url
	}
	return storage.PublicURLPtr(business.LogoURL)
}

func businessToResponse(business *models.Business, images []models.BusinessImage, stats *repositories.ReviewStats) *dto.BusinessResponse {
	resp := &dto.BusinessResponse{
		ID:                business.ID,
		OwnerUserID:       business.OwnerUserID,
		ShopName:          business.ShopName,
		Email:             business.Email,
		Phone:             business.Phone,
		WebsiteURL:        business.WebsiteURL,
		InstagramHandle:   business.InstagramHandle,
		TiktokHandle:      business.TiktokHandle,
		TwitterHandle:     business.TwitterHandle,
		FacebookHandle:    business.FacebookHandle,
		Category:          business.Category,
		AveragePriceRange: business.AveragePriceRange,
		Description:       business.Description,
		LogoURL:           storage.PublicURLPtr(business.LogoURL),
		Images:            businessImagesToResponses(images),
		ThumbnailURL:      businessThumbnail(business, images),
		CreatedAt:         business.CreatedAt,
		UpdatedAt:         business.UpdatedAt,
	}
	if stats != nil {
		resp.ReviewCount = stats.ReviewCount
		resp.AverageRating = stats.AverageRating
	}
	return resp
}

func businessToCard(business *models.Business, images []models.BusinessImage, stats *repositories.ReviewStats) *dto.BusinessCard {
	card := &dto.BusinessCard{
		ID:           business.ID,
		ShopName:     business.ShopName,
		Category:     business.Category,
		LogoURL:      storage.PublicURLPtr(business.LogoURL),
		ThumbnailURL: businessThumbnail(business, images),
		Images:       businessImagesToResponses(images),
	}
	if stats != nil {
		card.ReviewCount = stats.ReviewCount
		card.AverageRating = stats.AverageRating
	}
	return card
}
