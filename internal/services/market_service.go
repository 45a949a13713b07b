package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"markethub_backend/internal/geocode"
	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/internal/storage"
	"markethub_backend/pkg/apperrors"
)

type MarketService interface {
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateMarketRequest) (*dto.MarketResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.MarketResponse, error)
	Search(ctx context.Context, db *gorm.DB, actorID string, criteria repositories.MarketSearchCriteria) (*dto.MarketListResponse, error)
	MyMarkets(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.MarketResponse, error)
	Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateMarketRequest) (*dto.MarketResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, id string) error

	AddImage(ctx context.Context, db *gorm.DB, actorID, marketID string, req *dto.AddImageRequest) (*dto.ImageResponse, error)
	ListImages(ctx context.Context, db *gorm.DB, marketID string) ([]dto.ImageResponse, error)
	UpdateImage(ctx context.Context, db *gorm.DB, actorID, marketID, imageID string, req *dto.UpdateImageRequest) (*dto.ImageResponse, error)
	DeleteImage(ctx context.Context, db *gorm.DB, actorID, marketID, imageID string) error
}

type marketService struct {
	marketRepo      repositories.MarketRepository
	applicationRepo repositories.ApplicationRepository
	businessRepo    repositories.BusinessRepository
	reviewRepo      repositories.ReviewRepository
	attendanceRepo  repositories.AttendanceRepository
	favoriteRepo    repositories.FavoriteRepository
	uploadRepo      repositories.UploadRepository
	geocoder        geocode.Geocoder
}

func NewMarketService(
	marketRepo repositories.MarketRepository,
	applicationRepo repositories.ApplicationRepository,
	businessRepo repositories.BusinessRepository,
	reviewRepo repositories.ReviewRepository,
	attendanceRepo repositories.AttendanceRepository,
	favoriteRepo repositories.FavoriteRepository,
	uploadRepo repositories.UploadRepository,
	geocoder geocode.Geocoder,
) MarketService {
	return &marketService{
		marketRepo:      marketRepo,
		applicationRepo: applicationRepo,
		businessRepo:    businessRepo,
		reviewRepo:      reviewRepo,
		attendanceRepo:  attendanceRepo,
		favoriteRepo:    favoriteRepo,
		uploadRepo:      uploadRepo,
		geocoder:        geocoder,
	}
}

const marketDomain = "market"

func handleMarketError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(marketDomain, "market not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

// validateCostFields enforces the paid-market invariant: a market that is
// not free must say how much it costs and how to pay
func validateCostFields(isFree bool, costAmount, costCurrency, paymentInstructions *string) error {
	if isFree {
		return nil
	}
	missing := func(v *string) bool { return v == nil || *v == "" }
	if missing(costAmount) || missing(costCurrency) || missing(paymentInstructions) {
		return apperrors.ErrBadRequest(marketDomain,
			"cost_amount, cost_currency and payment_instructions are required for paid markets")
	}
	return nil
}

// enrichLocation fills coordinates and address parts from the place id.
// Lookup failure is logged and skipped: a market without coordinates is
// still a valid market.
func (s *marketService) enrichLocation(ctx context.Context, market *models.Market) {
	if market.GooglePlaceID == nil || *market.GooglePlaceID == "" || s.geocoder == nil {
		return
	}
	place, err := s.geocoder.Lookup(ctx, *market.GooglePlaceID)
	if err != nil {
		logger.CtxWarn(ctx, "place lookup failed, market saved without coordinates",
			"place_id", *market.GooglePlaceID, "error", err)
		return
	}
	market.Latitude = &place.Latitude
	market.Longitude = &place.Longitude
	if place.FormattedAddress != "" {
		market.FormattedAddress = &place.FormattedAddress
	}
	if market.City == nil && place.City != "" {
		city := place.City
		market.City = &city
	}
	if market.Country == nil && place.Country != "" {
		country := place.Country
		market.Country = &country
	}
}

// consumePendingImages removes pending-upload records for images that
// are now attached to an entity
func (s *marketService) consumePendingImages(ctx context.Context, db *gorm.DB, urls []string) {
	if err := s.uploadRepo.DeletePendingByURLs(db, urls); err != nil {
		logger.CtxWarn(ctx, "failed to consume pending images", "error", err)
	}
}

func (s *marketService) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateMarketRequest) (*dto.MarketResponse, error) {
	isFree := true
	if req.IsFree != nil {
		isFree = *req.IsFree
	}
	if err := validateCostFields(isFree, req.CostAmount, req.CostCurrency, req.PaymentInstructions); err != nil {
		return nil, err
	}

	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	market := &models.Market{
		OrganizerUserID:     actorID,
		MarketName:          req.MarketName,
		ContactFirstName:    req.ContactFirstName,
		ContactLastName:     req.ContactLastName,
		Email:               req.Email,
		Phone:               req.Phone,
		LocationText:        req.LocationText,
		City:                req.City,
		Country:             req.Country,
		GooglePlaceID:       req.GooglePlaceID,
		Aesthetic:           req.Aesthetic,
		MarketSize:          req.MarketSize,
		TargetVendors:       req.TargetVendors,
		OptionalRules:       req.OptionalRules,
		ContractURL:         req.ContractURL,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ApplicationDeadline: req.ApplicationDeadline,
		IsPublished:         isPublished,
		EmailPackageURL:     req.EmailPackageURL,
		IsFree:              isFree,
		CostAmount:          req.CostAmount,
		CostCurrency:        req.CostCurrency,
		PaymentInstructions: req.PaymentInstructions,
		ApplicationForm:     req.ApplicationForm,
		LogoURL:             req.LogoURL,
	}

	s.enrichLocation(ctx, market)

	for _, img := range req.Images {
		market.Images = append(market.Images, models.MarketImage{
			ImageURL:  img.ImageURL,
			Caption:   img.Caption,
			SortOrder: img.SortOrder,
		})
	}

	if err := s.marketRepo.Create(db, market); err != nil {
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

	logger.CtxInfo(ctx, "market created", "market_id", market.ID, "name", market.MarketName)

	return s.GetByID(ctx, db, market.ID)
}

func (s *marketService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.MarketResponse, error) {
	market, err := s.marketRepo.FindByID(db, id)
	if err != nil {
		return nil, handleMarketError(err)
	}

	stats, err := s.reviewRepo.Stats(db, models.TargetTypeMarket, market.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	attendees, err := s.attendanceRepo.CountByMarket(db, market.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return marketToResponse(market, market.Images, stats, attendees), nil
}

func (s *marketService) Search(ctx context.Context, db *gorm.DB, actorID string, criteria repositories.MarketSearchCriteria) (*dto.MarketListResponse, error) {
	criteria.ExcludeOrganizerID = actorID

	if actorID != "" {
		favoriteIDs, err := s.favoriteRepo.MarketIDsForUser(db, actorID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		criteria.AlwaysIncludeIDs = favoriteIDs
	}

	markets, total, err := s.marketRepo.Search(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses, err := s.toResponses(db, markets)
	if err != nil {
		return nil, err
	}

	result := &dto.MarketListResponse{
		Markets: responses,
		Total:   total,
		Limit:   criteria.Limit,
		Offset:  criteria.Offset,
	}

	if actorID != "" {
		businesses, err := s.businessRepo.FindByOwner(db, actorID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		businessIDs := make([]string, 0, len(businesses))
		for _, b := range businesses {
			businessIDs = append(businessIDs, b.ID)
		}
		applied, err := s.applicationRepo.AppliedMarketIDs(db, businessIDs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		result.AppliedMarketIDs = applied
	}

	return result, nil
}

// toResponses builds full market responses with one batch query per
// related entity type
func (s *marketService) toResponses(db *gorm.DB, markets []models.Market) ([]*dto.MarketResponse, error) {
	ids := make([]string, 0, len(markets))
	for _, m := range markets {
		ids = append(ids, m.ID)
	}

	images, err := s.marketRepo.FindImagesByMarkets(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	imagesByMarket := map[string][]models.MarketImage{}
	for _, img := range images {
		imagesByMarket[img.MarketID] = append(imagesByMarket[img.MarketID], img)
	}

	stats, err := s.reviewRepo.BatchStats(db, models.TargetTypeMarket, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	attendees, err := s.attendanceRepo.CountByMarkets(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.MarketResponse, 0, len(markets))
	for i := range markets {
		m := &markets[i]
		responses = append(responses, marketToResponse(m, imagesByMarket[m.ID], stats[m.ID], attendees[m.ID]))
	}
	return responses, nil
}

func (s *marketService) MyMarkets(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.MarketResponse, error) {
	markets, err := s.marketRepo.FindByOrganizer(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.toResponses(db, markets)
}

func (s *marketService) ownedMarket(db *gorm.DB, actorID, id string) (*models.Market, error) {
	market, err := s.marketRepo.FindByID(db, id)
	if err != nil {
		return nil, handleMarketError(err)
	}
	if market.OrganizerUserID != actorID {
		return nil, apperrors.ErrForbidden(marketDomain, "only the organizer can modify this market")
	}
	return market, nil
}

func (s *marketService) Update(ctx context.Context, db *gorm.DB, actorID, id string, req *dto.UpdateMarketRequest) (*dto.MarketResponse, error) {
	market, err := s.ownedMarket(db, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.MarketName != nil {
		market.MarketName = *req.MarketName
	}
	if req.ContactFirstName != nil {
		market.ContactFirstName = req.ContactFirstName
	}
	if req.ContactLastName != nil {
		market.ContactLastName = req.ContactLastName
	}
	if req.Email != nil {
		market.Email = req.Email
	}
	if req.Phone != nil {
		market.Phone = req.Phone
	}
	if req.LocationText != nil {
		market.LocationText = req.LocationText
	}
	if req.City != nil {
		market.City = req.City
	}
	if req.Country != nil {
		market.Country = req.Country
	}
	if req.Aesthetic != nil {
		market.Aesthetic = req.Aesthetic
	}
	if req.MarketSize != nil {
		market.MarketSize = req.MarketSize
	}
	if req.TargetVendors != nil {
		market.TargetVendors = req.TargetVendors
	}
	if req.OptionalRules != nil {
		market.OptionalRules = req.OptionalRules
	}
	if req.ContractURL != nil {
		market.ContractURL = req.ContractURL
	}
	if req.Description != nil {
		market.Description = req.Description
	}
	if req.StartDate != nil {
		market.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		market.EndDate = req.EndDate
	}
	if req.ApplicationDeadline != nil {
		market.ApplicationDeadline = req.ApplicationDeadline
	}
	if req.IsPublished != nil {
		market.IsPublished = *req.IsPublished
	}
	if req.EmailPackageURL != nil {
		market.EmailPackageURL = req.EmailPackageURL
	}
	if req.IsFree != nil {
		market.IsFree = *req.IsFree
	}
	if req.CostAmount != nil {
		market.CostAmount = req.CostAmount
	}
	if req.CostCurrency != nil {
		market.CostCurrency = req.CostCurrency
	}
	if req.PaymentInstructions != nil {
		market.PaymentInstructions = req.PaymentInstructions
	}
	if len(req.ApplicationForm) > 0 {
		market.ApplicationForm = req.ApplicationForm
	}
	if req.LogoURL != nil {
		market.LogoURL = req.LogoURL
	}

	if err := validateCostFields(market.IsFree, market.CostAmount, market.CostCurrency, market.PaymentInstructions); err != nil {
		return nil, err
	}

	// Re-geocode when the place changes
	if req.GooglePlaceID != nil &&
		(market.GooglePlaceID == nil || *market.GooglePlaceID != *req.GooglePlaceID) {
		market.GooglePlaceID = req.GooglePlaceID
		s.enrichLocation(ctx, market)
	}

	market.Images = nil // gallery is managed explicitly below
	if err := s.marketRepo.Update(db, market); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if req.Images != nil {
		replacement := make([]models.MarketImage, 0, len(*req.Images))
		consumed := make([]string, 0, len(*req.Images))
		for _, img := range *req.Images {
			replacement = append(replacement, models.MarketImage{
				MarketID:  market.ID,
				ImageURL:  img.ImageURL,
				Caption:   img.Caption,
				SortOrder: img.SortOrder,
			})
			consumed = append(consumed, img.ImageURL)
		}
		if err := s.marketRepo.ReplaceImages(db, market.ID, replacement); err != nil {
			return nil, apperrors.InternalError(err)
		}
		s.consumePendingImages(ctx, db, consumed)
	}
	if req.LogoURL != nil {
		s.consumePendingImages(ctx, db, []string{*req.LogoURL})
	}

	return s.GetByID(ctx, db, market.ID)
}

func (s *marketService) Delete(ctx context.Context, db *gorm.DB, actorID, id string) error {
	market, err := s.ownedMarket(db, actorID, id)
	if err != nil {
		return err
	}
	if err := s.marketRepo.Delete(db, market.ID); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "market deleted", "market_id", market.ID)
	return nil
}

// --- image sub-resource ---

func (s *marketService) AddImage(ctx context.Context, db *gorm.DB, actorID, marketID string, req *dto.AddImageRequest) (*dto.ImageResponse, error) {
	if _, err := s.ownedMarket(db, actorID, marketID); err != nil {
		return nil, err
	}

	image := &models.MarketImage{
		MarketID:  marketID,
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		SortOrder: req.SortOrder,
	}
	if err := s.marketRepo.AddImage(db, image); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.consumePendingImages(ctx, db, []string{req.ImageURL})

	resp := marketImageToResponse(*image)
	return &resp, nil
}

func (s *marketService) ListImages(ctx context.Context, db *gorm.DB, marketID string) ([]dto.ImageResponse, error) {
	if _, err := s.marketRepo.FindByID(db, marketID); err != nil {
		return nil, handleMarketError(err)
	}
	images, err := s.marketRepo.FindImagesByMarket(db, marketID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return marketImagesToResponses(images), nil
}

func (s *marketService) UpdateImage(ctx context.Context, db *gorm.DB, actorID, marketID, imageID string, req *dto.UpdateImageRequest) (*dto.ImageResponse, error) {
	if _, err := s.ownedMarket(db, actorID, marketID); err != nil {
		return nil, err
	}

	image, err := s.marketRepo.FindImageByID(db, imageID)
	if err != nil || image.MarketID != marketID {
		return nil, apperrors.ErrNotFound(marketDomain, "image not found")
	}

	if req.Caption != nil {
		image.Caption = req.Caption
	}
	if req.SortOrder != nil {
		image.SortOrder = req.SortOrder
	}
	if err := s.marketRepo.UpdateImage(db, image); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := marketImageToResponse(*image)
	return &resp, nil
}

func (s *marketService) DeleteImage(ctx context.Context, db *gorm.DB, actorID, marketID, imageID string) error {
	if _, err := s.ownedMarket(db, actorID, marketID); err != nil {
		return err
	}

	image, err := s.marketRepo.FindImageByID(db, imageID)
	if err != nil || image.MarketID != marketID {
		return apperrors.ErrNotFound(marketDomain, "image not found")
	}
	if err := s.marketRepo.DeleteImage(db, imageID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- projections ---

func marketImageToResponse(img models.MarketImage) dto.ImageResponse {
	return dto.ImageResponse{
		ID:        img.ID,
		ImageURL:  storage.PublicURL(img.ImageURL),
		Caption:   img.Caption,
		SortOrder: img.SortOrder,
	}
}

func marketImagesToResponses(images []models.MarketImage) []dto.ImageResponse {
	responses := make([]dto.ImageResponse, 0, len(images))
	for _, img := range images {
		responses = append(responses, marketImageToResponse(img))
	}
	return responses
}

// marketThumbnail picks the first gallery image, falling back to the logo
func marketThumbnail(market *models.Market, images []models.MarketImage) *string {
	if len(images) > 0 {
		url := storage.PublicURL(images[0].ImageURL)
		return &url
	}
	return storage.PublicURLPtr(market.LogoURL)
}

func marketToResponse(market *models.Market, images []models.MarketImage, stats *repositories.ReviewStats, attendees int64) *dto.MarketResponse {
	resp := &dto.MarketResponse{
		ID:                  market.ID,
		OrganizerUserID:     market.OrganizerUserID,
		MarketName:          market.MarketName,
		ContactFirstName:    market.ContactFirstName,
		ContactLastName:     market.ContactLastName,
		Email:               market.Email,
		Phone:               market.Phone,
		LocationText:        market.LocationText,
		City:                market.City,
		Country:             market.Country,
		Latitude:            market.Latitude,
		Longitude:           market.Longitude,
		GooglePlaceID:       market.GooglePlaceID,
		FormattedAddress:    market.FormattedAddress,
		Aesthetic:           market.Aesthetic,
		MarketSize:          market.MarketSize,
		TargetVendors:       market.TargetVendors,
		OptionalRules:       market.OptionalRules,
		ContractURL:         market.ContractURL,
		Description:         market.Description,
		StartDate:           market.StartDate,
		EndDate:             market.EndDate,
		ApplicationDeadline: market.ApplicationDeadline,
		IsPublished:         market.IsPublished,
		EmailPackageURL:     market.EmailPackageURL,
		IsFree:              market.IsFree,
		CostAmount:          market.CostAmount,
		CostCurrency:        market.CostCurrency,
		PaymentInstructions: market.PaymentInstructions,
		ApplicationForm:     market.ApplicationForm,
		LogoURL:             storage.PublicURLPtr(market.LogoURL),
		Images:              marketImagesToResponses(images),
		ThumbnailURL:        marketThumbnail(market, images),
		AttendeeCount:       attendees,
		CreatedAt:           market.CreatedAt,
		UpdatedAt:           market.UpdatedAt,
	}
	if stats != nil {
		resp.ReviewCount = stats.ReviewCount
		resp.AverageRating = stats.AverageRating
	}
	return resp
}

func marketToCard(market *models.Market, images []models.MarketImage, stats *repositories.ReviewStats) *dto.MarketCard {
	card := &dto.MarketCard{
		ID:           market.ID,
		MarketName:   market.MarketName,
		City:         market.City,
		Country:      market.Country,
		StartDate:    market.StartDate,
		EndDate:      market.EndDate,
		IsFree:       market.IsFree,
		LogoURL:      storage.PublicURLPtr(market.LogoURL),
		ThumbnailURL: marketThumbnail(market, images),
		Images:       marketImagesToResponses(images),
	}
	if stats != nil {
		card.ReviewCount = stats.ReviewCount
		card.AverageRating = stats.AverageRating
	}
	return card
}
