package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

type FavoriteService interface {
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateFavoriteRequest) (*dto.FavoriteResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, marketID string) error
	MyFavorites(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.FavoriteDetails, error)
	Check(ctx context.Context, db *gorm.DB, actorID, marketID string) (*dto.FavoriteCheckResponse, error)
}

type favoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	marketRepo   repositories.MarketRepository
	reviewRepo   repositories.ReviewRepository
}

func NewFavoriteService(
	favoriteRepo repositories.FavoriteRepository,
	marketRepo repositories.MarketRepository,
	reviewRepo repositories.ReviewRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		marketRepo:   marketRepo,
		reviewRepo:   reviewRepo,
	}
}

const favoriteDomain = "favorite"

func (s *favoriteService) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateFavoriteRequest) (*dto.FavoriteResponse, error) {
	if _, err := s.marketRepo.FindByID(db, req.MarketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(favoriteDomain, "market not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.favoriteRepo.FindByMarketAndUser(db, req.MarketID, actorID); err == nil {
		return nil, apperrors.ErrConflict(favoriteDomain, "market is already favorited")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	favorite := &models.MarketFavorite{
		MarketID: req.MarketID,
		UserID:   actorID,
	}
	if err := s.favoriteRepo.Create(db, favorite); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrConflict(favoriteDomain, "market is already favorited")
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "favorite created", "market_id", favorite.MarketID)

	return favoriteToResponse(favorite), nil
}

// Delete is addressed by market id, not favorite id.
func (s *favoriteService) Delete(ctx context.Context, db *gorm.DB, actorID, marketID string) error {
	removed, err := s.favoriteRepo.DeleteByMarketAndUser(db, marketID, actorID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if removed == 0 {
		return apperrors.ErrNotFound(favoriteDomain, "market is not favorited")
	}
	return nil
}

func (s *favoriteService) MyFavorites(ctx context.Context, db *gorm.DB, actorID string) ([]*dto.FavoriteDetails, error) {
	favorites, err := s.favoriteRepo.FindByUser(db, actorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	marketIDs := make([]string, 0, len(favorites))
	for _, f := range favorites {
		marketIDs = append(marketIDs, f.MarketID)
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

	details := make([]*dto.FavoriteDetails, 0, len(favorites))
	for i := range favorites {
		f := &favorites[i]
		d := &dto.FavoriteDetails{FavoriteResponse: *favoriteToResponse(f)}
		if market, ok := marketsByID[f.MarketID]; ok {
			d.Market = marketToCard(market, imagesByMarket[market.ID], stats[market.ID])
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *favoriteService) Check(ctx context.Context, db *gorm.DB, actorID, marketID string) (*dto.FavoriteCheckResponse, error) {
	_, err := s.favoriteRepo.FindByMarketAndUser(db, marketID, actorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}
	return &dto.FavoriteCheckResponse{
		MarketID:    marketID,
		IsFavorited: err == nil,
	}, nil
}

func favoriteToResponse(favorite *models.MarketFavorite) *dto.FavoriteResponse {
	return &dto.FavoriteResponse{
		ID:        favorite.ID,
		MarketID:  favorite.MarketID,
		UserID:    favorite.UserID,
		CreatedAt: favorite.CreatedAt,
	}
}
