// internal/services/beat_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

type BeatService struct {
	db          *gorm.DB
	cartService *CartService
}

type CreateBeatRequest struct {
	BeatmakerID    uuid.UUID       `json:"beatmaker_id" validate:"required"`
	Title          string          `json:"title" validate:"required,max=255"`
	Slug           string          `json:"slug,omitempty" validate:"omitempty,max=255"`
	ReleaseDate    time.Time       `json:"release_date"`
	Price          decimal.Decimal `json:"price" validate:"price"`
	Discount       bool            `json:"discount"`
	GenreIDs       []uuid.UUID     `json:"genre_ids,omitempty"`
	LicenseTypeIDs []uuid.UUID     `json:"license_type_ids,omitempty"`
}

type UpdateBeatRequest struct {
	Title          string           `json:"title,omitempty" validate:"omitempty,max=255"`
	Slug           string           `json:"slug,omitempty" validate:"omitempty,max=255"`
	ReleaseDate    *time.Time       `json:"release_date,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Discount       *bool            `json:"discount,omitempty"`
	GenreIDs       []uuid.UUID      `json:"genre_ids,omitempty"`
	LicenseTypeIDs []uuid.UUID      `json:"license_type_ids,omitempty"`
}

type BeatSearchParams struct {
	utils.PaginationParams
	BeatmakerID *uuid.UUID       `json:"beatmaker_id,omitempty"`
	GenreID     *uuid.UUID       `json:"genre_id,omitempty"`
	LicenseID   *uuid.UUID       `json:"license_id,omitempty"`
	PriceMin    *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax    *decimal.Decimal `json:"price_max,omitempty"`
	Discount    *bool            `json:"discount,omitempty"`
}

func NewBeatService(db *gorm.DB, cartService *CartService) *BeatService {
	return &BeatService{
		db:          db,
		cartService: cartService,
	}
}

func (s *BeatService) CreateBeat(req *CreateBeatRequest) (*models.Beat, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify beatmaker exists
	var beatmaker models.Beatmaker
	if err := s.db.First(&beatmaker, "id = ?", req.BeatmakerID).Error; err != nil {
		return nil, notFound("beatmaker", err)
	}

	slugValue, err := uniqueSlug(s.db, &models.Beat{}, req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	releaseDate := req.ReleaseDate
	if releaseDate.IsZero() {
		releaseDate = time.Now().UTC()
	}

	beat := &models.Beat{
		BeatmakerID: beatmaker.ID,
		Title:       req.Title,
		Slug:        slugValue,
		ReleaseDate: releaseDay(releaseDate),
		Price:       req.Price,
		Discount:    req.Discount,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(beat).Error; err != nil {
			return fmt.Errorf("failed to create beat: %w", err)
		}
		return replaceBeatRelations(tx, beat, req.GenreIDs, req.LicenseTypeIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBeat(beat.ID)
}

func (s *BeatService) GetBeat(id uuid.UUID) (*models.Beat, error) {
	var beat models.Beat
	if err := s.preloaded(s.db).First(&beat, "id = ?", id).Error; err != nil {
		return nil, notFound("beat", err)
	}
	return &beat, nil
}

func (s *BeatService) GetBeatBySlug(slugValue string) (*models.Beat, error) {
	var beat models.Beat
	if err := s.preloaded(s.db).Where("slug = ?", slugValue).First(&beat).Error; err != nil {
		return nil, notFound("beat", err)
	}
	return &beat, nil
}

func (s *BeatService) UpdateBeat(id uuid.UUID, req *UpdateBeatRequest) (*models.Beat, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var beat models.Beat
	if err := s.db.First(&beat, "id = ?", id).Error; err != nil {
		return nil, notFound("beat", err)
	}
	if err := checkSlugChange(s.db, &models.Beat{}, beat.Slug, req.Slug); err != nil {
		return nil, err
	}

	// Apply updates
	if req.Title != "" {
		beat.Title = req.Title
	}
	if req.Slug != "" {
		beat.Slug = req.Slug
	}
	if req.ReleaseDate != nil {
		beat.ReleaseDate = releaseDay(*req.ReleaseDate)
	}
	if req.Price != nil {
		beat.Price = *req.Price
	}
	if req.Discount != nil {
		beat.Discount = *req.Discount
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		// BeforeSave re-validates price and beatmaker
		if err := tx.Omit(clause.Associations).Save(&beat).Error; err != nil {
			return fmt.Errorf("failed to update beat: %w", err)
		}
		if req.GenreIDs == nil && req.LicenseTypeIDs == nil {
			return nil
		}
		return replaceBeatRelations(tx, &beat, req.GenreIDs, req.LicenseTypeIDs)
	})
	if err != nil {
		return nil, err
	}

	// A price change moves the totals of every open cart holding the beat
	if req.Price != nil {
		if err := s.refreshOpenCarts(beat.ID); err != nil {
			return nil, err
		}
	}

	return s.GetBeat(beat.ID)
}

// DeleteBeat removes the beat and its references from open carts,
// wishlists and playlists. Ordered carts keep the dangling reference.
func (s *BeatService) DeleteBeat(id uuid.UUID) error {
	var beat models.Beat
	if err := s.db.First(&beat, "id = ?", id).Error; err != nil {
		return notFound("beat", err)
	}

	if err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		return s.deleteBeatTx(tx, &beat)
	}); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"beat_id": beat.ID,
		"slug":    beat.Slug,
	}).Info("Beat deleted")
	return nil
}

func (s *BeatService) deleteBeatTx(tx *gorm.DB, beat *models.Beat) error {
	// Open carts that hold the beat
	var cartIDs []uuid.UUID
	if err := tx.Model(&models.CartProduct{}).
		Joins("JOIN carts ON carts.id = cart_products.cart_id").
		Where("cart_products.content_type = ? AND cart_products.object_id = ?", beat.ContentTypeModel(), beat.ID).
		Where("carts.in_order = ?", false).
		Distinct().Pluck("cart_products.cart_id", &cartIDs).Error; err != nil {
		return fmt.Errorf("failed to find carts: %w", err)
	}

	if len(cartIDs) > 0 {
		if err := tx.Unscoped().
			Where("content_type = ? AND object_id = ? AND cart_id IN ?", beat.ContentTypeModel(), beat.ID, cartIDs).
			Delete(&models.CartProduct{}).Error; err != nil {
			return fmt.Errorf("failed to remove beat from carts: %w", err)
		}
	}

	for _, stmt := range []string{
		"DELETE FROM customer_wishlist WHERE beat_id = ?",
		"DELETE FROM playlist_beats WHERE beat_id = ?",
		"DELETE FROM beat_genres WHERE beat_id = ?",
		"DELETE FROM beat_licenses WHERE beat_id = ?",
	} {
		if err := tx.Exec(stmt, beat.ID).Error; err != nil {
			return fmt.Errorf("failed to detach beat: %w", err)
		}
	}

	if err := tx.Delete(beat).Error; err != nil {
		return fmt.Errorf("failed to delete beat: %w", err)
	}

	for _, cartID := range cartIDs {
		if _, err := s.cartService.recomputeTx(tx, cartID); err != nil {
			return err
		}
	}
	return nil
}

func (s *BeatService) SearchBeats(params BeatSearchParams) ([]models.Beat, int64, error) {
	params.PaginationParams = params.PaginationParams.Normalize()
	query := s.db.Model(&models.Beat{})

	// Apply filters
	if params.BeatmakerID != nil {
		query = query.Where("beatmaker_id = ?", *params.BeatmakerID)
	}

	if params.GenreID != nil {
		query = query.Where("id IN (?)",
			s.db.Table("beat_genres").Select("beat_id").Where("genre_id = ?", *params.GenreID))
	}

	if params.LicenseID != nil {
		query = query.Where("id IN (?)",
			s.db.Table("beat_licenses").Select("beat_id").Where("license_type_id = ?", *params.LicenseID))
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.Discount != nil {
		query = query.Where("discount = ?", *params.Discount)
	}

	if params.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(params.Search))
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count beats: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "release_date", "title", "price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var beats []models.Beat
	if err := s.preloaded(query).Find(&beats).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch beats: %w", err)
	}

	return beats, total, nil
}

// ResolveBeat is the cart resolver for the "beat" content type.
func (s *BeatService) ResolveBeat(db *gorm.DB, id uuid.UUID) (models.Sellable, error) {
	var beat models.Beat
	if err := db.Preload("Beatmaker").First(&beat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", models.ErrMissingReferent, models.BeatContentType, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &beat, nil
}

// Helper methods

// releaseDay keeps the calendar date of t as seen in its own zone.
func releaseDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *BeatService) preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("Beatmaker").Preload("Genres").Preload("Licenses")
}

func (s *BeatService) refreshOpenCarts(beatID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var cartIDs []uuid.UUID
		if err := tx.Model(&models.CartProduct{}).
			Joins("JOIN carts ON carts.id = cart_products.cart_id").
			Where("cart_products.content_type = ? AND cart_products.object_id = ?", models.BeatContentType, beatID).
			Where("carts.in_order = ?", false).
			Distinct().Pluck("cart_products.cart_id", &cartIDs).Error; err != nil {
			return fmt.Errorf("failed to find carts: %w", err)
		}
		for _, cartID := range cartIDs {
			if _, err := s.cartService.recomputeTx(tx, cartID); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceBeatRelations(tx *gorm.DB, beat *models.Beat, genreIDs, licenseIDs []uuid.UUID) error {
	if genreIDs != nil {
		var genres []models.Genre
		if len(genreIDs) > 0 {
			if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
				return fmt.Errorf("failed to fetch genres: %w", err)
			}
			if len(genres) != len(uniqueIDs(genreIDs)) {
				return fmt.Errorf("genre: %w", ErrNotFound)
			}
		}
		if err := replaceAssociation(tx.Model(beat).Association("Genres"), genres, len(genres)); err != nil {
			return fmt.Errorf("failed to set genres: %w", err)
		}
	}

	if licenseIDs != nil {
		var licenses []models.LicenseType
		if len(licenseIDs) > 0 {
			if err := tx.Where("id IN ?", licenseIDs).Find(&licenses).Error; err != nil {
				return fmt.Errorf("failed to fetch license types: %w", err)
			}
			if len(licenses) != len(uniqueIDs(licenseIDs)) {
				return fmt.Errorf("license type: %w", ErrNotFound)
			}
		}
		if err := replaceAssociation(tx.Model(beat).Association("Licenses"), licenses, len(licenses)); err != nil {
			return fmt.Errorf("failed to set license types: %w", err)
		}
	}

	return nil
}

func replaceAssociation(assoc *gorm.Association, values interface{}, n int) error {
	if n == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func likePattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}
