// internal/services/catalog_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

// CatalogService manages the reference entities beats point at.
type CatalogService struct {
	db          *gorm.DB
	beatService *BeatService
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

type CreateLicenseTypeRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description"`
	FileType       string `json:"file_type" validate:"max=100"`
	NumberOfCopies string `json:"number_of_copies" validate:"max=255"`
	Slug           string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

type CreateBeatmakerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

type UpdateLicenseTypeRequest struct {
	Name           string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description    string `json:"description,omitempty"`
	FileType       string `json:"file_type,omitempty" validate:"omitempty,max=100"`
	NumberOfCopies string `json:"number_of_copies,omitempty" validate:"omitempty,max=255"`
	Slug           string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

// UpdateCatalogRequest covers the name/slug pair shared by genres and beatmakers.
type UpdateCatalogRequest struct {
	Name string `json:"name,omitempty" validate:"omitempty,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

func NewCatalogService(db *gorm.DB, beatService *BeatService) *CatalogService {
	return &CatalogService{
		db:          db,
		beatService: beatService,
	}
}

// Genres

func (s *CatalogService) CreateGenre(req *CreateGenreRequest) (*models.Genre, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slugValue, err := uniqueSlug(s.db, &models.Genre{}, req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: req.Name, Slug: slugValue}
	if err := s.db.Create(genre).Error; err != nil {
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return genre, nil
}

func (s *CatalogService) GetGenreBySlug(slugValue string) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.Where("slug = ?", slugValue).First(&genre).Error; err != nil {
		return nil, notFound("genre", err)
	}
	return &genre, nil
}

func (s *CatalogService) ListGenres() ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.Order("name ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}
	return genres, nil
}

func (s *CatalogService) UpdateGenre(slugValue string, req *UpdateCatalogRequest) (*models.Genre, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	genre, err := s.GetGenreBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if err := checkSlugChange(s.db, &models.Genre{}, genre.Slug, req.Slug); err != nil {
		return nil, err
	}

	if err := s.db.Model(genre).Updates(nameSlugUpdates(req)).Error; err != nil {
		return nil, fmt.Errorf("failed to update genre: %w", err)
	}
	return genre, nil
}

// DeleteGenre detaches the genre from every beat before removing it.
func (s *CatalogService) DeleteGenre(slugValue string) error {
	genre, err := s.GetGenreBySlug(slugValue)
	if err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM beat_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
			return fmt.Errorf("failed to detach genre: %w", err)
		}
		if err := tx.Delete(genre).Error; err != nil {
			return fmt.Errorf("failed to delete genre: %w", err)
		}
		return nil
	})
}

// License types

func (s *CatalogService) CreateLicenseType(req *CreateLicenseTypeRequest) (*models.LicenseType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slugValue, err := uniqueSlug(s.db, &models.LicenseType{}, req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	license := &models.LicenseType{
		Name:           req.Name,
		Description:    req.Description,
		FileType:       req.FileType,
		NumberOfCopies: req.NumberOfCopies,
		Slug:           slugValue,
	}
	if err := s.db.Create(license).Error; err != nil {
		return nil, fmt.Errorf("failed to create license type: %w", err)
	}
	return license, nil
}

func (s *CatalogService) GetLicenseTypeBySlug(slugValue string) (*models.LicenseType, error) {
	var license models.LicenseType
	if err := s.db.Where("slug = ?", slugValue).First(&license).Error; err != nil {
		return nil, notFound("license type", err)
	}
	return &license, nil
}

func (s *CatalogService) ListLicenseTypes() ([]models.LicenseType, error) {
	var licenses []models.LicenseType
	if err := s.db.Order("created_at ASC").Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch license types: %w", err)
	}
	return licenses, nil
}

func (s *CatalogService) UpdateLicenseType(slugValue string, req *UpdateLicenseTypeRequest) (*models.LicenseType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	license, err := s.GetLicenseTypeBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if err := checkSlugChange(s.db, &models.LicenseType{}, license.Slug, req.Slug); err != nil {
		return nil, err
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.FileType != "" {
		updates["file_type"] = req.FileType
	}
	if req.NumberOfCopies != "" {
		updates["number_of_copies"] = req.NumberOfCopies
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}

	if err := s.db.Model(license).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update license type: %w", err)
	}
	return license, nil
}

func (s *CatalogService) DeleteLicenseType(slugValue string) error {
	license, err := s.GetLicenseTypeBySlug(slugValue)
	if err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM beat_licenses WHERE license_type_id = ?", license.ID).Error; err != nil {
			return fmt.Errorf("failed to detach license type: %w", err)
		}
		if err := tx.Delete(license).Error; err != nil {
			return fmt.Errorf("failed to delete license type: %w", err)
		}
		return nil
	})
}

// Beatmakers

func (s *CatalogService) CreateBeatmaker(req *CreateBeatmakerRequest) (*models.Beatmaker, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slugValue, err := uniqueSlug(s.db, &models.Beatmaker{}, req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	beatmaker := &models.Beatmaker{Name: req.Name, Slug: slugValue}
	if err := s.db.Create(beatmaker).Error; err != nil {
		return nil, fmt.Errorf("failed to create beatmaker: %w", err)
	}
	return beatmaker, nil
}

func (s *CatalogService) GetBeatmakerBySlug(slugValue string) (*models.Beatmaker, error) {
	var beatmaker models.Beatmaker
	if err := s.db.Where("slug = ?", slugValue).First(&beatmaker).Error; err != nil {
		return nil, notFound("beatmaker", err)
	}
	return &beatmaker, nil
}

func (s *CatalogService) ListBeatmakers(params utils.PaginationParams) ([]models.Beatmaker, int64, error) {
	params = params.Normalize()
	query := s.db.Model(&models.Beatmaker{})

	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(params.Search))
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count beatmakers: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name"})
	query = utils.ApplyPagination(query, params)

	var beatmakers []models.Beatmaker
	if err := query.Find(&beatmakers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch beatmakers: %w", err)
	}
	return beatmakers, total, nil
}

func (s *CatalogService) UpdateBeatmaker(slugValue string, req *UpdateCatalogRequest) (*models.Beatmaker, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	beatmaker, err := s.GetBeatmakerBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if err := checkSlugChange(s.db, &models.Beatmaker{}, beatmaker.Slug, req.Slug); err != nil {
		return nil, err
	}

	if err := s.db.Model(beatmaker).Updates(nameSlugUpdates(req)).Error; err != nil {
		return nil, fmt.Errorf("failed to update beatmaker: %w", err)
	}
	return beatmaker, nil
}

// DeleteBeatmaker removes the beatmaker together with every beat it owns.
func (s *CatalogService) DeleteBeatmaker(slugValue string) error {
	beatmaker, err := s.GetBeatmakerBySlug(slugValue)
	if err != nil {
		return err
	}

	var removed int
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var beats []models.Beat
		if err := tx.Where("beatmaker_id = ?", beatmaker.ID).Find(&beats).Error; err != nil {
			return fmt.Errorf("failed to fetch beats: %w", err)
		}

		for i := range beats {
			if err := s.beatService.deleteBeatTx(tx, &beats[i]); err != nil {
				return err
			}
		}
		removed = len(beats)

		if err := tx.Delete(beatmaker).Error; err != nil {
			return fmt.Errorf("failed to delete beatmaker: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"beatmaker": beatmaker.Slug,
		"beats":     removed,
	}).Info("Beatmaker deleted")
	return nil
}

func nameSlugUpdates(req *UpdateCatalogRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	return updates
}
