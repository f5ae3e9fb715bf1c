// internal/services/playlist_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

type PlaylistService struct {
	db *gorm.DB
}

type CreatePlaylistRequest struct {
	Name    string      `json:"name" validate:"required,max=255"`
	Slug    string      `json:"slug,omitempty" validate:"omitempty,max=255"`
	BeatIDs []uuid.UUID `json:"beat_ids,omitempty"`
}

func NewPlaylistService(db *gorm.DB) *PlaylistService {
	return &PlaylistService{db: db}
}

func (s *PlaylistService) CreatePlaylist(req *CreatePlaylistRequest) (*models.Playlist, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slugValue, err := uniqueSlug(s.db, &models.Playlist{}, req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	playlist := &models.Playlist{Name: req.Name, Slug: slugValue}
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Omit("Beats").Create(playlist).Error; err != nil {
			return fmt.Errorf("failed to create playlist: %w", err)
		}
		for _, beatID := range req.BeatIDs {
			if err := s.addBeatTx(tx, playlist.ID, beatID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlaylist(playlist.Slug)
}

func (s *PlaylistService) GetPlaylist(slugValue string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.db.Preload("Beats").Preload("Beats.Beatmaker").
		Where("slug = ?", slugValue).First(&playlist).Error; err != nil {
		return nil, notFound("playlist", err)
	}
	return &playlist, nil
}

// AddBeat is idempotent, a playlist holds each beat at most once.
func (s *PlaylistService) AddBeat(playlistID, beatID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var playlist models.Playlist
		if err := tx.First(&playlist, "id = ?", playlistID).Error; err != nil {
			return notFound("playlist", err)
		}
		return s.addBeatTx(tx, playlistID, beatID)
	})
}

func (s *PlaylistService) addBeatTx(tx *gorm.DB, playlistID, beatID uuid.UUID) error {
	var beat models.Beat
	if err := tx.First(&beat, "id = ?", beatID).Error; err != nil {
		return notFound("beat", err)
	}

	var count int64
	if err := tx.Table("playlist_beats").
		Where("playlist_id = ? AND beat_id = ?", playlistID, beatID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := tx.Exec("INSERT INTO playlist_beats (playlist_id, beat_id) VALUES (?, ?)", playlistID, beatID).Error; err != nil {
		return fmt.Errorf("failed to add beat to playlist: %w", err)
	}
	return nil
}

func (s *PlaylistService) RemoveBeat(playlistID, beatID uuid.UUID) error {
	if err := s.db.Exec("DELETE FROM playlist_beats WHERE playlist_id = ? AND beat_id = ?", playlistID, beatID).Error; err != nil {
		return fmt.Errorf("failed to remove beat from playlist: %w", err)
	}
	return nil
}

// ListBeats returns the member beats. Membership carries no order, the
// result is sorted by title for stable output only.
func (s *PlaylistService) ListBeats(playlistID uuid.UUID) ([]models.Beat, error) {
	var beats []models.Beat
	if err := s.db.Preload("Beatmaker").
		Where("id IN (?)", s.db.Table("playlist_beats").Select("beat_id").Where("playlist_id = ?", playlistID)).
		Order("title ASC").
		Find(&beats).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch playlist beats: %w", err)
	}
	return beats, nil
}

func (s *PlaylistService) DeletePlaylist(playlistID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var playlist models.Playlist
		if err := tx.First(&playlist, "id = ?", playlistID).Error; err != nil {
			return notFound("playlist", err)
		}
		if err := tx.Exec("DELETE FROM playlist_beats WHERE playlist_id = ?", playlistID).Error; err != nil {
			return fmt.Errorf("failed to detach beats: %w", err)
		}
		if err := tx.Delete(&playlist).Error; err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}
		return nil
	})
}
