// internal/services/image_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/config"
	"github.com/placese/placese-beatstore/internal/upload"
)

// ImageBearer is an entity with an image path column.
type ImageBearer interface {
	upload.Entity
	SetImage(path string)
}

type ImageService struct {
	db       *gorm.DB
	resolver *upload.Resolver
	storage  *StorageService
}

// NewUploadResolver builds the path resolver from the upload settings.
// An empty default postfix disables the fallback rule.
func NewUploadResolver(cfg config.UploadConfig) (*upload.Resolver, error) {
	rc := upload.DefaultConfig()
	rc.Root = cfg.Root
	if cfg.DefaultPostfix == "" {
		rc.Default = nil
	} else {
		rc.Default = &upload.Rule{Field: "slug", Postfix: cfg.DefaultPostfix}
	}
	return upload.NewResolver(rc)
}

func NewImageService(db *gorm.DB, resolver *upload.Resolver, storage *StorageService) *ImageService {
	return &ImageService{
		db:       db,
		resolver: resolver,
		storage:  storage,
	}
}

// AttachImage stores data at the resolved path for instance and records
// that path on the entity. A cart product is replaced by its content.
func (s *ImageService) AttachImage(instance any, filename string, data []byte) (*UploadResult, error) {
	path, err := s.resolver.Path(instance, filename)
	if err != nil {
		return nil, err
	}

	target, err := upload.Unwrap(instance)
	if err != nil {
		return nil, err
	}
	bearer, ok := target.(ImageBearer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotImageBearing, target)
	}

	result, err := s.storage.UploadImage(path, data)
	if err != nil {
		return nil, err
	}

	// UpdateColumn skips the save hooks of the owning model
	if err := s.db.Model(target).UpdateColumn("image", path).Error; err != nil {
		if delErr := s.storage.DeleteFile(path); delErr != nil {
			logrus.WithError(delErr).WithField("key", path).Warn("Failed to clean up uploaded image")
		}
		return nil, fmt.Errorf("failed to save image path: %w", err)
	}
	bearer.SetImage(path)

	logrus.WithFields(logrus.Fields{
		"entity": bearer.TypeName(),
		"key":    path,
		"size":   result.Size,
	}).Info("Image uploaded")

	return result, nil
}
