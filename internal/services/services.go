// internal/services/services.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/config"
	"github.com/placese/placese-beatstore/internal/models"
)

// Services bundles every service wired against one database.
type Services struct {
	Users         *UserService
	Catalog       *CatalogService
	Beats         *BeatService
	Playlists     *PlaylistService
	Customers     *CustomerService
	Carts         *CartService
	Orders        *OrderService
	Notifications *NotificationService
	Storage       *StorageService
	Images        *ImageService
}

func New(db *gorm.DB, cfg *config.Config) (*Services, error) {
	storageService, err := NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	resolver, err := NewUploadResolver(cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("invalid upload configuration: %w", err)
	}

	cartService := NewCartService(db)
	beatService := NewBeatService(db, cartService)
	notificationService := NewNotificationService(db, cfg)

	// Sellable types the cart can hold
	cartService.RegisterResolver(models.BeatContentType, SellableResolverFunc(beatService.ResolveBeat))

	return &Services{
		Users:         NewUserService(db),
		Catalog:       NewCatalogService(db, beatService),
		Beats:         beatService,
		Playlists:     NewPlaylistService(db),
		Customers:     NewCustomerService(db),
		Carts:         cartService,
		Orders:        NewOrderService(db, cartService, notificationService, cfg.I18n.DefaultLocale),
		Notifications: notificationService,
		Storage:       storageService,
		Images:        NewImageService(db, resolver, storageService),
	}, nil
}
