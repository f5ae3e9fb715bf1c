// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrSlugTaken             = errors.New("slug is already taken")
	ErrInvalidSlug           = errors.New("slug must be lowercase letters, digits and hyphens")
	ErrCustomerExists        = errors.New("customer already exists for this identity")
	ErrIdentityNotFound      = errors.New("user identity not found")
	ErrUnresolvableReference = errors.New("no resolver registered for content type")
	ErrEmptyCart             = errors.New("cart has no products")
	ErrCartNotOwned          = errors.New("cart does not belong to customer")
	ErrCustomerInactive      = errors.New("customer account is not active")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrImageTooLarge         = errors.New("image exceeds maximum allowed size")
	ErrInvalidImage          = errors.New("invalid image file")
	ErrNotImageBearing       = errors.New("entity has no image field")
	ErrStorageNotConfigured  = errors.New("S3 client not configured")
)

// notFound maps gorm's not-found error onto ErrNotFound and wraps the rest.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("database error: %w", err)
}
