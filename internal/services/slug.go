// internal/services/slug.go
package services

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/utils"
)

const slugSuffixLength = 6

// uniqueSlug returns the slug to store for a new row of model.
// An explicit slug must be valid and free; a generated one gets a
// random suffix when the plain form is taken.
func uniqueSlug(db *gorm.DB, model interface{}, explicit, source string) (string, error) {
	if explicit != "" {
		if !slug.IsSlug(explicit) {
			return "", fmt.Errorf("%w: %q", ErrInvalidSlug, explicit)
		}
		taken, err := slugTaken(db, model, explicit)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: %q", ErrSlugTaken, explicit)
		}
		return explicit, nil
	}

	base := slug.Make(source)
	if base == "" {
		return "", fmt.Errorf("%w: cannot derive slug from %q", ErrInvalidSlug, source)
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := slugTaken(db, model, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}

		suffix, err := utils.GenerateRandomString(slugSuffixLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug suffix: %w", err)
		}
		candidate = base + "-" + suffix
	}

	return "", fmt.Errorf("%w: %q", ErrSlugTaken, base)
}

// slugTaken also counts soft-deleted rows, the unique index covers them.
func slugTaken(db *gorm.DB, model interface{}, value string) (bool, error) {
	var count int64
	if err := db.Unscoped().Model(model).Where("slug = ?", value).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// checkSlugChange validates a slug update on an existing row.
func checkSlugChange(db *gorm.DB, model interface{}, current, next string) error {
	if next == "" || next == current {
		return nil
	}
	if !slug.IsSlug(next) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, next)
	}
	taken, err := slugTaken(db, model, next)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %q", ErrSlugTaken, next)
	}
	return nil
}
