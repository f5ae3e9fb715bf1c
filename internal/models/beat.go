// internal/models/beat.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const BeatContentType = "beat"

// maxPrice is the first value that no longer fits decimal(9,2).
var maxPrice = decimal.New(1, 7)

type Beat struct {
	BaseModel
	BeatmakerID uuid.UUID       `json:"beatmaker_id" gorm:"type:uuid;not null;index"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Slug        string          `json:"slug" gorm:"size:255;not null;uniqueIndex"`
	ReleaseDate time.Time       `json:"release_date" gorm:"type:date;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(9,2);not null"`
	Discount    bool            `json:"discount" gorm:"default:false"`
	Image       string          `json:"image,omitempty" gorm:"size:512"`

	// Relationships
	Beatmaker Beatmaker     `json:"beatmaker,omitempty" gorm:"foreignKey:BeatmakerID"`
	Genres    []Genre       `json:"genres,omitempty" gorm:"many2many:beat_genres"`
	Licenses  []LicenseType `json:"licenses,omitempty" gorm:"many2many:beat_licenses"`
}

// ValidatePrice enforces the decimal(9,2) money invariant.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() || !price.Equal(price.Round(2)) || price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price.String())
	}
	return nil
}

func (b *Beat) Validate() error {
	if b.BeatmakerID == uuid.Nil {
		return ErrBeatmakerRequired
	}
	if b.Title == "" {
		return ErrTitleRequired
	}
	return ValidatePrice(b.Price)
}

func (b *Beat) BeforeSave(tx *gorm.DB) error {
	return b.Validate()
}

func (b *Beat) String() string {
	return fmt.Sprintf("%s | %s | %s", b.ID, b.Title, b.Beatmaker.Name)
}

// ContentTypeModel is the tag a CartProduct stores for beats.
func (b *Beat) ContentTypeModel() string { return BeatContentType }

func (b *Beat) GetPrice() decimal.Decimal { return b.Price }

func (b *Beat) DisplayName() string { return b.Title }

func (b *Beat) TypeName() string { return "Beat" }

func (b *Beat) FieldValue(field string) (string, bool) {
	switch field {
	case "slug":
		return b.Slug, b.Slug != ""
	case "title", "name":
		return b.Title, b.Title != ""
	}
	return "", false
}

func (b *Beat) SetImage(path string) { b.Image = path }

// Playlist groups beats without any ordering guarantee.
type Playlist struct {
	BaseModel
	Name  string `json:"name" gorm:"size:255;not null"`
	Slug  string `json:"slug" gorm:"size:255;not null;uniqueIndex"`
	Image string `json:"image,omitempty" gorm:"size:512"`

	// Relationships
	Beats []Beat `json:"beats,omitempty" gorm:"many2many:playlist_beats"`
}

func (p *Playlist) String() string { return p.Name }

func (p *Playlist) TypeName() string { return "Playlist" }

func (p *Playlist) FieldValue(field string) (string, bool) {
	return nameSlugField(p.Name, p.Slug, field)
}

func (p *Playlist) SetImage(path string) { p.Image = path }
