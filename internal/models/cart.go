// internal/models/cart.go
package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/placese/placese-beatstore/internal/i18n"
)

// CartProduct is a line item holding a (content type, object id) reference
// to a sellable entity. The reference does not keep the entity alive.
type CartProduct struct {
	BaseModel
	CustomerID  uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	CartID      uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index"`
	ContentType string    `json:"content_type" gorm:"size:100;not null;index:idx_cart_products_content"`
	ObjectID    uuid.UUID `json:"object_id" gorm:"type:uuid;not null;index:idx_cart_products_content"`

	// Resolved referent, filled by the cart service.
	Content Sellable `json:"content,omitempty" gorm:"-"`

	// Relationships
	Customer Customer `json:"-" gorm:"foreignKey:CustomerID"`
}

// NewCartProduct points a line item at item.
func NewCartProduct(cart *Cart, item Sellable) *CartProduct {
	return &CartProduct{
		CustomerID:  cart.OwnerID,
		CartID:      cart.ID,
		ContentType: item.ContentTypeModel(),
		ObjectID:    item.GetID(),
		Content:     item,
	}
}

// ContentObject returns the resolved referent or ErrMissingReferent.
func (cp *CartProduct) ContentObject() (any, error) {
	if cp.Content == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingReferent, cp.ContentType, cp.ObjectID)
	}
	return cp.Content, nil
}

func (cp *CartProduct) Refers(item Sellable) bool {
	return cp.ContentType == item.ContentTypeModel() && cp.ObjectID == item.GetID()
}

func (cp *CartProduct) TypeName() string { return "CartProduct" }

func (cp *CartProduct) Display(lang string) string {
	name := "?"
	if cp.Content != nil {
		name = cp.Content.DisplayName()
	}
	return i18n.T(lang, i18n.KeyCartProductDisplay, name)
}

type Cart struct {
	BaseModel
	OwnerID          uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;index"`
	TotalProducts    int             `json:"total_products" gorm:"not null;default:0"`
	FinalPrice       decimal.Decimal `json:"final_price" gorm:"type:decimal(9,2);not null"`
	InOrder          bool            `json:"in_order" gorm:"default:false"`
	ForAnonymousUser bool            `json:"for_anonymous_user" gorm:"default:false"`

	// Relationships
	Owner    Customer      `json:"-" gorm:"foreignKey:OwnerID"`
	Products []CartProduct `json:"products,omitempty" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// Recompute derives the aggregates from the given referents.
func (c *Cart) Recompute(items []Sellable) {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.GetPrice())
	}
	c.TotalProducts = len(items)
	c.FinalPrice = total.Round(2)
}

func (c *Cart) String() string {
	return c.ID.String()
}
