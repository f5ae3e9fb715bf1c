// internal/models/customer.go
package models

import (
	"github.com/google/uuid"
)

// Customer wraps exactly one identity from the users table.
type Customer struct {
	BaseModel
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	IsActive bool      `json:"is_active" gorm:"default:true"`
	Phone    string    `json:"phone" gorm:"size:20"`
	Email    string    `json:"email" gorm:"size:255"`

	// Relationships
	User           User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Wishlist       []Beat  `json:"wishlist,omitempty" gorm:"many2many:customer_wishlist"`
	CustomerOrders []Order `json:"customer_orders,omitempty" gorm:"many2many:customer_orders"`
	Orders         []Order `json:"orders,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Carts          []Cart  `json:"carts,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (c *Customer) String() string {
	return c.User.Username
}
