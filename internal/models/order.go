// internal/models/order.go
package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/placese/placese-beatstore/internal/i18n"
)

var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusNew:        OrderStatusInProgress,
	OrderStatusInProgress: OrderStatusCompleted,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusCompleted:
		return true
	}
	return false
}

// Next returns the single status reachable from s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderTransitions[s]
	return next, ok
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

func (s OrderStatus) IsTerminal() bool {
	_, ok := s.Next()
	return s.IsValid() && !ok
}

func (s OrderStatus) Label(lang string) string {
	switch s {
	case OrderStatusNew:
		return i18n.T(lang, i18n.KeyOrderStatusNew)
	case OrderStatusInProgress:
		return i18n.T(lang, i18n.KeyOrderStatusInProgress)
	case OrderStatusCompleted:
		return i18n.T(lang, i18n.KeyOrderStatusCompleted)
	}
	return string(s)
}

// Order is a snapshot of a cart tied to its customer.
type Order struct {
	BaseModel
	CustomerID uuid.UUID   `json:"customer_id" gorm:"type:uuid;not null;index"`
	CartID     uuid.UUID   `json:"cart_id" gorm:"type:uuid;not null;uniqueIndex"`
	Email      string      `json:"email" gorm:"size:255;not null"`
	Status     OrderStatus `json:"status" gorm:"type:varchar(20);default:'new';index"`

	// Relationships
	Customer Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Cart     Cart     `json:"cart,omitempty" gorm:"foreignKey:CartID"`
}

// TransitionTo moves the order one step forward.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	return nil
}

func (o *Order) String() string {
	return o.ID.String()
}
