// internal/services/order_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/i18n"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

type OrderService struct {
	db                  *gorm.DB
	cartService         *CartService
	notificationService *NotificationService
	lang                string
}

type CreateOrderRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
	Email  string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type OrderListParams struct {
	utils.PaginationParams
	Status *models.OrderStatus `json:"status,omitempty"`
}

func NewOrderService(db *gorm.DB, cartService *CartService, notificationService *NotificationService, lang string) *OrderService {
	if lang == "" {
		lang = "en"
	}
	return &OrderService{
		db:                  db,
		cartService:         cartService,
		notificationService: notificationService,
		lang:                lang,
	}
}

// CreateOrder turns the customer's open cart into an order. The cart is
// recomputed and locked in the same transaction.
func (s *OrderService) CreateOrder(customerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var customer models.Customer
	if err := s.db.Preload("User").First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, notFound("customer", err)
	}
	if !customer.IsActive {
		return nil, ErrCustomerInactive
	}

	email := req.Email
	if email == "" {
		email = customer.Email
	}
	if email == "" {
		email = customer.User.Email
	}

	var order *models.Order
	var message string
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		cart, err := s.cartService.lockedCart(tx, req.CartID)
		if err != nil {
			return err
		}
		if cart.OwnerID != customerID {
			return fmt.Errorf("%w: %s", ErrCartNotOwned, cart.ID)
		}
		if len(cart.Products) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyCart, cart.ID)
		}

		if _, err := s.cartService.recomputeTx(tx, cart.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("in_order", true).Error; err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		order = &models.Order{
			CustomerID: customerID,
			CartID:     cart.ID,
			Email:      email,
			Status:     models.OrderStatusNew,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Exec("INSERT INTO customer_orders (customer_id, order_id) VALUES (?, ?)", customerID, order.ID).Error; err != nil {
			return fmt.Errorf("failed to link order: %w", err)
		}

		message = i18n.T(s.lang, i18n.KeyOrderCreated, order.ID)
		_, err = s.notificationService.notifyTx(tx, customerID, message)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": customerID,
		"cart_id":     req.CartID,
	}).Info("Order created")

	s.sendEmail(order, customer.User.Username, message)

	return s.GetOrder(order.ID)
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Customer.User").Preload("Cart.Products").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound("order", err)
	}
	return &order, nil
}

func (s *OrderService) ListOrders(customerID uuid.UUID, params OrderListParams) ([]models.Order, int64, error) {
	params.PaginationParams = params.PaginationParams.Normalize()
	query := s.db.Model(&models.Order{}).Where("customer_id = ?", customerID)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "status"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Preload("Cart").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}

// AdvanceStatus moves the order to the next status in its lifecycle.
func (s *OrderService) AdvanceStatus(id uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, fmt.Errorf("%w: %s is terminal", models.ErrInvalidTransition, order.Status)
	}
	return s.TransitionTo(id, next)
}

// TransitionTo sets the order status when target is the single allowed
// successor of the current one.
func (s *OrderService) TransitionTo(id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	var order models.Order
	var previous models.OrderStatus
	var message string

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return notFound("order", err)
		}

		previous = order.Status
		if err := order.TransitionTo(target); err != nil {
			return err
		}

		// Conditional update guards against a concurrent transition
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, previous).
			Update("status", order.Status)
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: status changed concurrently", models.ErrInvalidTransition)
		}

		message = i18n.T(s.lang, i18n.KeyOrderStatusChanged, order.ID, order.Status.Label(s.lang))
		_, err := s.notificationService.notifyTx(tx, order.CustomerID, message)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     previous,
		"to":       order.Status,
	}).Info("Order status changed")

	loaded, err := s.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}
	s.sendEmail(loaded, loaded.Customer.User.Username, message)
	return loaded, nil
}

// sendEmail failures never undo a committed order change.
func (s *OrderService) sendEmail(order *models.Order, username, message string) {
	if order.Email == "" {
		return
	}
	if err := s.notificationService.SendOrderEmail(order, username, message); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to send order email")
	}
}
