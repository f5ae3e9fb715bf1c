// internal/services/customer_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

type CustomerService struct {
	db *gorm.DB
}

type CreateCustomerRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Phone  string    `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email  string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type UpdateContactRequest struct {
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// CreateCustomer binds a customer to exactly one user identity.
func (s *CustomerService) CreateCustomer(req *CreateCustomerRequest) (*models.Customer, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, req.UserID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Soft-deleted customers still hold the unique user_id
	var count int64
	if err := s.db.Unscoped().Model(&models.Customer{}).Where("user_id = ?", req.UserID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCustomerExists, req.UserID)
	}

	email := req.Email
	if email == "" {
		email = user.Email
	}

	customer := &models.Customer{
		UserID:   user.ID,
		IsActive: true,
		Phone:    req.Phone,
		Email:    email,
	}
	if err := s.db.Omit("User").Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	customer.User = user

	return customer, nil
}

func (s *CustomerService) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Preload("User").First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound("customer", err)
	}
	return &customer, nil
}

func (s *CustomerService) GetCustomerByUser(userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Preload("User").Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, notFound("customer", err)
	}
	return &customer, nil
}

func (s *CustomerService) UpdateContact(id uuid.UUID, req *UpdateContactRequest) (*models.Customer, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Phone != nil {
		updates["phone"] = *req.Phone
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
		customer.Email = *req.Email
	}
	if len(updates) == 0 {
		return customer, nil
	}

	if err := s.db.Model(&models.Customer{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Deactivate(id uuid.UUID) error {
	result := s.db.Model(&models.Customer{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer: %w", ErrNotFound)
	}
	return nil
}

// Wishlist

// AddToWishlist has set semantics, adding a beat twice keeps one entry.
func (s *CustomerService) AddToWishlist(customerID, beatID uuid.UUID) error {
	if _, err := s.GetCustomer(customerID); err != nil {
		return err
	}

	var beat models.Beat
	if err := s.db.First(&beat, "id = ?", beatID).Error; err != nil {
		return notFound("beat", err)
	}

	in, err := s.InWishlist(customerID, beatID)
	if err != nil || in {
		return err
	}

	if err := s.db.Exec("INSERT INTO customer_wishlist (customer_id, beat_id) VALUES (?, ?)", customerID, beatID).Error; err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (s *CustomerService) RemoveFromWishlist(customerID, beatID uuid.UUID) error {
	if err := s.db.Exec("DELETE FROM customer_wishlist WHERE customer_id = ? AND beat_id = ?", customerID, beatID).Error; err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

func (s *CustomerService) Wishlist(customerID uuid.UUID) ([]models.Beat, error) {
	var beats []models.Beat
	if err := s.db.Preload("Beatmaker").
		Where("id IN (?)", s.db.Table("customer_wishlist").Select("beat_id").Where("customer_id = ?", customerID)).
		Order("title ASC").
		Find(&beats).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist: %w", err)
	}
	return beats, nil
}

func (s *CustomerService) InWishlist(customerID, beatID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Table("customer_wishlist").
		Where("customer_id = ? AND beat_id = ?", customerID, beatID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// ListOrders returns the orders linked to the customer, newest first.
func (s *CustomerService) ListOrders(customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Preload("Cart").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

// DeleteCustomer removes the customer and everything it owns: carts and
// their products, orders, notifications and wishlist links.
func (s *CustomerService) DeleteCustomer(id uuid.UUID) error {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return err
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		steps := []struct {
			what string
			run  func() error
		}{
			{"cart products", func() error {
				return tx.Unscoped().Where("customer_id = ?", id).Delete(&models.CartProduct{}).Error
			}},
			{"order links", func() error {
				return tx.Exec("DELETE FROM customer_orders WHERE customer_id = ?", id).Error
			}},
			{"orders", func() error {
				return tx.Where("customer_id = ?", id).Delete(&models.Order{}).Error
			}},
			{"carts", func() error {
				return tx.Where("owner_id = ?", id).Delete(&models.Cart{}).Error
			}},
			{"notifications", func() error {
				return tx.Where("recipient_id = ?", id).Delete(&models.Notification{}).Error
			}},
			{"wishlist", func() error {
				return tx.Exec("DELETE FROM customer_wishlist WHERE customer_id = ?", id).Error
			}},
			{"customer", func() error {
				return tx.Delete(customer).Error
			}},
		}

		for _, step := range steps {
			if err := step.run(); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.what, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": id,
		"username":    customer.String(),
	}).Info("Customer deleted")
	return nil
}
