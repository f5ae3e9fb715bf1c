// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/models"
)

// SellableResolver fetches the entity behind a cart product reference.
// A deleted entity must surface as models.ErrMissingReferent.
type SellableResolver interface {
	Resolve(db *gorm.DB, id uuid.UUID) (models.Sellable, error)
}

type SellableResolverFunc func(db *gorm.DB, id uuid.UUID) (models.Sellable, error)

func (f SellableResolverFunc) Resolve(db *gorm.DB, id uuid.UUID) (models.Sellable, error) {
	return f(db, id)
}

type CartService struct {
	db *gorm.DB

	mu        sync.RWMutex
	resolvers map[string]SellableResolver
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		db:        db,
		resolvers: make(map[string]SellableResolver),
	}
}

// RegisterResolver binds a content type tag to the lookup for that type.
func (s *CartService) RegisterResolver(contentType string, resolver SellableResolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolvers[contentType] = resolver
}

func (s *CartService) resolver(contentType string) (SellableResolver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resolvers[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableReference, contentType)
	}
	return r, nil
}

// GetOrCreateOpenCart returns the customer's cart that is not yet part of an order.
func (s *CartService) GetOrCreateOpenCart(customerID uuid.UUID) (*models.Cart, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, notFound("customer", err)
	}
	if !customer.IsActive {
		return nil, ErrCustomerInactive
	}

	var cart models.Cart
	err := s.db.Where("owner_id = ? AND in_order = ?", customerID, false).
		Order("created_at DESC").First(&cart).Error
	if err == nil {
		return s.GetCart(cart.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{OwnerID: customerID}
	cart.Recompute(nil)
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// GetCart loads a cart with its products resolved. Products whose referent
// is gone keep a nil Content, ContentObject reports them as missing.
func (s *CartService) GetCart(cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(s.db, cartID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Products {
		if _, err := s.resolveTx(s.db, &cart.Products[i]); err != nil && !errors.Is(err, models.ErrMissingReferent) {
			return nil, err
		}
	}
	return cart, nil
}

// AddProduct puts item in the cart and recomputes the totals. Adding an
// item that is already in the cart is a no-op.
func (s *CartService) AddProduct(cartID uuid.UUID, item models.Sellable) (*models.Cart, error) {
	resolver, err := s.resolver(item.ContentTypeModel())
	if err != nil {
		return nil, err
	}

	var cart *models.Cart
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		current, err := s.lockedCart(tx, cartID)
		if err != nil {
			return err
		}

		// The stored entity is the source of truth for price
		stored, err := resolver.Resolve(tx, item.GetID())
		if err != nil {
			return err
		}

		for i := range current.Products {
			if current.Products[i].Refers(stored) {
				cart = current
				return nil
			}
		}

		cp := models.NewCartProduct(current, stored)
		if err := tx.Create(cp).Error; err != nil {
			return fmt.Errorf("failed to add product: %w", err)
		}

		cart, err = s.recomputeTx(tx, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"cart_id":      cartID,
		"content_type": item.ContentTypeModel(),
		"object_id":    item.GetID(),
	}).Debug("Product added to cart")

	return s.GetCart(cart.ID)
}

// RemoveProduct drops every line item referring to item and recomputes the totals.
func (s *CartService) RemoveProduct(cartID uuid.UUID, item models.Sellable) (*models.Cart, error) {
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if _, err := s.lockedCart(tx, cartID); err != nil {
			return err
		}

		result := tx.Unscoped().
			Where("cart_id = ? AND content_type = ? AND object_id = ?", cartID, item.ContentTypeModel(), item.GetID()).
			Delete(&models.CartProduct{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("cart product: %w", ErrNotFound)
		}

		_, err := s.recomputeTx(tx, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(cartID)
}

// Recompute rederives total_products and final_price from the referents.
// Ordered carts are snapshots and return models.ErrCartLocked.
func (s *CartService) Recompute(cartID uuid.UUID) (*models.Cart, error) {
	var cart *models.Cart
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if _, err := s.lockedCart(tx, cartID); err != nil {
			return err
		}
		var err error
		cart, err = s.recomputeTx(tx, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Resolve fills cp.Content from the registered resolver for its type tag.
func (s *CartService) Resolve(cp *models.CartProduct) (models.Sellable, error) {
	return s.resolveTx(s.db, cp)
}

// ResolveAll resolves every product of the cart, failing on the first
// unresolvable one.
func (s *CartService) ResolveAll(cart *models.Cart) ([]models.Sellable, error) {
	return s.resolveAllTx(s.db, cart)
}

// Helper methods

func (s *CartService) loadCart(db *gorm.DB, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&cart, "id = ?", cartID).Error; err != nil {
		return nil, notFound("cart", err)
	}
	return &cart, nil
}

// lockedCart loads a cart that may still be mutated.
func (s *CartService) lockedCart(tx *gorm.DB, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(tx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.InOrder {
		return nil, fmt.Errorf("%w: %s", models.ErrCartLocked, cart.ID)
	}
	return cart, nil
}

func (s *CartService) recomputeTx(tx *gorm.DB, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(tx, cartID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveAllTx(tx, cart)
	if err != nil {
		return nil, err
	}
	cart.Recompute(items)

	if err := tx.Model(cart).Updates(map[string]interface{}{
		"total_products": cart.TotalProducts,
		"final_price":    cart.FinalPrice,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart totals: %w", err)
	}
	return cart, nil
}

func (s *CartService) resolveTx(db *gorm.DB, cp *models.CartProduct) (models.Sellable, error) {
	resolver, err := s.resolver(cp.ContentType)
	if err != nil {
		return nil, err
	}

	item, err := resolver.Resolve(db, cp.ObjectID)
	if err != nil {
		cp.Content = nil
		return nil, err
	}
	cp.Content = item
	return item, nil
}

func (s *CartService) resolveAllTx(db *gorm.DB, cart *models.Cart) ([]models.Sellable, error) {
	items := make([]models.Sellable, 0, len(cart.Products))
	for i := range cart.Products {
		item, err := s.resolveTx(db, &cart.Products[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
