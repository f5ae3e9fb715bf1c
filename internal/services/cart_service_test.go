package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/upload"
)

// bundle is a sellable type no resolver is registered for.
type bundle struct {
	id uuid.UUID
}

func (b bundle) ContentTypeModel() string { return "bundle" }

func (b bundle) GetID() uuid.UUID { return b.id }

func (b bundle) GetPrice() decimal.Decimal { return decimal.NewFromInt(1) }

func (b bundle) DisplayName() string { return "Bundle" }

func (suite *ServiceTestSuite) TestGetOrCreateOpenCart() {
	mira := suite.customer("mira")

	cart, err := suite.svc.Carts.GetOrCreateOpenCart(mira.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), mira.ID, cart.OwnerID)
	assert.Equal(suite.T(), 0, cart.TotalProducts)
	assert.True(suite.T(), cart.FinalPrice.IsZero())

	again, err := suite.svc.Carts.GetOrCreateOpenCart(mira.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), cart.ID, again.ID)

	_, err = suite.svc.Carts.GetOrCreateOpenCart(uuid.New())
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	suite.Require().NoError(suite.svc.Customers.Deactivate(mira.ID))
	_, err = suite.svc.Carts.GetOrCreateOpenCart(mira.ID)
	assert.ErrorIs(suite.T(), err, ErrCustomerInactive)
}

func (suite *ServiceTestSuite) TestAddAndRemoveProducts() {
	bm := suite.beatmaker("Kosmo")
	b1 := suite.beat(bm, "Night Drive", "19.99")
	b2 := suite.beat(bm, "Fog", "0.01")
	mira := suite.customer("mira")

	cart := suite.cartWith(mira, b1, b2)
	assert.Equal(suite.T(), 2, cart.TotalProducts)
	suite.assertMoney("20.00", cart.FinalPrice)

	// Adding the same beat again keeps a single line item
	cart, err := suite.svc.Carts.AddProduct(cart.ID, b1)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, cart.TotalProducts)
	suite.Require().Len(cart.Products, 2)

	for _, cp := range cart.Products {
		assert.Equal(suite.T(), mira.ID, cp.CustomerID)
		assert.Equal(suite.T(), models.BeatContentType, cp.ContentType)
		obj, err := cp.ContentObject()
		suite.Require().NoError(err)
		assert.Implements(suite.T(), (*models.Sellable)(nil), obj)
	}

	cart, err = suite.svc.Carts.RemoveProduct(cart.ID, b1)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, cart.TotalProducts)
	suite.assertMoney("0.01", cart.FinalPrice)

	_, err = suite.svc.Carts.RemoveProduct(cart.ID, b1)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestStoredPriceWins() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Night Drive", "19.99")
	cart := suite.cartWith(suite.customer("mira"))

	stale := *beat
	stale.Price = decimal.RequireFromString("1.00")
	cart, err := suite.svc.Carts.AddProduct(cart.ID, &stale)
	suite.Require().NoError(err)
	suite.assertMoney("19.99", cart.FinalPrice)
}

func (suite *ServiceTestSuite) TestRecomputeMatchesReferents() {
	bm := suite.beatmaker("Kosmo")
	b1 := suite.beat(bm, "One", "1.10")
	b2 := suite.beat(bm, "Two", "2.20")
	cart := suite.cartWith(suite.customer("mira"), b1, b2)

	// Corrupt the stored aggregates, Recompute restores them
	suite.Require().NoError(suite.db.Model(&models.Cart{}).Where("id = ?", cart.ID).
		Updates(map[string]interface{}{"total_products": 9, "final_price": decimal.NewFromInt(99)}).Error)

	cart, err := suite.svc.Carts.Recompute(cart.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, cart.TotalProducts)
	suite.assertMoney("3.30", cart.FinalPrice)

	items, err := suite.svc.Carts.ResolveAll(cart)
	suite.Require().NoError(err)
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.GetPrice())
	}
	suite.assertMoney(sum.String(), cart.FinalPrice)
}

func (suite *ServiceTestSuite) TestUnresolvableReference() {
	cart := suite.cartWith(suite.customer("mira"))

	_, err := suite.svc.Carts.AddProduct(cart.ID, bundle{id: uuid.New()})
	assert.ErrorIs(suite.T(), err, ErrUnresolvableReference)

	_, err = suite.svc.Carts.Resolve(&models.CartProduct{ContentType: "bundle", ObjectID: uuid.New()})
	assert.ErrorIs(suite.T(), err, ErrUnresolvableReference)
}

func (suite *ServiceTestSuite) TestCustomResolverRegistration() {
	id := uuid.New()
	suite.svc.Carts.RegisterResolver("bundle", SellableResolverFunc(func(_ *gorm.DB, got uuid.UUID) (models.Sellable, error) {
		if got != id {
			return nil, models.ErrMissingReferent
		}
		return bundle{id: id}, nil
	}))

	cart := suite.cartWith(suite.customer("mira"))
	cart, err := suite.svc.Carts.AddProduct(cart.ID, bundle{id: id})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, cart.TotalProducts)
	suite.assertMoney("1", cart.FinalPrice)
}

func (suite *ServiceTestSuite) TestMissingReferentAfterOrder() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Ephemeral", "7.77")
	mira := suite.customer("mira")
	cart := suite.cartWith(mira, beat)

	_, err := suite.svc.Orders.CreateOrder(mira.ID, &CreateOrderRequest{CartID: cart.ID})
	suite.Require().NoError(err)

	// Ordered carts keep their line items when the beat goes away
	suite.Require().NoError(suite.svc.Beats.DeleteBeat(beat.ID))

	cart, err = suite.svc.Carts.GetCart(cart.ID)
	suite.Require().NoError(err)
	suite.Require().Len(cart.Products, 1)
	assert.Equal(suite.T(), 1, cart.TotalProducts)
	suite.assertMoney("7.77", cart.FinalPrice)

	cp := &cart.Products[0]
	_, err = cp.ContentObject()
	assert.ErrorIs(suite.T(), err, models.ErrMissingReferent)

	_, err = suite.svc.Carts.Resolve(cp)
	assert.ErrorIs(suite.T(), err, models.ErrMissingReferent)

	_, err = suite.svc.Carts.ResolveAll(cart)
	assert.ErrorIs(suite.T(), err, models.ErrMissingReferent)

	// The upload resolver reports the same condition
	resolver, err := upload.NewResolver(upload.DefaultConfig())
	suite.Require().NoError(err)
	_, err = resolver.Path(cp, "cover.png")
	assert.ErrorIs(suite.T(), err, models.ErrMissingReferent)
}

func (suite *ServiceTestSuite) TestOrderedCartIsLocked() {
	bm := suite.beatmaker("Kosmo")
	b1 := suite.beat(bm, "One", "1.00")
	b2 := suite.beat(bm, "Two", "2.00")
	mira := suite.customer("mira")
	cart := suite.cartWith(mira, b1)

	_, err := suite.svc.Orders.CreateOrder(mira.ID, &CreateOrderRequest{CartID: cart.ID})
	suite.Require().NoError(err)

	_, err = suite.svc.Carts.AddProduct(cart.ID, b2)
	assert.ErrorIs(suite.T(), err, models.ErrCartLocked)

	_, err = suite.svc.Carts.RemoveProduct(cart.ID, b1)
	assert.ErrorIs(suite.T(), err, models.ErrCartLocked)

	// Later price changes never reach the ordered snapshot
	price := decimal.RequireFromString("99.00")
	_, err = suite.svc.Beats.UpdateBeat(b1.ID, &UpdateBeatRequest{Price: &price})
	suite.Require().NoError(err)

	_, err = suite.svc.Carts.Recompute(cart.ID)
	assert.ErrorIs(suite.T(), err, models.ErrCartLocked)

	stored, err := suite.svc.Carts.GetCart(cart.ID)
	suite.Require().NoError(err)
	suite.assertMoney("1.00", stored.FinalPrice)
	assert.Equal(suite.T(), 1, stored.TotalProducts)

	// A fresh open cart is handed out afterwards
	open, err := suite.svc.Carts.GetOrCreateOpenCart(mira.ID)
	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), cart.ID, open.ID)
	assert.False(suite.T(), open.InOrder)
}
