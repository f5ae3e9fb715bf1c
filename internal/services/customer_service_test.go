package services

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/placese/placese-beatstore/internal/models"
)

func (suite *ServiceTestSuite) TestCreateCustomer() {
	mira := suite.customer("mira")
	assert.True(suite.T(), mira.IsActive)
	assert.Equal(suite.T(), "mira@example.com", mira.Email)
	assert.Equal(suite.T(), "mira", mira.String())

	// One customer per identity
	_, err := suite.svc.Customers.CreateCustomer(&CreateCustomerRequest{UserID: mira.UserID})
	assert.ErrorIs(suite.T(), err, ErrCustomerExists)

	_, err = suite.svc.Customers.CreateCustomer(&CreateCustomerRequest{UserID: uuid.New()})
	assert.ErrorIs(suite.T(), err, ErrIdentityNotFound)

	byUser, err := suite.svc.Customers.GetCustomerByUser(mira.UserID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), mira.ID, byUser.ID)

	_, err = suite.svc.Customers.GetCustomer(uuid.New())
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestUpdateContact() {
	mira := suite.customer("mira")

	phone := "+7 900 000-00-00"
	updated, err := suite.svc.Customers.UpdateContact(mira.ID, &UpdateContactRequest{Phone: &phone})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), phone, updated.Phone)
	assert.Equal(suite.T(), "mira@example.com", updated.Email)

	bad := "nope"
	_, err = suite.svc.Customers.UpdateContact(mira.ID, &UpdateContactRequest{Email: &bad})
	assert.Error(suite.T(), err)

	got, err := suite.svc.Customers.GetCustomer(mira.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), phone, got.Phone)
	assert.Equal(suite.T(), "mira@example.com", got.Email)
}

func (suite *ServiceTestSuite) TestWishlist() {
	bm := suite.beatmaker("Kosmo")
	b1 := suite.beat(bm, "Zephyr", "1.00")
	b2 := suite.beat(bm, "Aria", "2.00")
	mira := suite.customer("mira")

	suite.Require().NoError(suite.svc.Customers.AddToWishlist(mira.ID, b1.ID))
	suite.Require().NoError(suite.svc.Customers.AddToWishlist(mira.ID, b1.ID))
	suite.Require().NoError(suite.svc.Customers.AddToWishlist(mira.ID, b2.ID))

	beats, err := suite.svc.Customers.Wishlist(mira.ID)
	suite.Require().NoError(err)
	suite.Require().Len(beats, 2)
	assert.Equal(suite.T(), "Aria", beats[0].Title)
	assert.Equal(suite.T(), "Kosmo", beats[0].Beatmaker.Name)

	assert.ErrorIs(suite.T(), suite.svc.Customers.AddToWishlist(mira.ID, uuid.New()), ErrNotFound)
	assert.ErrorIs(suite.T(), suite.svc.Customers.AddToWishlist(uuid.New(), b1.ID), ErrNotFound)

	suite.Require().NoError(suite.svc.Customers.RemoveFromWishlist(mira.ID, b1.ID))
	in, err := suite.svc.Customers.InWishlist(mira.ID, b1.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), in)

	in, err = suite.svc.Customers.InWishlist(mira.ID, b2.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), in)
}

func (suite *ServiceTestSuite) TestDeleteCustomerCascades() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Fog", "1.00")
	mira := suite.customer("mira")
	rex := suite.customer("rex")

	suite.Require().NoError(suite.svc.Customers.AddToWishlist(mira.ID, beat.ID))
	ordered := suite.cartWith(mira, beat)
	_, err := suite.svc.Orders.CreateOrder(mira.ID, &CreateOrderRequest{CartID: ordered.ID})
	suite.Require().NoError(err)
	suite.cartWith(mira, beat)

	kept := suite.cartWith(rex, beat)

	suite.Require().NoError(suite.svc.Customers.DeleteCustomer(mira.ID))

	_, err = suite.svc.Customers.GetCustomer(mira.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	count := func(model interface{}, where string) int64 {
		var n int64
		suite.db.Model(model).Where(where, mira.ID).Count(&n)
		return n
	}
	assert.Zero(suite.T(), count(&models.Cart{}, "owner_id = ?"))
	assert.Zero(suite.T(), count(&models.Order{}, "customer_id = ?"))
	assert.Zero(suite.T(), count(&models.Notification{}, "recipient_id = ?"))
	assert.Zero(suite.T(), count(&models.CartProduct{}, "customer_id = ?"))

	var links int64
	suite.db.Table("customer_wishlist").Where("customer_id = ?", mira.ID).Count(&links)
	assert.Zero(suite.T(), links)
	suite.db.Table("customer_orders").Where("customer_id = ?", mira.ID).Count(&links)
	assert.Zero(suite.T(), links)

	// Other customers and the beat itself are untouched
	cart, err := suite.svc.Carts.GetCart(kept.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, cart.TotalProducts)
	_, err = suite.svc.Beats.GetBeat(beat.ID)
	assert.NoError(suite.T(), err)

	// The identity survives but stays reserved by the deleted customer
	_, err = suite.svc.Users.GetUserByID(mira.UserID)
	assert.NoError(suite.T(), err)
	_, err = suite.svc.Customers.CreateCustomer(&CreateCustomerRequest{UserID: mira.UserID})
	assert.ErrorIs(suite.T(), err, ErrCustomerExists)
}
