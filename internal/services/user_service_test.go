package services

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *ServiceTestSuite) TestCreateUser() {
	user, err := suite.svc.Users.CreateUser(&CreateUserRequest{
		Username: "mira",
		Email:    "mira@example.com",
		Password: "longenough",
	})
	suite.Require().NoError(err)
	assert.NoError(suite.T(), user.CheckPassword("longenough"))

	_, err = suite.svc.Users.CreateUser(&CreateUserRequest{Username: "mira"})
	assert.ErrorIs(suite.T(), err, ErrUsernameTaken)

	_, err = suite.svc.Users.CreateUser(&CreateUserRequest{Username: "ab"})
	assert.Error(suite.T(), err)

	_, err = suite.svc.Users.CreateUser(&CreateUserRequest{Username: "shortpw", Password: "short"})
	assert.Error(suite.T(), err)

	found, err := suite.svc.Users.GetUserByUsername("mira")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), user.ID, found.ID)

	_, err = suite.svc.Users.GetUserByID(uuid.New())
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
