package services

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

func (suite *ServiceTestSuite) TestNotify() {
	mira := suite.customer("mira")

	n, err := suite.svc.Notifications.Notify(mira.ID, "Hello")
	suite.Require().NoError(err)
	assert.False(suite.T(), n.Read)
	assert.Nil(suite.T(), n.ReadAt)

	_, err = suite.svc.Notifications.Notify(uuid.New(), "Nobody home")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestMarkReadAndUnread() {
	mira := suite.customer("mira")
	first, err := suite.svc.Notifications.Notify(mira.ID, "first")
	suite.Require().NoError(err)
	_, err = suite.svc.Notifications.Notify(mira.ID, "second")
	suite.Require().NoError(err)

	count, err := suite.svc.Notifications.UnreadCount(mira.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), count)

	read, err := suite.svc.Notifications.MarkRead(first.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), read.Read)
	assert.NotNil(suite.T(), read.ReadAt)

	count, err = suite.svc.Notifications.UnreadCount(mira.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), count)

	unread, total, err := suite.svc.Notifications.List(mira.ID, NotificationListParams{UnreadOnly: true})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(unread, 1)
	assert.Equal(suite.T(), "second", unread[0].Text)

	again, err := suite.svc.Notifications.MarkUnread(first.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), again.Read)
	assert.Nil(suite.T(), again.ReadAt)

	var stored models.Notification
	suite.Require().NoError(suite.db.First(&stored, "id = ?", first.ID).Error)
	assert.False(suite.T(), stored.Read)
	assert.Nil(suite.T(), stored.ReadAt)

	_, err = suite.svc.Notifications.MarkRead(uuid.New())
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestListNotificationsPaginates() {
	mira := suite.customer("mira")
	rex := suite.customer("rex")
	for _, text := range []string{"a", "b", "c"} {
		_, err := suite.svc.Notifications.Notify(mira.ID, text)
		suite.Require().NoError(err)
	}
	_, err := suite.svc.Notifications.Notify(rex.ID, "other")
	suite.Require().NoError(err)

	page, total, err := suite.svc.Notifications.List(mira.ID, NotificationListParams{
		PaginationParams: utils.PaginationParams{Page: 2, Limit: 2},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), page, 1)
}

func (suite *ServiceTestSuite) TestSendOrderEmailWithoutSMTP() {
	// No SMTP host configured, the mail is skipped without error
	order := &models.Order{Email: "mira@example.com"}
	assert.NoError(suite.T(), suite.svc.Notifications.SendOrderEmail(order, "mira", "Your order is ready"))
}

func (suite *ServiceTestSuite) TestRenderOrderEmail() {
	body, err := suite.svc.Notifications.renderTemplate(orderEmailTemplate, map[string]interface{}{
		"Subject":  "Order update",
		"Username": "mira",
		"Message":  "<b>done</b>",
		"FromName": "Beatstore",
	})
	suite.Require().NoError(err)
	assert.Contains(suite.T(), body, "<h2>Order update</h2>")
	assert.Contains(suite.T(), body, "&lt;b&gt;done&lt;/b&gt;")
}
