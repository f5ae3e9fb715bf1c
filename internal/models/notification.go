// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/placese/placese-beatstore/internal/i18n"
)

type Notification struct {
	BaseModel
	RecipientID uuid.UUID  `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Text        string     `json:"text" gorm:"type:text;not null"`
	Read        bool       `json:"read" gorm:"default:false;index"`
	ReadAt      *time.Time `json:"read_at"`

	// Relationships
	Recipient Customer `json:"-" gorm:"foreignKey:RecipientID"`
}

func (n *Notification) Display(lang string) string {
	return i18n.T(lang, i18n.KeyNotificationDisplay, n.Recipient.User.Username, n.ID)
}

func (n *Notification) String() string {
	return n.Display("en")
}
