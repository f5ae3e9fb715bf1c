// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/placese/placese-beatstore/internal/config"
	"github.com/placese/placese-beatstore/internal/i18n"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/utils"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type NotificationListParams struct {
	utils.PaginationParams
	UnreadOnly bool `json:"unread_only"`
}

var orderEmailTemplate = template.Must(template.New("order").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Subject}}</h2>
	<p>{{.Username}},</p>
	<p>{{.Message}}</p>
	<p>{{.FromName}}</p>
</body>
</html>`))

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Notify stores a message for the customer.
func (s *NotificationService) Notify(recipientID uuid.UUID, text string) (*models.Notification, error) {
	return s.notifyTx(s.db, recipientID, text)
}

func (s *NotificationService) notifyTx(tx *gorm.DB, recipientID uuid.UUID, text string) (*models.Notification, error) {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", recipientID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("recipient: %w", ErrNotFound)
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		Text:        text,
	}
	if err := tx.Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

func (s *NotificationService) MarkRead(id uuid.UUID) (*models.Notification, error) {
	now := time.Now()
	return s.setRead(id, true, &now)
}

func (s *NotificationService) MarkUnread(id uuid.UUID) (*models.Notification, error) {
	return s.setRead(id, false, nil)
}

func (s *NotificationService) setRead(id uuid.UUID, read bool, at *time.Time) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, "id = ?", id).Error; err != nil {
		return nil, notFound("notification", err)
	}

	if err := s.db.Model(&notification).Updates(map[string]interface{}{
		"read":    read,
		"read_at": at,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}

	notification.Read = read
	notification.ReadAt = at
	return &notification, nil
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(recipientID uuid.UUID, params NotificationListParams) ([]models.Notification, int64, error) {
	params.PaginationParams = params.PaginationParams.Normalize()
	query := s.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)

	if params.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// SendOrderEmail mails a copy of an order notification to the order address.
func (s *NotificationService) SendOrderEmail(order *models.Order, username, message string) error {
	lang := s.config.I18n.DefaultLocale
	subject := i18n.T(lang, i18n.KeyOrderEmailSubject)

	body, err := s.renderTemplate(orderEmailTemplate, map[string]interface{}{
		"Subject":  subject,
		"Username": username,
		"Message":  message,
		"FromName": s.config.Email.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(order.Email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Debug("SMTP not configured, email skipped")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
