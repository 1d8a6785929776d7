package business

import (
	"sync"

	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationEvent is the payload pushed to the worker queue after a
// notification row is committed.
type NotificationEvent struct {
	NotificationID uint   `json:"notification_id"`
	UserID         uint   `json:"user_id"`
	Type           string `json:"type"`
}

var (
	publisher     *dbconfig.Publisher
	publisherOnce sync.Once
)

// insertNotification writes the notification row inside the caller's
// transaction. Dispatch happens after commit via DispatchNotification.
func insertNotification(tx *gorm.DB, userID uint, notifType, title, body string) (*models.Notification, error) {
	n := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}
	if err := tx.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// DispatchNotification publishes a dispatch event for the worker. Best
// effort: the row is already committed, the worker also picks up undispatched
// rows on its own, so a publish failure is only logged.
func DispatchNotification(n *models.Notification) {
	if n == nil || dbconfig.RabbitMQ == nil {
		return
	}

	publisherOnce.Do(func() {
		p, err := dbconfig.NewPublisher()
		if err != nil {
			logrus.Warnf("Failed to create notification publisher: %v", err)
			return
		}
		publisher = p
	})
	if publisher == nil {
		return
	}

	event := NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
	}
	if err := publisher.Publish(dbconfig.NotificationQueue, event); err != nil {
		logrus.Warnf("Failed to publish notification event %d: %v", n.ID, err)
	}
}
