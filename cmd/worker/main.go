package main

import (
	"encoding/json"
	"log"
	"time"

	"brokercontrol/internal/handlers/business"
	"brokercontrol/internal/models"
	"brokercontrol/pkg/config"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	// Sweep notifications the publisher missed (crashes between commit
	// and publish).
	go sweepUndispatched()

	msgConsumer, err := config.NewConsumer(config.NotificationQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Notification worker started, waiting for messages...")

	err = msgConsumer.Consume(func(msg []byte) error {
		var event business.NotificationEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			logrus.Errorf("Failed to unmarshal notification event: %v", err)
			return err
		}
		return dispatch(event.NotificationID)
	})
	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}

// dispatch delivers one notification and marks it dispatched. Delivery here
// means handing off to the external channel; marking is idempotent.
func dispatch(notificationID uint) error {
	var n models.Notification
	if err := config.DB.First(&n, notificationID).Error; err != nil {
		logrus.Errorf("Notification %d not found: %v", notificationID, err)
		return nil // don't requeue a row that will never appear
	}
	if n.Dispatched {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"type":            n.Type,
		"title":           n.Title,
	}).Info("Delivering notification")

	return config.DB.Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Update("dispatched", true).Error
}

// sweepUndispatched periodically picks up rows the event path missed.
func sweepUndispatched() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		var pending []models.Notification
		if err := config.DB.Where("dispatched = ?", false).
			Order("id ASC").Limit(500).Find(&pending).Error; err != nil {
			logrus.Errorf("Failed to load undispatched notifications: %v", err)
			continue
		}
		for _, n := range pending {
			if err := dispatch(n.ID); err != nil {
				logrus.Errorf("Failed to dispatch notification %d: %v", n.ID, err)
			}
		}
	}
}
