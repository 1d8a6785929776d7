package chat

import (
	"fmt"
	"testing"

	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbconfig.MigrateModels(db))
	return db
}

func newTestClient(t *testing.T, db *gorm.DB, ticketID, userID uint, role string) *Client {
	t.Helper()

	return &Client{
		hub:      NewHub(),
		db:       db,
		ticketID: ticketID,
		userID:   userID,
		role:     role,
		send:     make(chan []byte, 64),
	}
}

func TestHandleMessageWithoutClientIDKeepsEveryMessage(t *testing.T) {
	db := newTestDB(t)
	c := newTestClient(t, db, 1, 7, "user")

	c.handleMessage(Event{Type: "message", Body: "first message"})
	c.handleMessage(Event{Type: "message", Body: "second message"})

	var msgs []models.SupportMessage
	require.NoError(t, db.Where("ticket_id = ?", 1).Order("id").Find(&msgs).Error)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first message", msgs[0].Body)
	assert.Equal(t, "second message", msgs[1].Body)
	assert.NotEmpty(t, msgs[0].ClientMsgID)
	assert.NotEmpty(t, msgs[1].ClientMsgID)
	assert.NotEqual(t, msgs[0].ClientMsgID, msgs[1].ClientMsgID)
}

func TestHandleMessageDeduplicatesResends(t *testing.T) {
	db := newTestDB(t)
	c := newTestClient(t, db, 1, 7, "user")

	c.handleMessage(Event{Type: "message", Body: "hello", ClientMsgID: "msg-1"})
	c.handleMessage(Event{Type: "message", Body: "hello", ClientMsgID: "msg-1"})

	var count int64
	require.NoError(t, db.Model(&models.SupportMessage{}).
		Where("ticket_id = ? AND client_msg_id = ?", 1, "msg-1").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHandleMessageIgnoresEmptyBody(t *testing.T) {
	db := newTestDB(t)
	c := newTestClient(t, db, 1, 7, "user")

	c.handleMessage(Event{Type: "message", Body: "   ", ClientMsgID: "msg-1"})

	var count int64
	require.NoError(t, db.Model(&models.SupportMessage{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
