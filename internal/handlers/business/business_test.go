package business

import (
	"fmt"
	"testing"

	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

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

func seedWallet(t *testing.T, db *gorm.DB, userID uint, accountType string, total, trading, botTrading float64) *models.Wallet {
	t.Helper()

	w := models.Wallet{
		UserID:            userID,
		AccountType:       accountType,
		TotalBalance:      total,
		TradingBalance:    trading,
		BotTradingBalance: botTrading,
	}
	require.NoError(t, db.Create(&w).Error)
	return &w
}

func reloadWallet(t *testing.T, db *gorm.DB, userID uint, accountType string) *models.Wallet {
	t.Helper()

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ? AND account_type = ?", userID, accountType).First(&w).Error)
	return &w
}
