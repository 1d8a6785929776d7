package business

import (
	"testing"

	"brokercontrol/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferBalance(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	wallet, err := TransferBalance(db, 1, "live", "total", "bot_trading", 400)
	require.NoError(t, err)

	assert.Equal(t, 600.0, wallet.TotalBalance)
	assert.Equal(t, 400.0, wallet.BotTradingBalance)

	var txRow models.Transaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", 1, "transfer").First(&txRow).Error)
	assert.Equal(t, 400.0, txRow.Amount)
}

func TestTransferBalanceInsufficient(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 100, 0, 0)

	_, err := TransferBalance(db, 1, "live", "total", "trading", 500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 100.0, wallet.TotalBalance)
	assert.Equal(t, 0.0, wallet.TradingBalance)
}

func TestTransferBalanceRejectsBonusBucket(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	_, err := TransferBalance(db, 1, "live", "bonus", "total", 100)
	assert.ErrorIs(t, err, ErrInvalidBalance)

	_, err = TransferBalance(db, 1, "live", "total", "total", 100)
	assert.ErrorIs(t, err, ErrInvalidBalance)
}

func TestTransferBalanceInvalidAmount(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	_, err := TransferBalance(db, 1, "live", "total", "trading", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = TransferBalance(db, 1, "live", "total", "trading", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDepositFlow(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 100, 0, 0)

	pending, err := RequestDeposit(db, 1, "live", "bank_transfer", 250)
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.Status)

	// Nothing is credited until confirmation.
	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 100.0, wallet.TotalBalance)

	confirmed, err := ConfirmDeposit(db, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", confirmed.Status)

	wallet = reloadWallet(t, db, 1, "live")
	assert.Equal(t, 350.0, wallet.TotalBalance)

	// A second confirmation must not credit again.
	_, err = ConfirmDeposit(db, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	wallet = reloadWallet(t, db, 1, "live")
	assert.Equal(t, 350.0, wallet.TotalBalance)
}

func TestRequestDepositNoWallet(t *testing.T) {
	db := newTestDB(t)

	_, err := RequestDeposit(db, 42, "live", "card", 100)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
