package business

import (
	"testing"

	"brokercontrol/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestWithdrawalLocksFunds(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	w, err := RequestWithdrawal(db, 1, "live", "bank_transfer", "DE89370400440532013000", 500)
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalStatusPendingPayment, w.Status)
	assert.Equal(t, 50.0, w.AdminFee)
	assert.Equal(t, 450.0, w.NetAmount)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 500.0, wallet.TotalBalance)
	assert.Equal(t, 500.0, wallet.LockedBalance)
}

func TestRequestWithdrawalInsufficient(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 100, 0, 0)

	_, err := RequestWithdrawal(db, 1, "live", "crypto", "0xabc", 500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 100.0, wallet.TotalBalance)
	assert.Equal(t, 0.0, wallet.LockedBalance)
}

func TestApproveWithdrawal(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	w, err := RequestWithdrawal(db, 1, "live", "bank_transfer", "DE89", 400)
	require.NoError(t, err)

	// Approval requires the fee payment step first.
	_, err = ApproveWithdrawal(db, w.ID, 99)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = MarkWithdrawalPaymentPending(db, w.ID, 1)
	require.NoError(t, err)

	approved, err := ApproveWithdrawal(db, w.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, approved.Status)
	assert.Equal(t, uint(99), approved.ReviewedBy)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 600.0, wallet.TotalBalance)
	assert.Equal(t, 0.0, wallet.LockedBalance)

	var txRow models.Transaction
	require.NoError(t, db.Where("reference_id = ?", "withdrawal-1-completed").First(&txRow).Error)
	assert.Equal(t, -400.0, txRow.Amount)

	// A retried approval must not release funds twice.
	_, err = ApproveWithdrawal(db, w.ID, 99)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	wallet = reloadWallet(t, db, 1, "live")
	assert.Equal(t, 600.0, wallet.TotalBalance)
}

func TestRejectWithdrawalReturnsFunds(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	w, err := RequestWithdrawal(db, 1, "live", "crypto", "0xabc", 300)
	require.NoError(t, err)

	rejected, err := RejectWithdrawal(db, w.ID, 99, "document mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, rejected.Status)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 1000.0, wallet.TotalBalance)
	assert.Equal(t, 0.0, wallet.LockedBalance)

	// Rejecting again is a no-op error, funds stay put.
	_, err = RejectWithdrawal(db, w.ID, 99, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	wallet = reloadWallet(t, db, 1, "live")
	assert.Equal(t, 1000.0, wallet.TotalBalance)
}

func TestMarkWithdrawalPaymentPendingWrongUser(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 1000, 0, 0)

	w, err := RequestWithdrawal(db, 1, "live", "crypto", "0xabc", 100)
	require.NoError(t, err)

	_, err = MarkWithdrawalPaymentPending(db, w.ID, 2)
	assert.Error(t, err)
}
