package business

import (
	"fmt"

	"brokercontrol/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithdrawalFeeRate is the admin fee charged on every withdrawal.
const WithdrawalFeeRate = 0.10

// RequestWithdrawal locks the requested amount out of the total balance and
// opens a withdrawal pending the admin fee payment.
func RequestWithdrawal(db *gorm.DB, userID uint, accountType, method, destination string, amount float64) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	fee := amount * WithdrawalFeeRate
	w := models.Withdrawal{
		UserID:      userID,
		AccountType: accountType,
		Amount:      amount,
		AdminFee:    fee,
		NetAmount:   amount - fee,
		Method:      method,
		Destination: destination,
		Status:      models.WithdrawalStatusPendingPayment,
	}

	var notif *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND account_type = ? AND total_balance >= ?",
				userID, accountType, amount).
			Updates(map[string]interface{}{
				"total_balance":  gorm.Expr("total_balance - ?", amount),
				"locked_balance": gorm.Expr("locked_balance + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			tx.Model(&models.Wallet{}).
				Where("user_id = ? AND account_type = ?", userID, accountType).
				Count(&count)
			if count == 0 {
				return ErrWalletNotFound
			}
			return ErrInsufficientFunds
		}

		if err := tx.Create(&w).Error; err != nil {
			return err
		}

		txRow := models.Transaction{
			UserID:      userID,
			AccountType: accountType,
			Type:        "withdrawal",
			Amount:      -amount,
			Status:      "pending",
			Description: fmt.Sprintf("Withdrawal request of %.2f via %s", amount, method),
			ReferenceID: fmt.Sprintf("withdrawal-%s", uuid.NewString()),
		}
		if err := tx.Create(&txRow).Error; err != nil {
			return err
		}

		n, err := insertNotification(tx, userID, "withdrawal",
			"Withdrawal requested",
			fmt.Sprintf("Your withdrawal of %.2f is pending the %.2f processing fee.", amount, fee))
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	DispatchNotification(notif)
	return &w, nil
}

// MarkWithdrawalPaymentPending records that the user reported paying the
// admin fee, moving the withdrawal into the admin review queue.
func MarkWithdrawalPaymentPending(db *gorm.DB, withdrawalID, userID uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", withdrawalID, userID).
			First(&w).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawalID, models.WithdrawalStatusPendingPayment).
			Update("status", models.WithdrawalStatusPaymentPending)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		w.Status = models.WithdrawalStatusPaymentPending

		n, err := insertNotification(tx, w.UserID, "withdrawal",
			"Fee payment received",
			"Your withdrawal is now under review.")
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	DispatchNotification(notif)
	return &w, nil
}

// ApproveWithdrawal releases the locked funds out of the wallet and marks
// the withdrawal completed. The status guard and the unique completion
// reference make a retried approval fail instead of paying twice.
func ApproveWithdrawal(db *gorm.DB, withdrawalID, reviewerID uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&w, withdrawalID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawalID, models.WithdrawalStatusPaymentPending).
			Updates(map[string]interface{}{
				"status":      models.WithdrawalStatusCompleted,
				"reviewed_by": reviewerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		w.Status = models.WithdrawalStatusCompleted
		w.ReviewedBy = reviewerID

		res = tx.Model(&models.Wallet{}).
			Where("user_id = ? AND account_type = ? AND locked_balance >= ?",
				w.UserID, w.AccountType, w.Amount).
			Update("locked_balance", gorm.Expr("locked_balance - ?", w.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidBalance
		}

		txRow := models.Transaction{
			UserID:      w.UserID,
			AccountType: w.AccountType,
			Type:        "withdrawal",
			Amount:      -w.Amount,
			Status:      "completed",
			Description: fmt.Sprintf("Withdrawal of %.2f approved, %.2f paid out", w.Amount, w.NetAmount),
			ReferenceID: fmt.Sprintf("withdrawal-%d-completed", w.ID),
		}
		if err := tx.Create(&txRow).Error; err != nil {
			return err
		}

		n, err := insertNotification(tx, w.UserID, "withdrawal",
			"Withdrawal approved",
			fmt.Sprintf("Your withdrawal of %.2f has been approved. %.2f is on its way.", w.Amount, w.NetAmount))
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	DispatchNotification(notif)
	return &w, nil
}

// RejectWithdrawal returns the locked funds to the total balance. Allowed
// from either pre-completion state.
func RejectWithdrawal(db *gorm.DB, withdrawalID, reviewerID uint, reason string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	var notif *models.Notification

	rejectable := []string{
		models.WithdrawalStatusPendingPayment,
		models.WithdrawalStatusPaymentPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&w, withdrawalID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status IN ?", withdrawalID, rejectable).
			Updates(map[string]interface{}{
				"status":      models.WithdrawalStatusRejected,
				"reviewed_by": reviewerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		w.Status = models.WithdrawalStatusRejected
		w.ReviewedBy = reviewerID

		res = tx.Model(&models.Wallet{}).
			Where("user_id = ? AND account_type = ? AND locked_balance >= ?",
				w.UserID, w.AccountType, w.Amount).
			Updates(map[string]interface{}{
				"locked_balance": gorm.Expr("locked_balance - ?", w.Amount),
				"total_balance":  gorm.Expr("total_balance + ?", w.Amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidBalance
		}

		txRow := models.Transaction{
			UserID:      w.UserID,
			AccountType: w.AccountType,
			Type:        "withdrawal",
			Amount:      w.Amount,
			Status:      "completed",
			Description: fmt.Sprintf("Withdrawal of %.2f rejected, funds returned", w.Amount),
			ReferenceID: fmt.Sprintf("withdrawal-%d-rejected", w.ID),
		}
		if err := tx.Create(&txRow).Error; err != nil {
			return err
		}

		body := fmt.Sprintf("Your withdrawal of %.2f was rejected and the funds were returned.", w.Amount)
		if reason != "" {
			body = fmt.Sprintf("%s Reason: %s", body, reason)
		}
		n, err := insertNotification(tx, w.UserID, "withdrawal", "Withdrawal rejected", body)
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	DispatchNotification(notif)
	return &w, nil
}
