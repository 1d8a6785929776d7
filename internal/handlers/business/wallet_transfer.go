package business

import (
	"fmt"

	"brokercontrol/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transferColumns maps API bucket names to wallet columns eligible for
// internal transfers. Bonus balance is excluded on purpose.
var transferColumns = map[string]string{
	"total":       "total_balance",
	"trading":     "trading_balance",
	"bot_trading": "bot_trading_balance",
}

// TransferBalance moves funds between two buckets of the same wallet. The
// debit is conditional on sufficient funds so concurrent transfers cannot
// overdraw a bucket.
func TransferBalance(db *gorm.DB, userID uint, accountType, from, to string, amount float64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	fromCol, ok := transferColumns[from]
	if !ok {
		return nil, ErrInvalidBalance
	}
	toCol, ok := transferColumns[to]
	if !ok || fromCol == toCol {
		return nil, ErrInvalidBalance
	}

	var wallet models.Wallet
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where(fmt.Sprintf("user_id = ? AND account_type = ? AND %s >= ?", fromCol),
				userID, accountType, amount).
			Updates(map[string]interface{}{
				fromCol: gorm.Expr(fromCol+" - ?", amount),
				toCol:   gorm.Expr(toCol+" + ?", amount),
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

		txRow := models.Transaction{
			UserID:      userID,
			AccountType: accountType,
			Type:        "transfer",
			Amount:      amount,
			Status:      "completed",
			Description: fmt.Sprintf("Transferred %.2f from %s to %s balance", amount, from, to),
			ReferenceID: fmt.Sprintf("transfer-%s", uuid.NewString()),
		}
		if err := tx.Create(&txRow).Error; err != nil {
			return err
		}

		n, err := insertNotification(tx, userID, "wallet",
			"Transfer completed",
			fmt.Sprintf("Moved %.2f from your %s balance to your %s balance.", amount, from, to))
		if err != nil {
			return err
		}
		notif = n

		return tx.Where("user_id = ? AND account_type = ?", userID, accountType).
			First(&wallet).Error
	})
	if err != nil {
		return nil, err
	}

	DispatchNotification(notif)
	return &wallet, nil
}

// RequestDeposit records a pending deposit. Nothing is credited until an
// admin confirms the payment arrived.
func RequestDeposit(db *gorm.DB, userID uint, accountType, method string, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	txRow := models.Transaction{
		UserID:      userID,
		AccountType: accountType,
		Type:        "deposit",
		Amount:      amount,
		Status:      "pending",
		Description: fmt.Sprintf("Deposit request of %.2f via %s", amount, method),
		ReferenceID: fmt.Sprintf("deposit-%s", uuid.NewString()),
	}

	var notif *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND account_type = ?", userID, accountType).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrWalletNotFound
		}

		if err := tx.Create(&txRow).Error; err != nil {
			return err
		}
		n, err := insertNotification(tx, userID, "wallet",
			"Deposit requested",
			fmt.Sprintf("Your deposit of %.2f is awaiting confirmation.", amount))
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
	return &txRow, nil
}

// ConfirmDeposit marks a pending deposit completed and credits the total
// balance. The status guard makes a second confirmation a no-op error.
func ConfirmDeposit(db *gorm.DB, transactionID uint) (*models.Transaction, error) {
	var txRow models.Transaction
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&txRow, transactionID).Error; err != nil {
			return err
		}
		if txRow.Type != "deposit" {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, "pending").
			Update("status", "completed")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		txRow.Status = "completed"

		res = tx.Model(&models.Wallet{}).
			Where("user_id = ? AND account_type = ?", txRow.UserID, txRow.AccountType).
			Update("total_balance", gorm.Expr("total_balance + ?", txRow.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWalletNotFound
		}

		n, err := insertNotification(tx, txRow.UserID, "wallet",
			"Deposit confirmed",
			fmt.Sprintf("Your deposit of %.2f has been credited.", txRow.Amount))
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
	return &txRow, nil
}
