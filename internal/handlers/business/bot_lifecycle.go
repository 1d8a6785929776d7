package business

import (
	"errors"
	"fmt"
	"time"

	"brokercontrol/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// activeStatuses are the states a bot trade can be settled or mutated from.
var activeStatuses = []string{models.BotStatusRunning, models.BotStatusPaused}

// ClampProgress bounds a progress percentage into [0, 100].
func ClampProgress(progress float64) float64 {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// ProfitForProgress converts a progress percentage into the simulated profit
// against the expected profit target.
func ProfitForProgress(expectedProfit, progress float64) float64 {
	return expectedProfit * progress / 100
}

// ProgressForProfit recovers the progress percentage implied by a profit
// amount, clamped into [0, 100].
func ProgressForProfit(expectedProfit, profit float64) float64 {
	if expectedProfit == 0 {
		return 0
	}
	return ClampProgress(profit / expectedProfit * 100)
}

// profitLossPercent is profit relative to the allocated balance.
func profitLossPercent(allocated, profit float64) float64 {
	if allocated <= 0 {
		return 0
	}
	return profit / allocated * 100
}

// progressMilestone buckets progress into quarters of the target.
func progressMilestone(progress float64) int {
	return int(progress / 25)
}

// StartBotTradeInput carries the validated parameters for a new allocation.
type StartBotTradeInput struct {
	UserID           uint
	AccountType      string
	Symbol           string
	Category         string
	Strategy         string
	EntryPrice       float64
	AllocatedBalance float64
	Config           models.BotConfig
}

// StartBotTrade deducts the allocation from the bot trading balance and
// creates the trade in one transaction.
func StartBotTrade(db *gorm.DB, in StartBotTradeInput) (*models.BotTrade, error) {
	if in.AllocatedBalance <= 0 {
		return nil, ErrInvalidAmount
	}

	var bot models.BotTrade
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		// Conditional deduct: the balance check and the write are one
		// statement, so concurrent starts cannot overdraw.
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND account_type = ? AND bot_trading_balance >= ?",
				in.UserID, in.AccountType, in.AllocatedBalance).
			Update("bot_trading_balance", gorm.Expr("bot_trading_balance - ?", in.AllocatedBalance))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			tx.Model(&models.Wallet{}).
				Where("user_id = ? AND account_type = ?", in.UserID, in.AccountType).
				Count(&count)
			if count == 0 {
				return ErrWalletNotFound
			}
			return ErrInsufficientFunds
		}

		now := time.Now().UTC()
		var endDate *time.Time
		if in.Config.DurationHours > 0 {
			d := now.Add(time.Duration(in.Config.DurationHours) * time.Hour)
			endDate = &d
		}

		bot = models.BotTrade{
			UserID:      in.UserID,
			AccountType: in.AccountType,
			Symbol:      in.Symbol,
			Category:    in.Category,
			Strategy:    in.Strategy,
			Status:      models.BotStatusRunning,
			EntryPrice:  in.EntryPrice,
			Config:      in.Config,
			Metadata: models.BotMetadata{
				AllocatedBalance: in.AllocatedBalance,
				Progress:         0,
				CurrentProfit:    0,
				ProgressSource:   models.ProgressSourceAuto,
				StartedAt:        now,
				EndDate:          endDate,
			},
		}
		if err := tx.Create(&bot).Error; err != nil {
			return err
		}

		txRow := models.Transaction{
			UserID:      in.UserID,
			AccountType: in.AccountType,
			Type:        "bot_allocation",
			Amount:      -in.AllocatedBalance,
			Status:      "completed",
			Description: fmt.Sprintf("Allocated %.2f to %s bot on %s", in.AllocatedBalance, in.Strategy, in.Symbol),
			ReferenceID: fmt.Sprintf("bot-%s", uuid.NewString()),
		}
		if err := tx.Create(&txRow).Error; err != nil {
			return err
		}

		n, err := insertNotification(tx, in.UserID, "bot_trade",
			"Bot trade started",
			fmt.Sprintf("Your %s bot on %s is now running.", in.Strategy, in.Symbol))
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
	return &bot, nil
}

// ProgressUpdateInput accepts either a direct progress percentage or a profit
// amount; profit wins when both are set. Source tags who computed the value.
type ProgressUpdateInput struct {
	Progress      *float64
	Profit        *float64
	DurationHours *int
	Source        string
}

// UpdateBotProgress recomputes progress/profit for an active bot trade. When
// the resulting progress reaches 100 on a running bot, settlement happens in
// the same transaction.
func UpdateBotProgress(db *gorm.DB, botID uint, in ProgressUpdateInput) (*models.BotTrade, error) {
	if in.Progress == nil && in.Profit == nil && in.DurationHours == nil {
		return nil, ErrInvalidAmount
	}
	source := in.Source
	if source == "" {
		source = models.ProgressSourceAuto
	}

	var bot models.BotTrade
	var notifs []*models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bot, botID).Error; err != nil {
			return err
		}
		if bot.Status != models.BotStatusRunning && bot.Status != models.BotStatusPaused {
			return ErrBotNotActive
		}

		expected := bot.Config.ExpectedProfit
		allocated := bot.Metadata.AllocatedBalance

		prevProgress := bot.Metadata.Progress
		progress := prevProgress
		moved := in.Profit != nil || in.Progress != nil
		switch {
		case in.Profit != nil:
			progress = ProgressForProfit(expected, *in.Profit)
		case in.Progress != nil:
			progress = ClampProgress(*in.Progress)
		}
		profit := ProfitForProgress(expected, progress)

		bot.ProfitLoss = profit
		bot.ProfitLossPercent = profitLossPercent(allocated, profit)
		bot.Metadata.Progress = progress
		bot.Metadata.CurrentProfit = profit
		// A duration-only change leaves the progress value, and its tag, alone.
		if moved {
			bot.Metadata.ProgressSource = source
		}

		if in.DurationHours != nil && *in.DurationHours > 0 {
			d := bot.Metadata.StartedAt.Add(time.Duration(*in.DurationHours) * time.Hour)
			bot.Metadata.EndDate = &d
			bot.Config.DurationHours = *in.DurationHours
		}

		// Progress at 100 on a running bot completes immediately.
		if progress >= 100 && bot.Status == models.BotStatusRunning {
			n, err := settleBotTrade(tx, &bot)
			if err != nil {
				return err
			}
			notifs = append(notifs, n)
			return nil
		}

		res := tx.Model(&models.BotTrade{}).
			Where("id = ? AND status IN ?", bot.ID, activeStatuses).
			Select("ProfitLoss", "ProfitLossPercent", "Config", "Metadata").
			Updates(&bot)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBotNotActive
		}

		// Progress notifications never disclose who moved the number. Scheduler
		// ticks land every few minutes, so they only notify when a new quarter
		// of the target is reached; overrides always notify.
		if !moved || (source == models.ProgressSourceAuto && progressMilestone(prevProgress) == progressMilestone(progress)) {
			return nil
		}
		n, err := insertNotification(tx, bot.UserID, "bot_trade",
			"Trading update",
			fmt.Sprintf("Your %s bot on %s is %.0f%% toward its target.", bot.Strategy, bot.Symbol, progress))
		if err != nil {
			return err
		}
		notifs = append(notifs, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range notifs {
		DispatchNotification(n)
	}
	return &bot, nil
}

// StopBotTrade settles an active bot trade: payout and profit are credited to
// the wallet and the trade is marked completed.
func StopBotTrade(db *gorm.DB, botID uint) (*models.BotTrade, error) {
	var bot models.BotTrade
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bot, botID).Error; err != nil {
			return err
		}
		if bot.Status != models.BotStatusRunning && bot.Status != models.BotStatusPaused {
			return ErrBotNotActive
		}
		n, err := settleBotTrade(tx, &bot)
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
	return &bot, nil
}

// settleBotTrade performs the terminal transition inside the caller's
// transaction. Final profit uses the pre-settlement progress; progress is
// then frozen at 100. The status guard plus the unique settlement reference
// make a retried stop a no-op instead of a double payout.
func settleBotTrade(tx *gorm.DB, bot *models.BotTrade) (*models.Notification, error) {
	allocated := bot.Metadata.AllocatedBalance
	profit := ProfitForProgress(bot.Config.ExpectedProfit, bot.Metadata.Progress)
	payout := allocated + profit

	bot.Status = models.BotStatusCompleted
	bot.ProfitLoss = profit
	bot.ProfitLossPercent = profitLossPercent(allocated, profit)
	bot.Metadata.Progress = 100
	bot.Metadata.CurrentProfit = profit

	res := tx.Model(&models.BotTrade{}).
		Where("id = ? AND status IN ?", bot.ID, activeStatuses).
		Select("Status", "ProfitLoss", "ProfitLossPercent", "Metadata").
		Updates(bot)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBotNotActive
	}

	res = tx.Model(&models.Wallet{}).
		Where("user_id = ? AND account_type = ?", bot.UserID, bot.AccountType).
		Updates(map[string]interface{}{
			"bot_trading_balance": gorm.Expr("bot_trading_balance + ?", payout),
			"total_balance":       gorm.Expr("total_balance + ?", profit),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrWalletNotFound
	}

	txRow := models.Transaction{
		UserID:      bot.UserID,
		AccountType: bot.AccountType,
		Type:        "bot_settlement",
		Amount:      payout,
		Status:      "completed",
		Description: fmt.Sprintf("Bot trade #%d settled: %.2f allocated, %.2f profit", bot.ID, allocated, profit),
		ReferenceID: fmt.Sprintf("bot-%d-completed", bot.ID),
	}
	if err := tx.Create(&txRow).Error; err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"bot_id":  bot.ID,
		"user_id": bot.UserID,
		"payout":  payout,
		"profit":  profit,
	}).Info("Bot trade settled")

	return insertNotification(tx, bot.UserID, "bot_trade",
		"Bot trade completed",
		fmt.Sprintf("Your %s bot on %s completed with %.2f profit.", bot.Strategy, bot.Symbol, profit))
}

// PauseBotTrade flips a running bot to paused. No balance impact.
func PauseBotTrade(db *gorm.DB, botID uint) (*models.BotTrade, error) {
	return flipBotStatus(db, botID, models.BotStatusRunning, models.BotStatusPaused, "Bot trade paused")
}

// ResumeBotTrade flips a paused bot back to running.
func ResumeBotTrade(db *gorm.DB, botID uint) (*models.BotTrade, error) {
	return flipBotStatus(db, botID, models.BotStatusPaused, models.BotStatusRunning, "Bot trade resumed")
}

func flipBotStatus(db *gorm.DB, botID uint, from, to, title string) (*models.BotTrade, error) {
	var bot models.BotTrade
	var notif *models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bot, botID).Error; err != nil {
			return err
		}
		if bot.Status != from {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.BotTrade{}).
			Where("id = ? AND status = ?", botID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		bot.Status = to

		n, err := insertNotification(tx, bot.UserID, "bot_trade", title,
			fmt.Sprintf("Your %s bot on %s is now %s.", bot.Strategy, bot.Symbol, to))
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
	return &bot, nil
}

// AutoCompleteExpiredBots settles every running bot whose end date has
// passed, at full progress. Returns the number of bots settled.
func AutoCompleteExpiredBots(db *gorm.DB) (int, error) {
	var running []models.BotTrade
	if err := db.Where("status = ?", models.BotStatusRunning).Find(&running).Error; err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	completed := 0
	for _, bot := range running {
		if bot.Metadata.EndDate == nil || bot.Metadata.EndDate.After(now) {
			continue
		}
		progress := 100.0
		if _, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{
			Progress: &progress,
			Source:   models.ProgressSourceAuto,
		}); err != nil {
			// Bots settled by a concurrent admin action are skipped, not failed.
			if errors.Is(err, ErrBotNotActive) {
				continue
			}
			logrus.Errorf("Failed to auto-complete bot %d: %v", bot.ID, err)
			continue
		}
		completed++
	}
	return completed, nil
}
