package business

import (
	"fmt"
	"testing"
	"time"

	"brokercontrol/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartBotTrade(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1500)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		Category:         "crypto",
		Strategy:         "grid",
		EntryPrice:       64000,
		AllocatedBalance: 1000,
		Config: models.BotConfig{
			ExpectedProfit: 200,
			RiskLevel:      "medium",
			DurationHours:  48,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.BotStatusRunning, bot.Status)
	assert.Equal(t, 1000.0, bot.Metadata.AllocatedBalance)
	assert.Equal(t, 0.0, bot.Metadata.Progress)
	assert.Equal(t, models.ProgressSourceAuto, bot.Metadata.ProgressSource)
	require.NotNil(t, bot.Metadata.EndDate)
	assert.WithinDuration(t, time.Now().UTC().Add(48*time.Hour), *bot.Metadata.EndDate, time.Minute)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 500.0, wallet.BotTradingBalance)

	var txRow models.Transaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", 1, "bot_allocation").First(&txRow).Error)
	assert.Equal(t, -1000.0, txRow.Amount)
}

func TestStartBotTradeInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 100)

	_, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 1000,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 100.0, wallet.BotTradingBalance)
}

func TestStartBotTradeNoWallet(t *testing.T) {
	db := newTestDB(t)

	_, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           9,
		AccountType:      "live",
		AllocatedBalance: 50,
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestUpdateBotProgressFromProfit(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 2000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "ETHUSDT",
		Strategy:         "momentum",
		AllocatedBalance: 1000,
		Config:           models.BotConfig{ExpectedProfit: 200, DurationHours: 24},
	})
	require.NoError(t, err)

	// Half the expected profit implies 50% progress.
	profit := 100.0
	updated, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{
		Profit: &profit,
		Source: models.ProgressSourceAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, updated.Metadata.Progress)
	assert.Equal(t, 100.0, updated.Metadata.CurrentProfit)
	assert.Equal(t, 100.0, updated.ProfitLoss)
	assert.Equal(t, 10.0, updated.ProfitLossPercent)
	assert.Equal(t, models.ProgressSourceAdmin, updated.Metadata.ProgressSource)
	assert.Equal(t, models.BotStatusRunning, updated.Status)
}

func TestDurationOnlyUpdateKeepsProgressSource(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100, DurationHours: 24},
	})
	require.NoError(t, err)

	progress := 40.0
	_, err = UpdateBotProgress(db, bot.ID, ProgressUpdateInput{
		Progress: &progress,
		Source:   models.ProgressSourceAuto,
	})
	require.NoError(t, err)

	// Extending the duration alone must not re-tag the progress value.
	hours := 48
	updated, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{
		DurationHours: &hours,
		Source:        models.ProgressSourceAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProgressSourceAuto, updated.Metadata.ProgressSource)
	assert.Equal(t, 40.0, updated.Metadata.Progress)
	assert.Equal(t, 48, updated.Config.DurationHours)
	require.NotNil(t, updated.Metadata.EndDate)
	assert.WithinDuration(t, updated.Metadata.StartedAt.Add(48*time.Hour), *updated.Metadata.EndDate, time.Second)
}

func TestAutoProgressNotifiesOnlyAtMilestones(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100},
	})
	require.NoError(t, err)

	countUpdates := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Notification{}).
			Where("user_id = ? AND title = ?", 1, "Trading update").
			Count(&n).Error)
		return n
	}

	step := func(p float64, source string) {
		_, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{
			Progress: &p,
			Source:   source,
		})
		require.NoError(t, err)
	}

	// Ticks inside the first quarter stay quiet.
	step(10, models.ProgressSourceAuto)
	step(20, models.ProgressSourceAuto)
	assert.EqualValues(t, 0, countUpdates())

	// Crossing into a new quarter notifies once.
	step(30, models.ProgressSourceAuto)
	assert.EqualValues(t, 1, countUpdates())

	// An override notifies regardless of milestones.
	step(31, models.ProgressSourceAdmin)
	assert.EqualValues(t, 2, countUpdates())

	// A duration-only change notifies nobody.
	hours := 12
	_, err = UpdateBotProgress(db, bot.ID, ProgressUpdateInput{
		DurationHours: &hours,
		Source:        models.ProgressSourceAdmin,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, countUpdates())
}

func TestUpdateBotProgressClampsOverTarget(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100},
	})
	require.NoError(t, err)

	// Profit above the target clamps to 100% and settles.
	profit := 250.0
	updated, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{Profit: &profit})
	require.NoError(t, err)

	assert.Equal(t, models.BotStatusCompleted, updated.Status)
	assert.Equal(t, 100.0, updated.Metadata.Progress)
	assert.Equal(t, 100.0, updated.Metadata.CurrentProfit)
}

func TestUpdateBotProgressCascadesSettlement(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 300, 0, 1500)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		Strategy:         "grid",
		AllocatedBalance: 1000,
		Config:           models.BotConfig{ExpectedProfit: 200},
	})
	require.NoError(t, err)

	progress := 100.0
	updated, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusCompleted, updated.Status)

	wallet := reloadWallet(t, db, 1, "live")
	// 500 left after allocation, plus 1000 + 200 payout.
	assert.Equal(t, 1700.0, wallet.BotTradingBalance)
	assert.Equal(t, 500.0, wallet.TotalBalance)

	var txRow models.Transaction
	require.NoError(t, db.Where("reference_id = ?", fmt.Sprintf("bot-%d-completed", bot.ID)).First(&txRow).Error)
	assert.Equal(t, 1200.0, txRow.Amount)
}

func TestStopBotTradeSettlesAtCurrentProgress(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 1000,
		Config:           models.BotConfig{ExpectedProfit: 200},
	})
	require.NoError(t, err)

	progress := 50.0
	_, err = UpdateBotProgress(db, bot.ID, ProgressUpdateInput{Progress: &progress})
	require.NoError(t, err)

	stopped, err := StopBotTrade(db, bot.ID)
	require.NoError(t, err)

	// Payout uses the pre-stop progress, then progress freezes at 100.
	assert.Equal(t, models.BotStatusCompleted, stopped.Status)
	assert.Equal(t, 100.0, stopped.ProfitLoss)
	assert.Equal(t, 10.0, stopped.ProfitLossPercent)
	assert.Equal(t, 100.0, stopped.Metadata.Progress)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 1100.0, wallet.BotTradingBalance)
	assert.Equal(t, 100.0, wallet.TotalBalance)
}

func TestStopBotTradeTwicePaysOnce(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100},
	})
	require.NoError(t, err)

	_, err = StopBotTrade(db, bot.ID)
	require.NoError(t, err)

	_, err = StopBotTrade(db, bot.ID)
	assert.ErrorIs(t, err, ErrBotNotActive)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 1000.0, wallet.BotTradingBalance)
}

func TestPauseAndResumeBotTrade(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100},
	})
	require.NoError(t, err)

	paused, err := PauseBotTrade(db, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusPaused, paused.Status)

	// Pausing a paused bot is rejected.
	_, err = PauseBotTrade(db, bot.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resumed, err := ResumeBotTrade(db, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusRunning, resumed.Status)

	_, err = ResumeBotTrade(db, bot.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPausedBotDoesNotSettleAtFullProgress(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 1000)

	bot, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100},
	})
	require.NoError(t, err)

	_, err = PauseBotTrade(db, bot.ID)
	require.NoError(t, err)

	progress := 100.0
	updated, err := UpdateBotProgress(db, bot.ID, ProgressUpdateInput{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusPaused, updated.Status)

	wallet := reloadWallet(t, db, 1, "live")
	assert.Equal(t, 500.0, wallet.BotTradingBalance)
}

func TestAutoCompleteExpiredBots(t *testing.T) {
	db := newTestDB(t)
	seedWallet(t, db, 1, "live", 0, 0, 2000)

	expired, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "BTCUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100, DurationHours: 1},
	})
	require.NoError(t, err)

	fresh, err := StartBotTrade(db, StartBotTradeInput{
		UserID:           1,
		AccountType:      "live",
		Symbol:           "ETHUSDT",
		AllocatedBalance: 500,
		Config:           models.BotConfig{ExpectedProfit: 100, DurationHours: 72},
	})
	require.NoError(t, err)

	// Backdate the first bot's end date.
	past := time.Now().UTC().Add(-time.Hour)
	expired.Metadata.EndDate = &past
	require.NoError(t, db.Model(&models.BotTrade{}).
		Where("id = ?", expired.ID).
		Update("metadata", expired.Metadata).Error)

	n, err := AutoCompleteExpiredBots(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var reloaded models.BotTrade
	require.NoError(t, db.First(&reloaded, expired.ID).Error)
	assert.Equal(t, models.BotStatusCompleted, reloaded.Status)
	assert.Equal(t, models.ProgressSourceAuto, reloaded.Metadata.ProgressSource)

	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	assert.Equal(t, models.BotStatusRunning, reloaded.Status)
}

func TestProgressProfitConversions(t *testing.T) {
	assert.Equal(t, 100.0, ProfitForProgress(200, 50))
	assert.Equal(t, 50.0, ProgressForProfit(200, 100))
	assert.Equal(t, 100.0, ProgressForProfit(200, 500))
	assert.Equal(t, 0.0, ProgressForProfit(200, -50))
	assert.Equal(t, 0.0, ProgressForProfit(0, 100))
	assert.Equal(t, 0.0, ClampProgress(-10))
	assert.Equal(t, 100.0, ClampProgress(140))
}
