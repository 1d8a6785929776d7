package main

import (
	"math/rand"

	"brokercontrol/internal/handlers"
	"brokercontrol/internal/handlers/business"
	"brokercontrol/internal/models"
	"brokercontrol/pkg/config"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	config.InitDB()

	c := cron.New()

	// Advance simulated progress on running bots every 10 minutes.
	c.AddFunc("*/10 * * * *", advanceRunningBots)

	// Settle bots past their end date every 5 minutes.
	c.AddFunc("*/5 * * * *", func() {
		n, err := business.AutoCompleteExpiredBots(config.DB)
		if err != nil {
			logrus.Errorf("Auto-complete run failed: %v", err)
			return
		}
		if n > 0 {
			logrus.Infof("Auto-completed %d expired bot trades", n)
		}
	})

	// Expire overdue plans hourly.
	c.AddFunc("0 * * * *", func() {
		n, err := handlers.ExpireUserPlans(config.DB)
		if err != nil {
			logrus.Errorf("Plan expiry run failed: %v", err)
			return
		}
		if n > 0 {
			logrus.Infof("Expired %d user plans", n)
		}
	})

	logrus.Info("Scheduler started")
	c.Run()
}

// advanceRunningBots nudges every running bot toward its expected profit so
// dashboards move between admin overrides. Steps are small and randomized.
func advanceRunningBots() {
	var bots []models.BotTrade
	if err := config.DB.Where("status = ?", models.BotStatusRunning).Find(&bots).Error; err != nil {
		logrus.Errorf("Failed to load running bots: %v", err)
		return
	}

	for _, bot := range bots {
		// Admin-set progress is left alone until the next override.
		if bot.Metadata.ProgressSource == models.ProgressSourceAdmin {
			continue
		}

		step := 0.5 + rand.Float64()*1.5
		progress := bot.Metadata.Progress + step
		if progress >= 100 {
			// Natural completion goes through the expiry path, cap short.
			progress = 99.5
		}

		if _, err := business.UpdateBotProgress(config.DB, bot.ID, business.ProgressUpdateInput{
			Progress: &progress,
			Source:   models.ProgressSourceAuto,
		}); err != nil {
			logrus.Warnf("Failed to advance bot %d: %v", bot.ID, err)
		}
	}
}
