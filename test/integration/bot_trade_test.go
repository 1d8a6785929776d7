package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletResponse struct {
	TotalBalance      float64 `json:"total_balance"`
	TradingBalance    float64 `json:"trading_balance"`
	BotTradingBalance float64 `json:"bot_trading_balance"`
}

type botTradeResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
	Symbol string `json:"symbol"`
}

func TestBotTradeAPI(t *testing.T) {
	requireServer(t)
	token := registerUser(t)

	var botID uint

	// Test Case 1: Fund the bot trading bucket from the demo balance
	t.Run("Transfer To Bot Balance", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/wallet/transfer", token, map[string]interface{}{
			"account_type": "demo",
			"from":         "total",
			"to":           "bot_trading",
			"amount":       2000,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	// Test Case 2: Start a bot trade
	t.Run("Start Bot Trade", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/bot-trades", token, map[string]interface{}{
			"account_type":      "demo",
			"symbol":            "BTCUSDT",
			"strategy":          "grid",
			"allocated_balance": 1000,
			"expected_profit":   200,
			"duration_hours":    24,
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var bot botTradeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&bot))
		assert.NotZero(t, bot.ID)
		assert.Equal(t, "running", bot.Status)
		botID = bot.ID
	})

	// Test Case 3: Allocation deducted from the wallet
	t.Run("Wallet Deducted", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/wallet?account_type=demo", token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var wallet walletResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&wallet))
		assert.Equal(t, 1000.0, wallet.BotTradingBalance)
	})

	// Test Case 4: Starting beyond the balance is rejected
	t.Run("Start Beyond Balance", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/bot-trades", token, map[string]interface{}{
			"account_type":      "demo",
			"symbol":            "ETHUSDT",
			"strategy":          "grid",
			"allocated_balance": 5000,
			"expected_profit":   100,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 5: Stop settles the allocation back
	t.Run("Stop Bot Trade", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, fmt.Sprintf("/bot-trades/%d/stop", botID), token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var bot botTradeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&bot))
		assert.Equal(t, "completed", bot.Status)
	})

	// Test Case 6: Second stop is rejected
	t.Run("Stop Twice", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, fmt.Sprintf("/bot-trades/%d/stop", botID), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 7: List shows the completed trade
	t.Run("List Bot Trades", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/bot-trades?status=completed", token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var bots []botTradeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&bots))
		require.Len(t, bots, 1)
		assert.Equal(t, botID, bots[0].ID)
	})
}
