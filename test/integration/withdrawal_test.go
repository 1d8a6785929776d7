package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type withdrawalResponse struct {
	ID        uint    `json:"id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	AdminFee  float64 `json:"admin_fee"`
	NetAmount float64 `json:"net_amount"`
}

func TestWithdrawalAPI(t *testing.T) {
	requireServer(t)
	token := registerUser(t)

	var withdrawalID uint

	// Test Case 1: Request a withdrawal from the demo balance
	t.Run("Request Withdrawal", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/withdrawals", token, map[string]interface{}{
			"account_type": "demo",
			"method":       "bank_transfer",
			"destination":  "DE89370400440532013000",
			"amount":       500,
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var w withdrawalResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&w))
		assert.NotZero(t, w.ID)
		assert.Equal(t, "pending_payment", w.Status)
		assert.Equal(t, 50.0, w.AdminFee)
		assert.Equal(t, 450.0, w.NetAmount)
		withdrawalID = w.ID
	})

	// Test Case 2: Funds moved to locked
	t.Run("Funds Locked", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/wallet?account_type=demo", token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var wallet struct {
			TotalBalance  float64 `json:"total_balance"`
			LockedBalance float64 `json:"locked_balance"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&wallet))
		assert.Equal(t, 9500.0, wallet.TotalBalance)
		assert.Equal(t, 500.0, wallet.LockedBalance)
	})

	// Test Case 3: Report the fee as paid
	t.Run("Mark Fee Paid", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost,
			fmt.Sprintf("/withdrawals/%d/payment", withdrawalID), token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var w withdrawalResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&w))
		assert.Equal(t, "payment_pending", w.Status)
	})

	// Test Case 4: Reporting twice is rejected
	t.Run("Mark Fee Paid Twice", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost,
			fmt.Sprintf("/withdrawals/%d/payment", withdrawalID), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 5: Over-balance withdrawal is rejected
	t.Run("Request Beyond Balance", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/withdrawals", token, map[string]interface{}{
			"account_type": "demo",
			"method":       "crypto",
			"destination":  "0xabc",
			"amount":       50000,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 6: Listing shows the open withdrawal
	t.Run("List Withdrawals", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/withdrawals", token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var withdrawals []withdrawalResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&withdrawals))
		require.Len(t, withdrawals, 1)
		assert.Equal(t, withdrawalID, withdrawals[0].ID)
	})
}
