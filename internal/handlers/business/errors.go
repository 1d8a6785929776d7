package business

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrBotNotActive      = errors.New("bot trade is not active")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidBalance    = errors.New("unknown balance bucket")
)
