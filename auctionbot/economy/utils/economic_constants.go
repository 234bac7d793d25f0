package utils

import "time"

// Transaction timeouts
const (
	DefaultTxTimeout = 10 * time.Second
)

// Ledger bounds
const (
	// MaxBalanceChange caps a single credit or debit.
	MaxBalanceChange = 1_000_000_000_000_000
)
