package config

import "time"

// Colors
const (
	ErrorColor      = 0xFF0000
	SuccessColor    = 0x00FF00
	InfoColor       = 0x0099FF
	WarningColor    = 0xFFAA00
	BackgroundColor = 0x2B2D31

	// AuctionOpenColor is the color of a running auction display.
	AuctionOpenColor   = 0x0099FF
	AuctionClosedColor = 0xFF0000
)

// Timeouts
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	NotifyTimeout           = 10 * time.Second
	RecoveryTimeout         = 5 * time.Minute
	RecoveryRetryDelay      = 5 * time.Second
	MaxRecoveryRetryDelay   = 2 * time.Minute
)

// Auction defaults
const (
	AntiSnipeWindow     = 60 * time.Second
	AntiSnipeExtension  = 60 * time.Second
	MaxBid              = int64(1_000_000_000_000_000)
	RecoveryParallelism = 8
	BidCooldown         = 5 * time.Second
	WizardTimeout       = 5 * time.Minute
	ConfirmTimeout      = 30 * time.Second
	CloseTimeout        = 30 * time.Second
	CloseRetryDelay     = 30 * time.Second

	MaxAuctionNameLength        = 256
	MaxAuctionDescriptionLength = 1024
	AuctionsPerPage             = 10
	AutocompleteLimit           = 25
	DraftCacheSize              = 512
)

// Retry policy for ledger and store writes made after a bid is accepted.
const (
	MaxRetries        = 3
	InitialRetryDelay = 100 * time.Millisecond
)
