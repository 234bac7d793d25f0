package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

// TransactionOptions configures transaction behavior
type TransactionOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

// EconomicTransactionManager runs ledger operations inside database transactions.
type EconomicTransactionManager struct {
	db *bun.DB
}

func NewEconomicTransactionManager(db *bun.DB) *EconomicTransactionManager {
	return &EconomicTransactionManager{db: db}
}

// StandardTransactionOptions returns default transaction options
func StandardTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        DefaultTxTimeout,
	}
}

// WithTransaction executes a function within a database transaction
func (etm *EconomicTransactionManager) WithTransaction(ctx context.Context, opts *TransactionOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = StandardTransactionOptions()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := etm.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// BalanceOperationOptions configures balance operations
type BalanceOperationOptions struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	Amount  int64
}

// Validate rejects zero moves and amounts above the bid cap.
func (o BalanceOperationOptions) Validate() error {
	if o.Amount == 0 {
		return fmt.Errorf("balance change must not be zero")
	}
	if o.Amount > MaxBalanceChange || o.Amount < -MaxBalanceChange {
		return fmt.Errorf("balance change %d exceeds %d", o.Amount, int64(MaxBalanceChange))
	}
	return nil
}

// ValidateAndUpdateBalance applies a signed balance change. Withdrawals
// never take an account below zero and fail with auction.ErrInsufficientFunds.
func (etm *EconomicTransactionManager) ValidateAndUpdateBalance(ctx context.Context, tx bun.Tx, opts BalanceOperationOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if opts.Amount > 0 {
		_, err := tx.NewInsert().
			Model(&models.BankAccount{
				GuildID:   opts.GuildID,
				UserID:    opts.UserID,
				Balance:   opts.Amount,
				UpdatedAt: time.Now(),
			}).
			On("CONFLICT (guild_id, user_id) DO UPDATE").
			Set("balance = ba.balance + EXCLUDED.balance").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}
		return nil
	}

	var account models.BankAccount
	err := tx.NewSelect().
		Model(&account).
		Where("guild_id = ? AND user_id = ?", opts.GuildID, opts.UserID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no bank account", auction.ErrInsufficientFunds)
		}
		return fmt.Errorf("failed to get balance: %w", err)
	}

	if account.Balance < -opts.Amount {
		return fmt.Errorf("%w: has %d, needs %d", auction.ErrInsufficientFunds, account.Balance, -opts.Amount)
	}

	result, err := tx.NewUpdate().
		Model((*models.BankAccount)(nil)).
		Set("balance = balance + ?", opts.Amount).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ? AND user_id = ? AND balance >= ?", opts.GuildID, opts.UserID, -opts.Amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: balance changed concurrently", auction.ErrInsufficientFunds)
	}
	return nil
}
