package repositories

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	"github.com/disgoorg/auction-bot/auctionbot/economy/utils"
)

// BankRepository is the guild currency ledger.
type BankRepository struct {
	*BaseRepository
	txManager *utils.EconomicTransactionManager
}

var _ auction.Ledger = (*BankRepository)(nil)

func NewBankRepository(db *bun.DB) *BankRepository {
	return &BankRepository{
		BaseRepository: NewBaseRepository(db),
		txManager:      utils.NewEconomicTransactionManager(db),
	}
}

// Balance returns the member's balance. Members without an account have zero.
func (r *BankRepository) Balance(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var balance int64
	err := r.db.NewSelect().
		Model((*models.BankAccount)(nil)).
		Column("balance").
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Scan(ctx, &balance)
	if err != nil {
		err = r.HandleError("balance", "bank_account", userID, err)
		if _, ok := err.(*NotFoundError); ok {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

func (r *BankRepository) Withdraw(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, amount int64) error {
	return r.txManager.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.txManager.ValidateAndUpdateBalance(ctx, tx, utils.BalanceOperationOptions{
			GuildID: guildID,
			UserID:  userID,
			Amount:  -amount,
		})
	})
}

func (r *BankRepository) Deposit(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, amount int64) error {
	return r.txManager.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.txManager.ValidateAndUpdateBalance(ctx, tx, utils.BalanceOperationOptions{
			GuildID: guildID,
			UserID:  userID,
			Amount:  amount,
		})
	})
}
