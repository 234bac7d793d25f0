package utils

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceOperationOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		wantErr bool
	}{
		{name: "credit", amount: 500},
		{name: "debit", amount: -500},
		{name: "zero", amount: 0, wantErr: true},
		{name: "credit over cap", amount: MaxBalanceChange + 1, wantErr: true},
		{name: "debit over cap", amount: -MaxBalanceChange - 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BalanceOperationOptions{GuildID: 1, UserID: 2, Amount: tt.amount}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStandardTransactionOptions(t *testing.T) {
	opts := StandardTransactionOptions()
	assert.Equal(t, sql.LevelReadCommitted, opts.IsolationLevel)
	assert.Equal(t, DefaultTxTimeout, opts.Timeout)
}
