package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/disgoorg/auction-bot/auctionbot/config"
)

func TestClassifiedMessage(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		want      string
	}{
		{"user", UserError, "⚠️ bad input"},
		{"system", SystemError, "🔧 bad input"},
		{"not found", NotFoundError, "🔍 bad input"},
		{"permission", PermissionError, "🚫 bad input"},
		{"business", BusinessLogicError, "⏰ bad input"},
		{"unknown", ErrorType(99), "❌ bad input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifiedMessage(tt.errorType, "bad input"))
		})
	}
}

func TestErrorColor(t *testing.T) {
	assert.Equal(t, config.WarningColor, getErrorColor(UserError))
	assert.Equal(t, config.WarningColor, getErrorColor(BusinessLogicError))
	assert.Equal(t, config.InfoColor, getErrorColor(NotFoundError))
	assert.Equal(t, config.ErrorColor, getErrorColor(SystemError))
	assert.Equal(t, config.ErrorColor, getErrorColor(PermissionError))
}
