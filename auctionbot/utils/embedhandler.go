package utils

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/auction-bot/auctionbot/config"
)

// ResponseHandler provides standardized response methods for commands and components
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// ErrorType represents different categories of errors for consistent handling
type ErrorType int

const (
	// UserError - bad input in a command or modal
	UserError ErrorType = iota
	// SystemError - store, ledger or chat platform failures
	SystemError
	// NotFoundError - no auction for the given id or thread
	NotFoundError
	// PermissionError - caller is not an auctioneer, owner or admin
	PermissionError
	// BusinessLogicError - rejected bids, cooldowns, recovery in progress
	BusinessLogicError
)

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case BusinessLogicError:
		return "⏰"
	default:
		return "❌"
	}
}

func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError, BusinessLogicError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// ClassifiedMessage renders message with the prefix of its error type.
func ClassifiedMessage(errorType ErrorType, message string) string {
	return getErrorPrefix(errorType) + " " + message
}

// CreateErrorEmbed creates a standard error embed for command events
func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.ErrorColor,
		}},
	})
}

// CreateSuccessEmbed creates a standard success embed for command events
func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.SuccessColor,
		}},
	})
}

// CreateInfoEmbed creates a standard info embed for command events
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.InfoColor,
		}},
	})
}

// CreatePlain replies with plain text visible to the whole channel.
func (h *ResponseHandler) CreatePlain(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content:         message,
		AllowedMentions: &discord.AllowedMentions{},
	})
}

// CreateEphemeralError creates an ephemeral error message for component events
func (h *ResponseHandler) CreateEphemeralError(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateEphemeralSuccess creates an ephemeral success message for component events
func (h *ResponseHandler) CreateEphemeralSuccess(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "✅ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateClassifiedError creates an error response with automatic categorization
func (h *ResponseHandler) CreateClassifiedError(event *handler.CommandEvent, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: ClassifiedMessage(errorType, message),
			Color:       getErrorColor(errorType),
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

// CreateClassifiedComponentError creates an ephemeral error for component interactions
func (h *ResponseHandler) CreateClassifiedComponentError(event *handler.ComponentEvent, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: ClassifiedMessage(errorType, message),
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateClassifiedModalError creates an ephemeral error for modal submissions
func (h *ResponseHandler) CreateClassifiedModalError(event *handler.ModalEvent, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: ClassifiedMessage(errorType, message),
		Flags:   discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateUserError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, UserError, message)
}

func (h *ResponseHandler) CreateSystemError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, SystemError, message)
}

// CreatePermissionError creates an error response for unauthorized actions
func (h *ResponseHandler) CreatePermissionError(event *handler.CommandEvent, action string) error {
	return h.CreateClassifiedError(event, PermissionError, fmt.Sprintf("You don't have permission to %s", action))
}

// HandleError provides centralized error handling for different event types
func (h *ResponseHandler) HandleError(event interface{}, errorType ErrorType, message string) error {
	switch e := event.(type) {
	case *handler.CommandEvent:
		return h.CreateClassifiedError(e, errorType, message)
	case *handler.ComponentEvent:
		return h.CreateClassifiedComponentError(e, errorType, message)
	case *handler.ModalEvent:
		return h.CreateClassifiedModalError(e, errorType, message)
	default:
		return fmt.Errorf("unsupported event type for error handling")
	}
}
