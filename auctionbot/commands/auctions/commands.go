package auctions

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	AuctionCommand,
}

var AuctionCommand = discord.SlashCommandCreate{
	Name:        "auction",
	Description: "Auction management commands",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Create an auction in the current channel",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "bid",
			Description: "Place a bid (use inside the auction thread)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "amount",
					Description: "Amount to bid",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List all active auctions",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "contract",
			Description: "Make someone an auctioneer",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "The member to contract",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "resign",
			Description: "Resign an auctioneer or resign as an auctioneer",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "The auctioneer to resign (admins only)",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "togglebank",
			Description: "Enable or disable the currency ledger for auctions",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "forceremove",
			Description: "Remove an auction without settling it",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "auction",
					Description:  "Auction id",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	},
}
