package auctions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotPositive  = errors.New("values must be greater than zero")
)

// Text input ids of the auction info modal.
const (
	inputName        = "name"
	inputDescription = "description"
	inputTimePeriod  = "time_period"
	inputQuickSold   = "quick_sold"
	inputMinBid      = "min_bid"
)

// WizardInput is the validated content of the auction info modal.
type WizardInput struct {
	Name        string
	Description string
	Minutes     int64
	QuickSold   *int64
	MinBid      int64
}

// ParseWizardInput parses the raw modal fields. The time period is in whole
// minutes, the quick sell price is optional and the minimum bid defaults to 1.
func ParseWizardInput(name, description, minutes, quickSold, minBid string) (WizardInput, error) {
	in := WizardInput{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		MinBid:      1,
	}
	if in.Name == "" {
		return WizardInput{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var err error
	if in.Minutes, err = strconv.ParseInt(strings.TrimSpace(minutes), 10, 64); err != nil {
		return WizardInput{}, fmt.Errorf("%w: time period %q", ErrInvalidInput, minutes)
	}
	if in.Minutes <= 0 {
		return WizardInput{}, ErrNotPositive
	}

	if s := strings.TrimSpace(quickSold); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return WizardInput{}, fmt.Errorf("%w: quick sold amount %q", ErrInvalidInput, quickSold)
		}
		if v <= 0 {
			return WizardInput{}, ErrNotPositive
		}
		in.QuickSold = &v
	}

	if s := strings.TrimSpace(minBid); s != "" {
		if in.MinBid, err = strconv.ParseInt(s, 10, 64); err != nil {
			return WizardInput{}, fmt.Errorf("%w: minimum bid %q", ErrInvalidInput, minBid)
		}
		if in.MinBid <= 0 {
			return WizardInput{}, ErrNotPositive
		}
	}

	if in.Minutes > int64(time.Duration(1<<63-1)/time.Minute) {
		return WizardInput{}, fmt.Errorf("%w: time period %q", ErrInvalidInput, minutes)
	}
	return in, nil
}

// WizardErrorMessage is the reply for a rejected modal submission.
func WizardErrorMessage(err error) string {
	if errors.Is(err, ErrNotPositive) {
		return "Values must be greater than zero."
	}
	return "Invalid Input"
}

// draft is an auction being configured through the setup message.
type draft struct {
	ID        string
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	HostID    snowflake.ID
	HostName  string
	CreatedAt time.Time
	Input     *WizardInput
}

func (d draft) expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(d.CreatedAt) > timeout
}

func (d draft) params() auction.CreateParams {
	return auction.CreateParams{
		GuildID:     d.GuildID,
		ChannelID:   d.ChannelID,
		HostID:      d.HostID,
		HostName:    d.HostName,
		Name:        d.Input.Name,
		Description: d.Input.Description,
		TimePeriod:  time.Duration(d.Input.Minutes) * time.Minute,
		QuickSold:   d.Input.QuickSold,
		MinBid:      d.Input.MinBid,
	}
}

// setupEmbed previews the auction as it will be posted.
func setupEmbed(d draft, now time.Time) discord.Embed {
	if d.Input == nil {
		return discord.NewEmbedBuilder().
			SetTitle("#???").
			SetDescription("...").
			SetColor(config.SuccessColor).
			Build()
	}

	quickSold := "None"
	if d.Input.QuickSold != nil {
		quickSold = auction.FormatAmount(*d.Input.QuickSold)
	}
	end := now.Add(time.Duration(d.Input.Minutes) * time.Minute)

	builder := discord.NewEmbedBuilder().
		SetTitle("#??? - "+d.Input.Name).
		SetColor(config.SuccessColor).
		AddField("Time Remaining", fmt.Sprintf("<t:%d:R>", end.Unix()), false).
		AddField("Quick Sold Amount", quickSold, false).
		AddField("Min Bid", auction.FormatAmount(d.Input.MinBid), false).
		AddField("Current Bid", "None", false).
		SetFooterText("Host: " + d.HostName)
	if d.Input.Description != "" {
		builder.SetDescription(d.Input.Description)
	}
	return builder.Build()
}

func setupComponents(d draft) []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewSuccessButton("Configure", "/auction-setup/configure/"+d.ID),
			discord.NewSuccessButton("Confirm", "/auction-setup/confirm/"+d.ID).WithDisabled(d.Input == nil),
			discord.NewDangerButton("Cancel", "/auction-setup/cancel/"+d.ID),
		),
	}
}

// infoModal asks for the auction details, prefilled with earlier answers.
func infoModal(d draft) discord.ModalCreate {
	name, description, minutes, quickSold, minBid := "", "", "", "", "1"
	if in := d.Input; in != nil {
		name = in.Name
		description = in.Description
		minutes = strconv.FormatInt(in.Minutes, 10)
		if in.QuickSold != nil {
			quickSold = strconv.FormatInt(*in.QuickSold, 10)
		}
		minBid = strconv.FormatInt(in.MinBid, 10)
	}

	return discord.ModalCreate{
		CustomID: "/auction-setup/info/" + d.ID,
		Title:    "Auction Info",
		Components: []discord.ContainerComponent{
			discord.NewActionRow(discord.TextInputComponent{
				CustomID:    inputName,
				Style:       discord.TextInputStyleShort,
				Label:       "Name",
				Placeholder: "Enter the name of the thing you want to auction...",
				Required:    true,
				MaxLength:   50,
				Value:       name,
			}),
			discord.NewActionRow(discord.TextInputComponent{
				CustomID:    inputDescription,
				Style:       discord.TextInputStyleParagraph,
				Label:       "Description",
				Placeholder: "Enter the description of the thing...",
				MaxLength:   config.MaxAuctionDescriptionLength,
				Value:       description,
			}),
			discord.NewActionRow(discord.TextInputComponent{
				CustomID:    inputTimePeriod,
				Style:       discord.TextInputStyleShort,
				Label:       "Time Period (minutes)",
				Placeholder: "Enter the time period of the auction in minutes...",
				Required:    true,
				MaxLength:   7,
				Value:       minutes,
			}),
			discord.NewActionRow(discord.TextInputComponent{
				CustomID:    inputQuickSold,
				Style:       discord.TextInputStyleShort,
				Label:       "Quick Sold Amount (upper limit of bid)",
				Placeholder: "Enter the maximum bid amount...",
				MaxLength:   30,
				Value:       quickSold,
			}),
			discord.NewActionRow(discord.TextInputComponent{
				CustomID:    inputMinBid,
				Style:       discord.TextInputStyleShort,
				Label:       "Minimum Bid Amount (default 1)",
				Placeholder: "Enter the minimum bid amount...",
				MaxLength:   30,
				Value:       minBid,
			}),
		},
	}
}
