package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Slash command names
const (
	CommandDeck      = "deck"
	CommandDraw      = "draw"
	CommandReset     = "reset"
	CommandShuffle   = "shuffle"
	CommandRemaining = "remaining"
	CommandHistory   = "history"
)

// Component IDs
const (
	ButtonDrawAgain = "deck_draw"
)

const maxHistory = 25

var minZero = 0.0

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandDeck,
		Description: "Deal a fresh deck to this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "blank",
				Description: "Include the blank card (default true)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "joker",
				Description: "Include the joker (default true)",
			},
		},
	},
	{
		Name:        CommandDraw,
		Description: "Draw a card from this channel's deck",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "position",
				Description: "Which card to take, 0 is the top",
				MinValue:    &minZero,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "no_reset",
				Description: "Fail instead of refilling an empty deck",
			},
		},
	},
	{
		Name:        CommandReset,
		Description: "Put every card back into the deck",
	},
	{
		Name:        CommandShuffle,
		Description: "Shuffle the cards left in the deck",
	},
	{
		Name:        CommandRemaining,
		Description: "Count the cards left in the deck",
	},
	{
		Name:        CommandHistory,
		Description: "Show the latest draws in this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "limit",
				Description: "How many draws to show",
				MinValue:    &minZero,
				MaxValue:    maxHistory,
			},
		},
	},
}
