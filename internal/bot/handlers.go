package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/carddeck/internal/discord"
	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
	"github.com/fadedpez/carddeck/pkg/renderer"
	historyRepo "github.com/fadedpez/carddeck/pkg/repositories/history"
	deckService "github.com/fadedpez/carddeck/pkg/services/deck"
)

// cardPlacement is the size a drawn card is rendered at in chat
var cardPlacement = renderer.At(0, 0, 5, 3)

type sendFunc func(s discord.SessionHandler, i *discordgo.InteractionCreate, r *discord.Response) error

// handleSlashCommand routes slash commands; the channel is the table
func (b *Bot) handleSlashCommand(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	options := optionMap(data.Options)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var resp *discord.Response
	var err error
	switch data.Name {
	case CommandDeck:
		resp, err = b.handleDeck(ctx, i.ChannelID, options)
	case CommandDraw:
		resp, err = b.handleDraw(ctx, i.ChannelID, options)
	case CommandReset:
		resp, err = b.handleReset(ctx, i.ChannelID)
	case CommandShuffle:
		resp, err = b.handleShuffle(ctx, i.ChannelID)
	case CommandRemaining:
		resp, err = b.handleRemaining(ctx, i.ChannelID)
	case CommandHistory:
		resp, err = b.handleHistory(ctx, i.ChannelID, options)
	default:
		err = types.Errorf(types.ErrInvalidCommand, "unknown command %q", data.Name)
	}

	b.respond(s, i, resp, err, discord.SendResponse)
}

// handleButton handles button clicks on earlier responses
func (b *Bot) handleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch customID {
	case ButtonDrawAgain:
		resp, err := b.handleDraw(ctx, i.ChannelID, nil)
		if err != nil {
			b.respond(s, i, nil, err, discord.SendResponse)
			return
		}
		b.respond(s, i, resp, nil, discord.UpdateResponse)
	default:
		b.respond(s, i, nil, types.Errorf(types.ErrInvalidCommand, "unknown button %q", customID), discord.SendResponse)
	}
}

func (b *Bot) respond(s discord.SessionHandler, i *discordgo.InteractionCreate, resp *discord.Response, err error, send sendFunc) {
	if err != nil {
		switch types.CodeOf(err) {
		case "", types.ErrDatabase, types.ErrNetwork, types.ErrInternal:
			b.logger.LogError(err)
		default:
			b.logger.Debug("Command rejected in channel %s: %v", i.ChannelID, err)
		}
		resp = discord.NewErrorResponse(err)
		send = discord.SendResponse
	}

	if sendErr := send(s, i, resp); sendErr != nil {
		b.logger.Error("Failed to respond to interaction %s: %v", i.ID, sendErr)
	}
}

func (b *Bot) handleDeck(ctx context.Context, tableID string, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discord.Response, error) {
	opts := entities.DefaultStandardDeckOptions()
	opts.IncludeBlank = boolOption(options, "blank", opts.IncludeBlank)
	opts.IncludeJoker = boolOption(options, "joker", opts.IncludeJoker)

	rec, err := b.decks.Create(ctx, tableID, opts)
	if err != nil {
		return nil, err
	}
	return discord.NewResponse(fmt.Sprintf("🃏 Dealt a fresh deck of %d cards", len(rec.Current)), drawButtons()), nil
}

func (b *Bot) handleDraw(ctx context.Context, tableID string, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discord.Response, error) {
	opts := deckService.DrawOptions{
		Position: intOption(options, "position", 0),
		NoReset:  boolOption(options, "no_reset", false),
	}

	result, err := b.decks.Draw(ctx, tableID, opts)
	if err != nil {
		return nil, err
	}

	face, err := b.renderer.Render(result.Card, cardPlacement)
	if err != nil {
		return nil, err
	}
	if strings.Contains(face, "\n") {
		face = "```\n" + face + "\n```"
	}

	var sb strings.Builder
	if result.Draw.Reshuffled {
		sb.WriteString("🔄 The deck was empty, so every card went back in.\n")
	}
	fmt.Fprintf(&sb, "🃏 Drew %s\n%s\n%d left", cardName(result.Draw.Card), face, result.Draw.Remaining)
	return discord.NewResponse(sb.String(), drawButtons()), nil
}

func (b *Bot) handleReset(ctx context.Context, tableID string) (*discord.Response, error) {
	size, err := b.decks.Reset(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return discord.NewResponse(fmt.Sprintf("🔄 Every card is back, %d in the deck", size), drawButtons()), nil
}

func (b *Bot) handleShuffle(ctx context.Context, tableID string) (*discord.Response, error) {
	size, err := b.decks.Shuffle(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return discord.NewResponse(fmt.Sprintf("🔀 Shuffled the %d cards left", size), drawButtons()), nil
}

func (b *Bot) handleRemaining(ctx context.Context, tableID string) (*discord.Response, error) {
	size, err := b.decks.Remaining(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return discord.NewEphemeralResponse(fmt.Sprintf("📦 %d cards left", size), nil), nil
}

func (b *Bot) handleHistory(ctx context.Context, tableID string, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discord.Response, error) {
	limit := intOption(options, "limit", historyRepo.DefaultLimit)
	if limit > maxHistory {
		limit = maxHistory
	}

	draws, err := b.decks.RecentDraws(ctx, tableID, limit)
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return discord.NewEphemeralResponse("📜 No draws yet", nil), nil
	}

	var sb strings.Builder
	sb.WriteString("📜 Latest draws:")
	for n, d := range draws {
		fmt.Fprintf(&sb, "\n%d. %s from position %d <t:%d:R>", n+1, cardName(d.Card), d.Position, d.DrawnAt.Unix())
		if d.Reshuffled {
			sb.WriteString(" 🔄")
		}
	}
	return discord.NewEphemeralResponse(sb.String(), nil), nil
}

func drawButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Draw",
					Style:    discordgo.PrimaryButton,
					CustomID: ButtonDrawAgain,
				},
			},
		},
	}
}

// cardName names a card string for chat; the blank card prints as nothing
func cardName(card string) string {
	switch card {
	case "":
		return "**blank**"
	case entities.Wildcard:
		return "**joker**"
	default:
		return "**" + card + "**"
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func boolOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, def bool) bool {
	opt, ok := options[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionBoolean {
		return def
	}
	return opt.BoolValue()
}

func intOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, def int) int {
	opt, ok := options[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return def
	}
	return int(opt.IntValue())
}
