package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/carddeck/internal/config"
	"github.com/fadedpez/carddeck/internal/discord"
	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/pkg/entities"
	"github.com/fadedpez/carddeck/pkg/renderer"
	deckService "github.com/fadedpez/carddeck/pkg/services/deck"
)

const commandTimeout = 10 * time.Second

// DeckService is what the bot needs from the deck service
type DeckService interface {
	Create(ctx context.Context, tableID string, opts entities.StandardDeckOptions) (*entities.DeckRecord, error)
	Draw(ctx context.Context, tableID string, opts deckService.DrawOptions) (*deckService.DrawResult, error)
	Reset(ctx context.Context, tableID string) (int, error)
	Shuffle(ctx context.Context, tableID string) (int, error)
	Remaining(ctx context.Context, tableID string) (int, error)
	RecentDraws(ctx context.Context, tableID string, limit int) ([]*entities.DrawRecord, error)
}

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config   *config.Config
	session  discord.SessionHandler
	decks    DeckService
	renderer renderer.Renderer
	logger   *logging.Logger

	commands       []*discordgo.ApplicationCommand
	removeHandlers []func()
	shutdownWg     sync.WaitGroup
}

// New creates a bot on an unopened session; each channel gets its own deck
func New(cfg *config.Config, session discord.SessionHandler, decks DeckService, r renderer.Renderer, logger *logging.Logger) *Bot {
	if r == nil {
		r = renderer.NewTextRenderer()
	}
	if logger == nil {
		logger = logging.Default
	}

	b := &Bot{
		config:   cfg,
		session:  session,
		decks:    decks,
		renderer: r,
		logger:   logger,
		commands: make([]*discordgo.ApplicationCommand, 0),
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.removeHandlers = append(b.removeHandlers, b.session.AddHandler(b.handleInteractionCreate))
}

// Start connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Warn("Failed to clean up old commands: %v", err)
		}
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Bot started with %d commands", len(b.commands))
	return nil
}

// Shutdown waits for in-flight commands, then closes the session
func (b *Bot) Shutdown() error {
	for _, remove := range b.removeHandlers {
		remove()
	}
	b.removeHandlers = nil

	b.shutdownWg.Wait()

	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Warn("Failed to clean up commands: %v", err)
		}
	}

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("error closing Discord session: %w", err)
	}
	return nil
}

func (b *Bot) registerCommands() error {
	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
		b.logger.Debug("Registered command: %s", cmd.Name)
	}
	return nil
}

// cleanupCommands deletes every command the app has registered in the guild
func (b *Bot) cleanupCommands() error {
	existing, err := b.session.ApplicationCommands(b.config.AppID, b.config.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	for _, cmd := range existing {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			return fmt.Errorf("failed to delete command %s: %w", cmd.Name, err)
		}
	}
	b.commands = b.commands[:0]
	return nil
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(b.session, i)
	case discordgo.InteractionMessageComponent:
		b.handleButton(b.session, i)
	}
}
