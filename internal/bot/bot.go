package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
)

// Config holds the delivery bot configuration
type Config struct {
	Token        string
	ChannelID    string
	ListenAddr   string
	AssetBaseURL string
}

// embedSender is the slice of the chat session the delivery path uses.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot delivers claimed cards to a chat channel. It listens for claim
// payloads from the engine on a small HTTP endpoint and posts each valid
// claim as a message with the card image.
type Bot struct {
	session      *discordgo.Session
	sender       embedSender
	channelID    string
	assetBaseURL string
	httpServer   *http.Server
}

// New creates the delivery bot.
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	b := &Bot{
		session:      s,
		sender:       s,
		channelID:    cfg.ChannelID,
		assetBaseURL: cfg.AssetBaseURL,
	}

	r := chi.NewRouter()
	r.Post("/relay/claim", b.handleRelayClaim)
	b.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return b, nil
}

// Start opens the chat session and the relay listener.
func (b *Bot) Start() error {
	b.session.AddHandler(b.ready)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	go func() {
		slog.Info("Relay listener starting", "addr", b.httpServer.Addr)
		if err := b.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Relay listener failed", "error", err)
		}
	}()

	slog.Info("Delivery bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop closes the session and the relay listener.
func (b *Bot) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = b.httpServer.Shutdown(ctx)
	_ = b.session.Close()
}

// Run runs the bot until a signal is received
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", s.State.User.Username)
}
