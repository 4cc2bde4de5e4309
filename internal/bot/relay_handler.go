package bot

import (
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/relay"
)

// handleRelayClaim receives a claim payload from the engine and posts the
// card to the chat channel. Delivery is best-effort and one-way: malformed
// or non-claim payloads are logged and dropped, never reported back, so the
// endpoint acknowledges every request it managed to read.
func (b *Bot) handleRelayClaim(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		log.Error("Failed to read relay payload", "error", err)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	payload, err := relay.ParseClaim(raw)
	if err != nil {
		log.Warn("Ignoring relay payload", "error", err)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := b.deliver(payload); err != nil {
		log.Error("Failed to deliver claim message",
			"card_id", payload.CardID, "error", err)
	} else {
		log.Info("Claim delivered", "card_id", payload.CardID, "rarity", payload.Rarity)
	}

	w.WriteHeader(http.StatusAccepted)
}

// deliver posts the formatted claim as an embed with the card image.
func (b *Bot) deliver(payload relay.Payload) error {
	embed := &discordgo.MessageEmbed{
		Description: relay.FormatMessage(payload),
		Image: &discordgo.MessageEmbedImage{
			URL: relay.ResolveImage(b.assetBaseURL, payload.Image),
		},
	}

	_, err := b.sender.ChannelMessageSendEmbed(b.channelID, embed)
	return err
}
