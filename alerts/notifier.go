package alerts

import (
	"errors"
	"fmt"
	"net/http"

	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/embeds"
	"Chance_bot_v1/logging"
	"Chance_bot_v1/metrics"
	"Chance_bot_v1/rtp_utils"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// DMSender is the part of *discordgo.Session used to DM users.
type DMSender interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier DMs users whose alerts match a newly posted lottery.
type Notifier struct {
	Manager *Manager
	Session DMSender
	Logger  *log.Logger
}

// Notify sends at most one DM per matching user and returns how many were delivered.
func (n *Notifier) Notify(l chance_api.Lottery, playURL string) int {
	logger := logging.OrDiscard(n.Logger)

	// RTP is 0 when ticket or odds are missing, so only RTP criteria fail.
	matches := n.Manager.MatchValues(l.Prize(), l.Ticket(), l.RTP())
	if len(matches) == 0 {
		return 0
	}

	embed := AlertEmbed(l, playURL)
	sent := 0
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true

		if err := n.send(m.UserID, embed); err != nil {
			if IsForbidden(err) {
				metrics.AlertsSent.WithLabelValues("forbidden").Inc()
				logger.Warn("could not DM user, DMs disabled", "user", m.UserID)
				continue
			}
			metrics.AlertsSent.WithLabelValues("failed").Inc()
			logger.Error("error sending alert", "user", m.UserID, "err", err)
			continue
		}
		sent++
		metrics.AlertsSent.WithLabelValues("sent").Inc()
		logger.Info("alert sent", "user", m.UserID, "alert", m.Alert.ID, "lottery", l.Key())
	}
	return sent
}

func (n *Notifier) send(userID string, embed *discordgo.MessageEmbed) error {
	ch, err := n.Session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	if _, err := n.Session.ChannelMessageSendEmbed(ch.ID, embed); err != nil {
		return fmt.Errorf("send DM: %w", err)
	}
	return nil
}

// IsForbidden reports whether Discord refused a DM because the user blocks them.
func IsForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeCannotSendMessagesToThisUser {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}

// AlertEmbed is the DM sent for a matching lottery.
func AlertEmbed(l chance_api.Lottery, playURL string) *discordgo.MessageEmbed {
	e := embeds.New("🔔 Lottery Alert!", embeds.ColorGold, "A new lottery matches your criteria!")
	embeds.Field(e, "🏆 Prize", fmt.Sprintf("**%s** USDC", rtp_utils.FormatCurrency(l.Prize(), false)), true)
	embeds.Field(e, "🎫 Ticket", fmt.Sprintf("**%s** USDC", rtp_utils.FormatCurrency(l.Ticket(), false)), true)

	odds := "N/A"
	if l.Odds() > 0 {
		odds = fmt.Sprintf("**1 in %s**", rtp_utils.FormatNumber(l.Odds()))
	}
	embeds.Field(e, "🎲 Odds", odds, true)

	if rtp := l.RTP(); rtp > 0 {
		embeds.Field(e, "📊 RTP", fmt.Sprintf("**%.1f%%**", rtp), true)
	}
	embeds.Field(e, "🎮 Play Now", fmt.Sprintf("[Click to Play](%s)", playURL), false)
	return embeds.Footer(e, "Manage alerts with /myalerts and /deletealert")
}
