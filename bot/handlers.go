package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"Chance_bot_v1/alerts"
	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/leaderboard"
	"Chance_bot_v1/logging"
	"Chance_bot_v1/metrics"
	"Chance_bot_v1/rtp_utils"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Session is the part of *discordgo.Session the command handlers use.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// LotteryAPI is what /stats and /leaderboard read from.
type LotteryAPI interface {
	AllLotteries(ctx context.Context) ([]chance_api.Lottery, error)
}

// Handlers answers slash commands.
type Handlers struct {
	Session     Session
	API         LotteryAPI
	Alerts      *alerts.Manager
	Leaderboard *leaderboard.Poster
	PlayURL     string
	Logger      *log.Logger

	now func() time.Time
	rng *rand.Rand
}

type commandFunc func(ctx context.Context, i *discordgo.Interaction, opts options)

func (h *Handlers) table() map[string]commandFunc {
	return map[string]commandFunc{
		"rtp":              h.rtp,
		"breakeven":        h.breakeven,
		"optimize":         h.optimize,
		"suggest":          h.suggest,
		"simulate":         h.simulate,
		"compare":          h.compare,
		"stats":            h.stats,
		"leaderboard":      h.leaderboard,
		"preview":          h.preview,
		"alert":            h.alert,
		"myalerts":         h.myAlerts,
		"deletealert":      h.deleteAlert,
		"forceleaderboard": h.forceLeaderboard,
		"posthelp":         h.postHelp,
		"help":             h.help,
	}
}

// Handle dispatches an application command interaction. Other interaction
// types are ignored.
func (h *Handlers) Handle(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	fn, ok := h.table()[data.Name]
	if !ok {
		logging.OrDiscard(h.Logger).Warn("unknown command", "command", data.Name)
		return
	}
	metrics.Commands.WithLabelValues(data.Name).Inc()
	fn(ctx, i, optionMap(data.Options))
}

func (h *Handlers) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *Handlers) logger() *log.Logger { return logging.OrDiscard(h.Logger) }

// interactionUser is the invoking user in guilds and in DMs.
func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (h *Handlers) reply(i *discordgo.Interaction, content string, list ...*discordgo.MessageEmbed) {
	err := h.Session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  list,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger().Error("could not respond to interaction", "err", err)
	}
}

func (h *Handlers) replyError(i *discordgo.Interaction, err error) {
	h.reply(i, errorText(err))
}

// deferReply acknowledges a slow command; the answer follows via followUp.
func (h *Handlers) deferReply(i *discordgo.Interaction) error {
	return h.Session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (h *Handlers) followUp(i *discordgo.Interaction, content string, list ...*discordgo.MessageEmbed) {
	_, err := h.Session.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Embeds:  list,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		h.logger().Error("could not send follow-up", "err", err)
	}
}

func (h *Handlers) rtp(_ context.Context, i *discordgo.Interaction, o options) {
	embed, err := RTPEmbed(o.float("prize", 0), o.float("ticket", 0), o.int("odds", 0))
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", embed)

	user := interactionUser(i)
	if user == nil {
		return
	}
	err = h.sendDM(user.ID, DMCopy(embed))
	switch {
	case err == nil:
		h.followUp(i, "📬 Check your DMs for a copy of your calculation!")
	case alerts.IsForbidden(err):
		h.followUp(i, "⚠️ Couldn't send you a DM. Make sure your DMs are open to receive calculations!")
	default:
		h.logger().Error("error sending DM", "user", user.ID, "err", err)
	}
}

func (h *Handlers) sendDM(userID string, embed *discordgo.MessageEmbed) error {
	ch, err := h.Session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = h.Session.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}

func (h *Handlers) breakeven(_ context.Context, i *discordgo.Interaction, o options) {
	report, err := rtp_utils.Breakeven(o.float("prize", 0), o.float("ticket", 0), o.int("odds", 0), o.float("affiliate", 0))
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", BreakevenEmbed(report))
}

func (h *Handlers) optimize(_ context.Context, i *discordgo.Interaction, o options) {
	s, err := rtp_utils.Optimize(o.float("prize", 0), o.float("affiliate", 0))
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", OptimizeEmbed(s))
}

func (h *Handlers) suggest(_ context.Context, i *discordgo.Interaction, o options) {
	s, err := rtp_utils.Suggest(o.float("prize", 0), o.float("target_rtp", 0), o.float("affiliate", 0))
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", SuggestEmbed(s))
}

func (h *Handlers) simulate(_ context.Context, i *discordgo.Interaction, o options) {
	res, err := rtp_utils.Simulate(rtp_utils.SimulationInput{
		Prize:      o.float("prize", 0),
		Ticket:     o.float("ticket", 0),
		Odds:       o.int("odds", 0),
		Affiliate:  o.float("affiliate", 0),
		MaxTickets: o.int("max_tickets", 0),
		Runs:       rtp_utils.DefaultSimulationRuns,
	}, h.rng)
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", SimulateEmbed(res))
}

func (h *Handlers) compare(_ context.Context, i *discordgo.Interaction, o options) {
	aff := o.float("affiliate", 0)
	c, err := rtp_utils.Compare(
		rtp_utils.Setup{Prize: o.float("prize_a", 0), Ticket: o.float("ticket_a", 0), Odds: o.int("odds_a", 0), Affiliate: aff},
		rtp_utils.Setup{Prize: o.float("prize_b", 0), Ticket: o.float("ticket_b", 0), Odds: o.int("odds_b", 0), Affiliate: aff},
	)
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", CompareEmbed(c))
}

// fetch defers the reply and loads lotteries, answering with an error on failure.
func (h *Handlers) fetch(ctx context.Context, i *discordgo.Interaction, caller string) ([]chance_api.Lottery, bool) {
	if err := h.deferReply(i); err != nil {
		h.logger().Error("could not defer interaction", "err", err)
		return nil, false
	}
	lotteries, err := h.API.AllLotteries(ctx)
	if err != nil {
		metrics.APIErrors.WithLabelValues(caller).Inc()
		h.logger().Error("could not fetch lotteries", "command", caller, "err", err)
		h.followUp(i, "❌ **Error:** Could not reach the Chance API. Try again in a minute.")
		return nil, false
	}
	return lotteries, true
}

func (h *Handlers) stats(ctx context.Context, i *discordgo.Interaction, _ options) {
	lotteries, ok := h.fetch(ctx, i, "stats")
	if !ok {
		return
	}
	h.followUp(i, "", StatsEmbed(chance_api.PlatformStats(lotteries), h.clock()))
}

func (h *Handlers) leaderboard(ctx context.Context, i *discordgo.Interaction, _ options) {
	lotteries, ok := h.fetch(ctx, i, "leaderboard")
	if !ok {
		return
	}
	h.followUp(i, "", leaderboard.Boards(lotteries)...)
}

func (h *Handlers) preview(_ context.Context, i *discordgo.Interaction, o options) {
	embed, err := PreviewEmbed(PreviewInput{
		Prize:         o.float("prize", 0),
		Ticket:        o.float("ticket", 0),
		Odds:          o.int("odds", 0),
		DurationHours: o.int("duration_hours", 0),
		MaxTickets:    o.int("max_tickets", 0),
		Affiliate:     o.float("affiliate", 0),
	}, h.PlayURL, h.clock())
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", embed)
}

func (h *Handlers) alert(_ context.Context, i *discordgo.Interaction, o options) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	a, err := h.Alerts.Add(user.ID, alerts.Alert{
		MinPrize:  o.float("min_prize", 0),
		MaxPrize:  o.float("max_prize", 0),
		MaxTicket: o.float("max_ticket", 0),
		MinRTP:    o.float("min_rtp", 0),
	})
	if err != nil {
		h.replyError(i, err)
		return
	}
	h.reply(i, "", AlertCreatedEmbed(a, len(h.Alerts.List(user.ID))))
}

func (h *Handlers) myAlerts(_ context.Context, i *discordgo.Interaction, _ options) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	h.reply(i, "", MyAlertsEmbed(h.Alerts.List(user.ID)))
}

func (h *Handlers) deleteAlert(_ context.Context, i *discordgo.Interaction, o options) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	id := int(o.int("alert_id", 0))
	if err := h.Alerts.Delete(user.ID, id); err != nil {
		h.reply(i, alertErrorText(err, id))
		return
	}
	h.reply(i, fmt.Sprintf("✅ Alert #%d deleted!", id))
}

func (h *Handlers) forceLeaderboard(ctx context.Context, i *discordgo.Interaction, _ options) {
	if h.Leaderboard == nil || h.Leaderboard.ChannelID == "" {
		h.reply(i, "❌ **Error:** Leaderboard channel not configured! Set `CHANNEL_LEADERBOARD` in environment variables.")
		return
	}
	h.reply(i, "📊 **Posting leaderboards now...** Check the leaderboard channel!")
	if err := h.Leaderboard.PostAll(ctx); err != nil {
		h.logger().Error("❌ Error force-posting leaderboards", "err", err)
		return
	}
	h.logger().Info("✅ Leaderboards force-posted by admin")
}

func (h *Handlers) postHelp(_ context.Context, i *discordgo.Interaction, _ options) {
	h.reply(i, "📋 **Posting help guide...**")
	for _, e := range PostHelpEmbeds(h.PlayURL) {
		if _, err := h.Session.ChannelMessageSendEmbed(i.ChannelID, e); err != nil {
			h.logger().Error("could not post help guide", "channel", i.ChannelID, "err", err)
			return
		}
	}
	if u := interactionUser(i); u != nil {
		h.logger().Info("✅ Help guide posted", "channel", i.ChannelID, "by", u.Username)
	}
}

func (h *Handlers) help(_ context.Context, i *discordgo.Interaction, _ options) {
	h.reply(i, "", HelpEmbed())
}
