package monitor

import (
	"fmt"
	"time"

	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/embeds"
	"Chance_bot_v1/rtp_utils"

	"github.com/bwmarrin/discordgo"
)

// LotteryEmbed renders the "NEW LOTTERY LIVE" announcement.
func LotteryEmbed(l chance_api.Lottery, playURL string, now time.Time) *discordgo.MessageEmbed {
	prize, ticket, odds := l.Prize(), l.Ticket(), l.Odds()
	rtp := l.RTP()
	tier := rtp_utils.MinimumRTP(prize)
	passes := rtp_utils.PassesMinimum(rtp, tier.Minimum)

	e := embeds.New("🎰 NEW LOTTERY LIVE", embedColor(rtp, passes), "")
	e.URL = playURL
	embeds.Timestamp(e, now)

	embeds.Field(e, "💰 Prize", fmt.Sprintf("**%s** USDC", rtp_utils.FormatCurrency(prize, false)), true)
	embeds.Field(e, "🎫 Ticket Price", fmt.Sprintf("**$%.2f** USDC", ticket), true)
	embeds.Field(e, "📊 Odds", fmt.Sprintf("**1 in %s**", rtp_utils.FormatNumber(odds)), true)

	mark := "❌"
	if passes {
		mark = "✅"
	}
	embeds.Field(e, "📈 RTP", fmt.Sprintf("**%.2f%%** %s", rtp, mark), true)
	embeds.Field(e, "⏰ Duration", fmt.Sprintf("**%s**", durationText(l.DurationSeconds())), true)

	maxTickets := "**Unlimited**"
	if n := l.MaxTickets.Int(); n > 0 {
		maxTickets = fmt.Sprintf("**%s**", rtp_utils.FormatNumber(n))
	}
	embeds.Field(e, "🎟️ Max Tickets", maxTickets, true)

	if aff := l.Affiliate(); aff > 0 {
		embeds.Field(e, "💸 Affiliate Rewards", fmt.Sprintf("**%s**", rtp_utils.FormatPercent(aff)), true)
	}

	embeds.Field(e, "💡 Market Position", marketText(rtp, passes, tier.Minimum), false)
	embeds.Field(e, "🎮 Play Now", fmt.Sprintf("[Click to Play](%s)", playURL), false)

	if contract := l.Contract(); contract != "" {
		embeds.Footer(e, "Contract: "+rtp_utils.ShortContract(contract))
	}
	return e
}

func embedColor(rtp float64, passes bool) int {
	switch {
	case rtp >= 85:
		return embeds.ColorGreen
	case rtp >= 75:
		return embeds.ColorBlue
	case passes:
		return embeds.ColorOrange
	default:
		return embeds.ColorRed
	}
}

func marketText(rtp float64, passes bool, minimum float64) string {
	switch {
	case rtp >= 85:
		return "🔥 Very competitive! Player-friendly RTP."
	case rtp >= 75:
		return "✅ Competitive RTP. Good value."
	case passes:
		return "⚠️ Meets minimum but not highly competitive."
	default:
		return fmt.Sprintf("❌ Below %s minimum for this tier.", rtp_utils.FormatPercent(minimum))
	}
}

func durationText(seconds int64) string {
	if seconds <= 0 {
		return "Unlimited"
	}
	hours := seconds / 3600
	if hours < 24 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d days", hours/24)
}
