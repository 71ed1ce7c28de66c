package leaderboard

import (
	"fmt"
	"strings"
	"time"

	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/embeds"
	"Chance_bot_v1/rtp_utils"

	"github.com/bwmarrin/discordgo"
)

// Size is how many rows each board shows.
const Size = 10

const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Header is the plain message that opens a day's post.
func Header(now time.Time) string {
	return fmt.Sprintf("# 🏆 Daily Leaderboards - %s\n%s", now.UTC().Format("January 02, 2006"), separator)
}

// Boards builds the three leaderboard embeds in posting order.
func Boards(lotteries []chance_api.Lottery) []*discordgo.MessageEmbed {
	return []*discordgo.MessageEmbed{
		CreatorsEmbed(lotteries),
		WinnersEmbed(lotteries),
		VolumeEmbed(lotteries),
	}
}

func CreatorsEmbed(lotteries []chance_api.Lottery) *discordgo.MessageEmbed {
	rows := chance_api.TopCreators(lotteries, Size)
	e := embeds.New("🎨 Top Creators", embeds.ColorGold, "Ranked by lotteries created")
	return rankings(e, rows, "No creators yet!", func(r chance_api.Ranking) string {
		return fmt.Sprintf("**%d** lotteries • %s vol", r.Count, rtp_utils.FormatCompact(r.Volume))
	})
}

func WinnersEmbed(lotteries []chance_api.Lottery) *discordgo.MessageEmbed {
	rows := chance_api.TopWinners(lotteries, Size)
	e := embeds.New("💰 Top Winners", embeds.ColorGreen, "Ranked by total prizes won")
	return rankings(e, rows, "No winners yet!", func(r chance_api.Ranking) string {
		return fmt.Sprintf("**%s** • %d wins", rtp_utils.FormatCompact(r.Won), r.Wins)
	})
}

func VolumeEmbed(lotteries []chance_api.Lottery) *discordgo.MessageEmbed {
	rows := chance_api.TopVolume(lotteries, Size)
	e := embeds.New("📊 Top Volume", embeds.ColorBlue, "Ranked by total volume generated")
	return rankings(e, rows, "No volume yet!", func(r chance_api.Ranking) string {
		return fmt.Sprintf("**%s** • %s tickets", rtp_utils.FormatCompact(r.Volume), rtp_utils.FormatNumber(r.Tickets))
	})
}

func rankings(e *discordgo.MessageEmbed, rows []chance_api.Ranking, empty string, detail func(chance_api.Ranking) string) *discordgo.MessageEmbed {
	if len(rows) == 0 {
		return embeds.Field(e, "Rankings", empty, false)
	}
	var b strings.Builder
	for i, r := range rows {
		fmt.Fprintf(&b, "%s `%s` — %s\n", embeds.Medal(i), rtp_utils.ShortAddress(r.Address), detail(r))
	}
	return embeds.Field(e, "Rankings", b.String(), false)
}
