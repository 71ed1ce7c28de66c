package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"Chance_bot_v1/alerts"
	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/embeds"
	"Chance_bot_v1/monitor"
	"Chance_bot_v1/rtp_utils"

	"github.com/bwmarrin/discordgo"
)

// errorText renders an error the way every command reports bad input.
func errorText(err error) string {
	msg := err.Error()
	if msg != "" {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return "❌ **Error:** " + msg
}

func usd(v float64) string { return rtp_utils.FormatCurrency(v, false) }

func signedUSD(v float64) string {
	if v < 0 {
		return "-" + usd(-v)
	}
	return "+" + usd(v)
}

// RTPEmbed is the /rtp result.
func RTPEmbed(prize, ticket float64, odds int64) (*discordgo.MessageEmbed, error) {
	if err := rtp_utils.ValidateSetup(prize, ticket, odds); err != nil {
		return nil, err
	}
	rtp := rtp_utils.CalculateRTP(prize, ticket, odds)
	tier := rtp_utils.MinimumRTP(prize)
	passes := rtp_utils.PassesMinimum(rtp, tier.Minimum)
	minimum := rtp_utils.FormatPercent(tier.Minimum)

	color, mark, status := embeds.ColorGreen, "✅", fmt.Sprintf("Meets %s minimum for %s", minimum, tier.Name)
	if !passes {
		color, mark, status = embeds.ColorRed, "❌", fmt.Sprintf("Below %s minimum for %s", minimum, tier.Name)
	}

	e := embeds.New("🎰 RTP Calculator Results", color, "Calculation for your lottery parameters")
	embeds.Field(e, "📊 Input Parameters", fmt.Sprintf("**Prize:** %s USDC\n**Ticket Price:** %s USDC\n**Odds:** 1 in %s",
		usd(prize), usd(ticket), rtp_utils.FormatNumber(odds)), false)
	embeds.Field(e, "📈 RTP Result", fmt.Sprintf("**%.2f%%** %s", rtp, mark), true)
	embeds.Field(e, "🎯 Tier Requirement", fmt.Sprintf("**%s** minimum\n(%s)", minimum, tier.Name), true)
	embeds.Field(e, "✨ Status", status, false)

	if passes {
		embeds.Field(e, "💡 Market Position", rtp_utils.MarketPosition(rtp, tier).String(), false)
	} else {
		embeds.Field(e, "💡 How to Fix", fmt.Sprintf("Your RTP is **%.2f%%** too low.\n\n**Options:**\n"+
			"• Increase prize amount\n• Decrease ticket price\n• Improve odds (lower pick range)", tier.Minimum-rtp), false)
	}
	return embeds.Footer(e, "Chance RTP Calculator • Use /breakeven for profit calculations"), nil
}

// DMCopy is the private copy of a calculation sent to the user.
func DMCopy(e *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	return embeds.Footer(embeds.Copy(e), "This is your private RTP calculation from Chance Discord")
}

func BreakevenEmbed(r *rtp_utils.BreakevenReport) *discordgo.MessageEmbed {
	color := embeds.ColorGreen
	if r.ExpectedProfit <= 0 {
		color = embeds.ColorRed
	}
	e := embeds.New("⚖️ Break-even Analysis", color, "Creator economics for your lottery")
	embeds.Field(e, "📊 Setup", fmt.Sprintf("**Prize:** %s\n**Ticket:** %s\n**Odds:** 1 in %s\n**Affiliate:** %s\n**RTP:** %.2f%%",
		usd(r.Prize), usd(r.Ticket), rtp_utils.FormatNumber(r.Odds), rtp_utils.FormatPercent(r.Affiliate), r.RTP), true)
	embeds.Field(e, "💵 Expected Economics", fmt.Sprintf("**Gross:** %s\n**Platform fee (5%%):** -%s\n**Affiliate:** -%s\n**Net revenue:** %s\n**Profit:** %s\n**ROI:** %.1f%%",
		usd(r.ExpectedGross), usd(r.PlatformCost), usd(r.AffiliateCost), usd(r.NetRevenue), signedUSD(r.ExpectedProfit), r.ROI), true)
	embeds.Field(e, "⚖️ Break-even Point", fmt.Sprintf("**%s** tickets (%.1f%% of odds)\nYou keep %s per ticket",
		rtp_utils.FormatNumber(r.BreakevenTickets), r.BreakevenShare, usd(r.NetPerTicket)), false)

	var b strings.Builder
	for _, s := range r.Scenarios {
		fmt.Fprintf(&b, "%s — %s tickets → **%s**\n", s.Label, rtp_utils.FormatNumber(s.TicketsSold), signedUSD(s.Profit))
	}
	embeds.Field(e, "📈 Scenarios", b.String(), false)
	return embeds.Footer(e, "Expected values assume tickets sell until the odds are reached • Try /simulate")
}

func suggestionFields(e *discordgo.MessageEmbed, s *rtp_utils.Suggestion) {
	for _, o := range s.Options {
		embeds.Field(e, o.Name, fmt.Sprintf("*%s*\n🎫 **Ticket:** %s\n🎲 **Odds:** 1 in %s\n📊 **RTP:** %.1f%%\n💰 **Your ROI:** %.1f%%\n⚖️ **Break-even:** %s tickets\n💵 **Expected Profit:** %s",
			o.Description, usd(o.Ticket), rtp_utils.FormatNumber(o.Odds), o.RTP, o.ROI, rtp_utils.FormatNumber(o.Breakeven), usd(o.ExpectedProfit)), true)
	}
}

func SuggestEmbed(s *rtp_utils.Suggestion) *discordgo.MessageEmbed {
	e := embeds.New("🎯 Suggested Lottery Parameters", embeds.ColorGreen, fmt.Sprintf("**Prize:** %s USDC\n**Target RTP:** %s\n**Affiliate:** %s",
		usd(s.Prize), rtp_utils.FormatPercent(s.TargetRTP), rtp_utils.FormatPercent(s.Affiliate)))
	suggestionFields(e, s)
	embeds.Field(e, "📋 Summary", fmt.Sprintf("All options achieve ~**%s RTP** for players\nMin RTP required: %s (%s) ✅\nMax profitable RTP: %.1f%%",
		rtp_utils.FormatPercent(s.TargetRTP), rtp_utils.FormatPercent(s.Tier.Minimum), s.Tier.Name, s.MaxRTP), false)
	embeds.Field(e, "💡 Tips", "• **Budget** = More players, longer to fill\n• **Premium** = Fewer players needed, faster fill\n• Use `/preview` to see how it looks before launch", false)
	return embeds.Footer(e, "Use /simulate to test any of these setups!")
}

func OptimizeEmbed(s *rtp_utils.Suggestion) *discordgo.MessageEmbed {
	e := embeds.New("⚡ Optimized Lottery Parameters", embeds.ColorPurple, fmt.Sprintf("**Prize:** %s USDC\n**Affiliate:** %s\n**Recommended RTP:** %s",
		usd(s.Prize), rtp_utils.FormatPercent(s.Affiliate), rtp_utils.FormatPercent(s.TargetRTP)))
	suggestionFields(e, s)
	embeds.Field(e, "🧠 Why this RTP?", fmt.Sprintf("Clears the %s minimum (%s) with room to compete while staying under the %.1f%% profitability ceiling.",
		rtp_utils.FormatPercent(s.Tier.Minimum), s.Tier.Name, s.MaxRTP), false)
	return embeds.Footer(e, "Want a different RTP? Use /suggest with your own target")
}

func SimulateEmbed(r *rtp_utils.SimulationResult) *discordgo.MessageEmbed {
	color := embeds.ColorGreen
	if r.AvgProfit <= 0 {
		color = embeds.ColorOrange
	}
	in := r.Input
	e := embeds.New("🎲 Monte Carlo Simulation", color, fmt.Sprintf("Played your lottery out **%s** times", rtp_utils.FormatNumber(int64(in.Runs))))

	maxTickets := "Unlimited"
	if in.MaxTickets > 0 {
		maxTickets = rtp_utils.FormatNumber(in.MaxTickets)
	}
	embeds.Field(e, "📊 Setup", fmt.Sprintf("**Prize:** %s\n**Ticket:** %s\n**Odds:** 1 in %s\n**Max tickets:** %s\n**RTP:** %.2f%%",
		usd(in.Prize), usd(in.Ticket), rtp_utils.FormatNumber(in.Odds), maxTickets, r.RTP), true)
	embeds.Field(e, "💵 Creator Profit", fmt.Sprintf("**Average:** %s\n**Median:** %s\n**Best:** %s\n**Worst:** %s",
		signedUSD(r.AvgProfit), signedUSD(r.MedianProfit), signedUSD(r.BestProfit), signedUSD(r.WorstProfit)), true)
	embeds.Field(e, "🎯 Outcomes", fmt.Sprintf("**Profitable runs:** %.1f%%\n**No winner:** %.1f%%\n**Avg tickets sold:** %s",
		r.ProfitableRuns, r.NoWinnerRuns, rtp_utils.FormatFloat(r.AvgTickets, 0)), false)
	return embeds.Footer(e, "Each ticket wins with probability 1/odds • Results vary run to run")
}

func setupText(m rtp_utils.SetupMetrics) string {
	mark := "✅"
	if !m.Passes {
		mark = "❌"
	}
	return fmt.Sprintf("**Prize:** %s\n**Ticket:** %s\n**Odds:** 1 in %s\n**RTP:** %.2f%% %s\n**ROI:** %.1f%%\n**Break-even:** %s tickets\n**Profit:** %s",
		usd(m.Prize), usd(m.Ticket), rtp_utils.FormatNumber(m.Odds), m.RTP, mark, m.ROI, rtp_utils.FormatNumber(m.Breakeven), signedUSD(m.ExpectedProfit))
}

func verdict(w rtp_utils.Winner) string {
	if w == rtp_utils.WinnerTie {
		return "Tie"
	}
	return "Setup " + string(w)
}

func CompareEmbed(c *rtp_utils.Comparison) *discordgo.MessageEmbed {
	e := embeds.New("⚔️ Lottery Comparison", embeds.ColorBlue, "Two setups side by side")
	embeds.Field(e, "🅰️ Setup A", setupText(c.A), true)
	embeds.Field(e, "🅱️ Setup B", setupText(c.B), true)
	embeds.Field(e, "🏆 Verdict", fmt.Sprintf("**Players prefer:** %s (higher RTP)\n**Creators prefer:** %s (higher ROI)\n**Faster break-even:** %s",
		verdict(c.PlayerPick), verdict(c.CreatorPick), verdict(c.FasterBreakeven)), false)
	return embeds.Footer(e, "Use /simulate to see how each setup plays out")
}

func StatsEmbed(s chance_api.Stats, now time.Time) *discordgo.MessageEmbed {
	e := embeds.New("📈 Chance Platform Stats", embeds.ColorPurple, "Live numbers from the Chance subgraph")
	embeds.Field(e, "🎰 Lotteries", fmt.Sprintf("**%s** total\n%s active • %s completed",
		rtp_utils.FormatNumber(int64(s.Lotteries)), rtp_utils.FormatNumber(int64(s.Active)), rtp_utils.FormatNumber(int64(s.Completed))), true)
	embeds.Field(e, "👥 Players", fmt.Sprintf("**%s** creators\n**%s** winners",
		rtp_utils.FormatNumber(int64(s.Creators)), rtp_utils.FormatNumber(int64(s.Winners))), true)
	embeds.Field(e, "💵 Volume", fmt.Sprintf("**%s**\n%s tickets sold", rtp_utils.FormatCurrency(s.Volume, true), rtp_utils.FormatNumber(s.TicketsSold)), true)
	embeds.Field(e, "🏆 Prizes", fmt.Sprintf("**%s** won\n%s listed\nLargest: %s",
		rtp_utils.FormatCurrency(s.PrizesWon, true), rtp_utils.FormatCurrency(s.PrizesListed, true), rtp_utils.FormatCurrency(s.LargestPrize, true)), true)
	embeds.Field(e, "📊 Average RTP", fmt.Sprintf("**%.1f%%**", s.AverageRTP), true)
	embeds.Timestamp(e, now)
	return embeds.Footer(e, "Based on the latest 1,000 lotteries")
}

// PreviewInput is what /preview collects. Durations are in hours.
type PreviewInput struct {
	Prize         float64
	Ticket        float64
	Odds          int64
	DurationHours int64
	MaxTickets    int64
	Affiliate     float64
}

// PreviewEmbed shows a creator how the monitor will announce their lottery.
func PreviewEmbed(in PreviewInput, playURL string, now time.Time) (*discordgo.MessageEmbed, error) {
	if err := rtp_utils.ValidateSetup(in.Prize, in.Ticket, in.Odds); err != nil {
		return nil, err
	}
	if err := rtp_utils.ValidateAffiliate(in.Affiliate); err != nil {
		return nil, err
	}
	if in.DurationHours < 0 || in.MaxTickets < 0 {
		return nil, rtp_utils.ErrNonPositive
	}

	l := chance_api.Lottery{
		PrizeAmount:         chance_api.FromUSDC(in.Prize),
		TicketPrice:         chance_api.FromUSDC(in.Ticket),
		PickRange:           chance_api.BigInt(fmt.Sprint(in.Odds)),
		Duration:            chance_api.BigInt(fmt.Sprint(in.DurationHours * 3600)),
		MaxTickets:          chance_api.BigInt(fmt.Sprint(in.MaxTickets)),
		AffiliatePercentage: chance_api.BigInt(fmt.Sprintf("%.0f", in.Affiliate)),
	}
	e := monitor.LotteryEmbed(l, playURL, now)
	e.Title = "👀 LOTTERY PREVIEW"
	e.Description = "This is how your lottery will be announced when it goes live."

	channels := monitor.Route(l)
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = "#" + strings.ReplaceAll(c, "_", "-")
	}
	embeds.Field(e, "📣 Posted In", strings.Join(names, ", "), false)
	return embeds.Footer(e, "Preview only • Nothing has been created"), nil
}

func AlertCreatedEmbed(a alerts.Alert, total int) *discordgo.MessageEmbed {
	e := embeds.New(fmt.Sprintf("🔔 Alert #%d created!", a.ID), embeds.ColorGold, "I'll DM you when a new lottery matches.")
	embeds.Field(e, "Criteria", a.Describe(), false)
	return embeds.Footer(e, fmt.Sprintf("%d/%d alerts used • Make sure your DMs are open", total, alerts.MaxAlertsPerUser))
}

func MyAlertsEmbed(list []alerts.Alert) *discordgo.MessageEmbed {
	if len(list) == 0 {
		return embeds.New("🔔 Your Alerts", embeds.ColorBlue, "You don't have any alerts. Create one with `/alert`!")
	}
	e := embeds.New("🔔 Your Alerts", embeds.ColorBlue, fmt.Sprintf("%d/%d alerts active", len(list), alerts.MaxAlertsPerUser))
	for _, a := range list {
		embeds.Field(e, fmt.Sprintf("Alert #%d", a.ID), a.Describe(), false)
	}
	return embeds.Footer(e, "Remove one with /deletealert")
}

// alertErrorText maps alert errors to the replies users see.
func alertErrorText(err error, id int) string {
	switch {
	case errors.Is(err, alerts.ErrNoAlerts):
		return "❌ You don't have any alerts!"
	case errors.Is(err, alerts.ErrAlertNotFound):
		return fmt.Sprintf("❌ Alert #%d not found!", id)
	default:
		return errorText(err)
	}
}

func HelpEmbed() *discordgo.MessageEmbed {
	e := embeds.New("🎰 Chance Discord Bot - Help", embeds.ColorBlue, "Your complete toolkit for creating and analyzing lotteries!")
	embeds.Field(e, "📊 Analysis Commands", "**`/rtp`** - Calculate RTP\n**`/breakeven`** - Profit scenarios\n**`/optimize`** - Best parameters\n"+
		"**`/suggest`** - 🆕 Reverse calculator\n**`/simulate`** - Monte Carlo sim\n**`/compare`** - Compare setups", true)
	embeds.Field(e, "📈 Platform Commands", "**`/stats`** - Platform stats\n**`/leaderboard`** - Top users\n**`/preview`** - Preview lottery", true)
	embeds.Field(e, "🔔 Alert Commands", "**`/alert`** - Create alert\n**`/myalerts`** - View alerts\n**`/deletealert`** - Remove alert", true)
	embeds.Field(e, "🎯 /suggest - Reverse Calculator", "Tell us your prize & target RTP, get 3 optimized setups!\n`/suggest prize:5000 target_rtp:75`", false)
	embeds.Field(e, "📈 RTP Tiers", "**$100-$10K:** 70% • **$10K-$100K:** 60% • **$100K+:** 50%", false)
	return embeds.Footer(e, "Need more help? Ask in #creator-support")
}

// PostHelpEmbeds is the public guide /posthelp drops into a channel.
func PostHelpEmbeds(playURL string) []*discordgo.MessageEmbed {
	commands := embeds.New("🎰 CHANCE BOT COMMANDS", embeds.ColorGold, "Your complete toolkit for creating and analyzing lotteries!")
	embeds.Field(commands, "📊 ANALYSIS COMMANDS", "`/rtp` — Calculate RTP and validate tiers\n`/breakeven` — Calculate profit scenarios\n"+
		"`/optimize` — Get optimized lottery parameters\n`/suggest` — Reverse calculator (Prize + RTP → Parameters)\n"+
		"`/simulate` — Run 1000 Monte Carlo simulations\n`/compare` — Compare two lottery setups side-by-side", false)
	embeds.Field(commands, "📈 PLATFORM COMMANDS", "`/stats` — View live platform statistics\n`/leaderboard` — See top creators, winners & volume\n"+
		"`/preview` — Preview your lottery before launching", false)
	embeds.Field(commands, "🔔 ALERT COMMANDS", "`/alert` — Create custom lottery alerts (get DM'd!)\n`/myalerts` — View your active alerts\n"+
		"`/deletealert` — Remove an alert", false)

	examples := embeds.New("🎯 EXAMPLES", embeds.ColorBlue, "")
	embeds.Field(examples, "Calculate RTP", "`/rtp prize:5000 ticket:25 odds:250`", false)
	embeds.Field(examples, "Get Suggested Parameters", "`/suggest prize:5000 target_rtp:75`", false)
	embeds.Field(examples, "Simulate Outcomes", "`/simulate prize:5000 ticket:25 odds:250`", false)
	embeds.Field(examples, "Set an Alert", "`/alert min_prize:10000 max_ticket:25`", false)

	tiers := embeds.New("📈 RTP TIERS", embeds.ColorGreen, "💰 **$100 - $10K** → Minimum 70% RTP\n"+
		"💎 **$10K - $100K** → Minimum 60% RTP\n👑 **$100K+** → Minimum 50% RTP")
	embeds.Field(tiers, "🎮 Ready to play?", "**"+playURL+"**", false)
	embeds.Footer(tiers, "Questions? Open a ticket in #support!")

	return []*discordgo.MessageEmbed{commands, examples, tiers}
}
