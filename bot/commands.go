package bot

import "github.com/bwmarrin/discordgo"

var adminPermission int64 = discordgo.PermissionAdministrator

func float64Ptr(v float64) *float64 { return &v }

func number(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func integer(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    float64Ptr(1),
	}
}

func affiliateOption() *discordgo.ApplicationCommandOption {
	o := number("affiliate", "Affiliate percentage (0-20, default 0)", false)
	o.MinValue = float64Ptr(0)
	o.MaxValue = 20
	return o
}

const (
	prizeHelp  = "Prize amount in USDC (e.g., 5000)"
	ticketHelp = "Ticket price in USDC (e.g., 25)"
	oddsHelp   = "Odds as pick range - 1 in X (e.g., 250 for 1-in-250 odds)"
)

// Commands lists every slash command the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "rtp",
			Description: "Calculate RTP for a lottery and check if it meets tier minimums",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize", prizeHelp, true),
				number("ticket", ticketHelp, true),
				integer("odds", oddsHelp, true),
			},
		},
		{
			Name:        "breakeven",
			Description: "Calculate break-even and profit scenarios for a lottery",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize", prizeHelp, true),
				number("ticket", ticketHelp, true),
				integer("odds", oddsHelp, true),
				affiliateOption(),
			},
		},
		{
			Name:        "optimize",
			Description: "Get optimized lottery parameters for your prize",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize", prizeHelp, true),
				affiliateOption(),
			},
		},
		{
			Name:        "suggest",
			Description: "Get 3 optimized setups for your prize and target RTP",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize", prizeHelp, true),
				number("target_rtp", "Target RTP percentage for players (e.g., 75)", true),
				affiliateOption(),
			},
		},
		{
			Name:        "simulate",
			Description: "Run 1000 Monte Carlo simulations of a lottery",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize", prizeHelp, true),
				number("ticket", ticketHelp, true),
				integer("odds", oddsHelp, true),
				affiliateOption(),
				integer("max_tickets", "Stop selling after this many tickets (default unlimited)", false),
			},
		},
		{
			Name:        "compare",
			Description: "Compare two lottery setups side-by-side",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize_a", "Setup A prize in USDC", true),
				number("ticket_a", "Setup A ticket price in USDC", true),
				integer("odds_a", "Setup A odds (1 in X)", true),
				number("prize_b", "Setup B prize in USDC", true),
				number("ticket_b", "Setup B ticket price in USDC", true),
				integer("odds_b", "Setup B odds (1 in X)", true),
				affiliateOption(),
			},
		},
		{
			Name:        "stats",
			Description: "View live Chance platform statistics",
		},
		{
			Name:        "leaderboard",
			Description: "See top creators, winners and volume",
		},
		{
			Name:        "preview",
			Description: "Preview how your lottery will be announced",
			Options: []*discordgo.ApplicationCommandOption{
				number("prize", prizeHelp, true),
				number("ticket", ticketHelp, true),
				integer("odds", oddsHelp, true),
				integer("duration_hours", "Duration in hours (default unlimited)", false),
				integer("max_tickets", "Maximum tickets (default unlimited)", false),
				affiliateOption(),
			},
		},
		{
			Name:        "alert",
			Description: "Get a DM when a new lottery matches your criteria",
			Options: []*discordgo.ApplicationCommandOption{
				number("min_prize", "Minimum prize in USDC", false),
				number("max_prize", "Maximum prize in USDC", false),
				number("max_ticket", "Maximum ticket price in USDC", false),
				number("min_rtp", "Minimum RTP percentage", false),
			},
		},
		{
			Name:        "myalerts",
			Description: "View your active alerts",
		},
		{
			Name:        "deletealert",
			Description: "Remove one of your alerts",
			Options: []*discordgo.ApplicationCommandOption{
				integer("alert_id", "Alert number from /myalerts", true),
			},
		},
		{
			Name:                     "forceleaderboard",
			Description:              "[ADMIN] Force post leaderboards now",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:                     "posthelp",
			Description:              "[ADMIN] Post all bot commands to this channel",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:        "help",
			Description: "Learn how to use the Chance RTP Calculator",
		},
	}
}
