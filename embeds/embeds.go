package embeds

import (
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colours, matching Discord's default palette.
const (
	ColorGreen  = 0x2ECC71
	ColorBlue   = 0x3498DB
	ColorOrange = 0xE67E22
	ColorRed    = 0xE74C3C
	ColorGold   = 0xF1C40F
	ColorPurple = 0x9B59B6
)

// Medals label leaderboard positions one to ten.
var Medals = []string{"🥇", "🥈", "🥉", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// New starts an embed with a title, colour and optional description.
func New(title string, color int, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       color,
		Description: description,
	}
}

// Field appends a field and returns the embed for chaining.
func Field(e *discordgo.MessageEmbed, name, value string, inline bool) *discordgo.MessageEmbed {
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
	return e
}

func Footer(e *discordgo.MessageEmbed, text string) *discordgo.MessageEmbed {
	e.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return e
}

func Timestamp(e *discordgo.MessageEmbed, t time.Time) *discordgo.MessageEmbed {
	e.Timestamp = t.UTC().Format(time.RFC3339)
	return e
}

// Copy returns a deep enough copy to change the footer or fields independently.
func Copy(e *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	c := *e
	c.Fields = make([]*discordgo.MessageEmbedField, len(e.Fields))
	for i, f := range e.Fields {
		fc := *f
		c.Fields[i] = &fc
	}
	if e.Footer != nil {
		fc := *e.Footer
		c.Footer = &fc
	}
	return &c
}

// Medal returns the position label for a zero-based rank.
func Medal(i int) string {
	if i < len(Medals) {
		return Medals[i]
	}
	return strconv.Itoa(i+1) + "."
}
