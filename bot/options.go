package bot

import (
	"math"

	"github.com/bwmarrin/discordgo"
)

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(list []*discordgo.ApplicationCommandInteractionDataOption) options {
	o := make(options, len(list))
	for _, opt := range list {
		o[opt.Name] = opt
	}
	return o
}

// float reads a number option. Discord sends numbers as JSON, so both integer
// and number options decode to float64.
func (o options) float(name string, def float64) float64 {
	opt, ok := o[name]
	if !ok || opt == nil {
		return def
	}
	switch v := opt.Value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return def
	}
}

func (o options) int(name string, def int64) int64 {
	v := o.float(name, math.NaN())
	if math.IsNaN(v) {
		return def
	}
	return int64(v)
}
