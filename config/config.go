package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the Goldsky subgraph the Chance platform indexes lotteries into.
const DefaultAPIURL = "https://api.goldsky.com/api/public/project_cmjboofbdidyj01x8bi8t0xia/subgraphs/chance-lottery-testnet/2.0.0/gn"

const DefaultPlayURL = "https://chance.fun"

// Channel keys used for routing posts.
const (
	ChannelNewLotteries = "new_lotteries"
	ChannelHighValue    = "high_value"
	ChannelBudgetPlays  = "budget_plays"
	ChannelMoonshots    = "moonshots"
	ChannelLeaderboard  = "leaderboard"
)

// ChannelIDs maps a channel key to a Discord channel snowflake.
// A missing key or empty value means the channel is not configured.
type ChannelIDs map[string]string

// LotteryChannels returns the channels the lottery monitor posts into.
func (c ChannelIDs) LotteryChannels() ChannelIDs {
	out := ChannelIDs{}
	for k, v := range c {
		if k != ChannelLeaderboard {
			out[k] = v
		}
	}
	return out
}

// MonitorReady reports whether every lottery channel is set.
func (c ChannelIDs) MonitorReady() bool {
	for _, key := range []string{ChannelNewLotteries, ChannelHighValue, ChannelBudgetPlays, ChannelMoonshots} {
		if c[key] == "" {
			return false
		}
	}
	return true
}

type AppConfig struct {
	Token   string
	GuildID string

	APIURL  string
	PlayURL string

	Channels ChannelIDs

	LeaderboardHour          int
	MonitorInterval          time.Duration
	LeaderboardCheckInterval time.Duration

	HealthAddr string
	DataPath   string
	LogLevel   string

	// EnvFileLoaded is false when no .env file was found; process env still applies.
	EnvFileLoaded bool
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig(files ...string) (*AppConfig, error) {
	loaded := godotenv.Load(files...) == nil
	cfg, err := FromEnv(os.Getenv)
	if cfg != nil {
		cfg.EnvFileLoaded = loaded
	}
	return cfg, err
}

// FromEnv builds the configuration from a lookup function. Invalid values are
// collected and returned together.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	var problems []string

	cfg := &AppConfig{
		Token:      strings.TrimSpace(getenv("DISCORD_BOT_TOKEN")),
		GuildID:    strings.TrimSpace(getenv("DISCORD_GUILD_ID")),
		APIURL:     withDefault(getenv("CHANCE_API_URL"), DefaultAPIURL),
		PlayURL:    strings.TrimRight(withDefault(getenv("CHANCE_PLAY_URL"), DefaultPlayURL), "/"),
		HealthAddr: withDefault(getenv("HEALTH_ADDR"), ":8080"),
		DataPath:   strings.TrimSpace(getenv("DATA_PATH")),
		LogLevel:   strings.ToLower(withDefault(getenv("LOG_LEVEL"), "info")),
		Channels: ChannelIDs{
			ChannelNewLotteries: channelID(getenv("CHANNEL_NEW_LOTTERIES")),
			ChannelHighValue:    channelID(getenv("CHANNEL_HIGH_VALUE")),
			ChannelBudgetPlays:  channelID(getenv("CHANNEL_BUDGET_PLAYS")),
			ChannelMoonshots:    channelID(getenv("CHANNEL_MOONSHOTS")),
			ChannelLeaderboard:  channelID(getenv("CHANNEL_LEADERBOARD")),
		},
		LeaderboardHour:          12,
		MonitorInterval:          30 * time.Second,
		LeaderboardCheckInterval: 5 * time.Minute,
	}

	for key, id := range cfg.Channels {
		if id == "" {
			continue
		}
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			problems = append(problems, fmt.Sprintf("channel %s: %q is not a snowflake", key, id))
		}
	}

	if v := strings.TrimSpace(getenv("LEADERBOARD_POST_HOUR")); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			problems = append(problems, fmt.Sprintf("LEADERBOARD_POST_HOUR: %q must be 0-23", v))
		} else {
			cfg.LeaderboardHour = h
		}
	}

	if d, err := duration(getenv("MONITOR_INTERVAL"), cfg.MonitorInterval); err != nil {
		problems = append(problems, fmt.Sprintf("MONITOR_INTERVAL: %v", err))
	} else {
		cfg.MonitorInterval = d
	}

	if d, err := duration(getenv("LEADERBOARD_CHECK_INTERVAL"), cfg.LeaderboardCheckInterval); err != nil {
		problems = append(problems, fmt.Sprintf("LEADERBOARD_CHECK_INTERVAL: %v", err))
	} else {
		cfg.LeaderboardCheckInterval = d
	}

	if len(problems) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// Validate checks the settings the bot cannot start without.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if c.APIURL == "" {
		missing = append(missing, "CHANCE_API_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func withDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// channelID treats "" and "0" as unset, matching the .env template defaults.
func channelID(v string) string {
	v = strings.TrimSpace(v)
	if v == "0" {
		return ""
	}
	return v
}

// duration accepts Go durations ("45s") or a bare number of seconds ("30").
func duration(v string, def time.Duration) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%q must be positive", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a duration", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", v)
	}
	return d, nil
}
