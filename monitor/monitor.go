package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/config"
	"Chance_bot_v1/logging"
	"Chance_bot_v1/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// DefaultInterval is how often the subgraph is polled.
const DefaultInterval = 30 * time.Second

// recentBatch is how many of the newest lotteries each poll looks at.
const recentBatch = 20

// Source lists the newest lotteries, newest first.
type Source interface {
	RecentLotteries(ctx context.Context, n int) ([]chance_api.Lottery, error)
}

// ChannelSender is the part of *discordgo.Session used to post embeds.
type ChannelSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// PostedFunc is called once a lottery has been announced.
type PostedFunc func(l chance_api.Lottery, playURL string)

// LotteryMonitor polls for new lotteries and announces each one exactly once.
type LotteryMonitor struct {
	Source   Source
	Session  ChannelSender
	Channels config.ChannelIDs
	PlayURL  string
	Logger   *log.Logger

	// Store keeps posted ids across restarts. Optional.
	Store PostedStore
	// OnPosted is typically the alert notifier. Optional.
	OnPosted PostedFunc

	now func() time.Time

	mu   sync.Mutex
	seen *seenSet
}

// Load restores posted ids from Store. It is a no-op without a store.
func (m *LotteryMonitor) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	if m.Store == nil {
		return nil
	}
	ids, err := m.Store.Posted()
	if err != nil {
		return fmt.Errorf("monitor: load posted ids: %w", err)
	}
	for _, id := range ids {
		m.seen.Add(id)
	}
	return nil
}

func (m *LotteryMonitor) init() {
	if m.seen == nil {
		m.seen = newSeenSet(maxSeen, keepSeen)
	}
	if m.now == nil {
		m.now = time.Now
	}
}

// Run polls every interval until ctx is cancelled. Errors are logged and the
// loop carries on.
func (m *LotteryMonitor) Run(ctx context.Context, interval time.Duration) {
	logger := logging.OrDiscard(m.Logger)
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger.Info("🔍 Lottery monitor started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := m.Check(ctx); err != nil {
			logger.Error("❌ Error checking lotteries", "err", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("🛑 Lottery monitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// Check runs one poll and returns how many lotteries were announced.
func (m *LotteryMonitor) Check(ctx context.Context) (int, error) {
	lotteries, err := m.Source.RecentLotteries(ctx, recentBatch)
	if err != nil {
		metrics.APIErrors.WithLabelValues("monitor").Inc()
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()

	posted := 0
	// Oldest first so channels read chronologically.
	for i := len(lotteries) - 1; i >= 0; i-- {
		l := lotteries[i]
		id := l.Key()
		if id == "" || m.seen.Has(id) {
			continue
		}

		m.post(l)
		posted++
		m.remember(id)
	}
	return posted, nil
}

func (m *LotteryMonitor) remember(id string) {
	logger := logging.OrDiscard(m.Logger)
	trimmed := m.seen.Add(id)
	if m.Store == nil {
		return
	}
	if err := m.Store.AppendPosted(id); err != nil {
		logger.Warn("could not persist posted lottery", "lottery", id, "err", err)
	}
	if trimmed {
		if err := m.Store.TrimPosted(m.seen.keep); err != nil {
			logger.Warn("could not trim posted lotteries", "err", err)
		}
	}
}

func (m *LotteryMonitor) post(l chance_api.Lottery) {
	logger := logging.OrDiscard(m.Logger)
	url := chance_api.PlayURL(m.PlayURL, l)
	embed := LotteryEmbed(l, url, m.now())

	for _, key := range Route(l) {
		channelID := m.Channels[key]
		if channelID == "" {
			continue
		}
		if _, err := m.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
			logger.Error("❌ Error posting lottery", "lottery", l.Key(), "channel", key, "err", err)
			continue
		}
		metrics.LotteriesPosted.WithLabelValues(key).Inc()
		logger.Info("✅ Posted lottery", "lottery", l.Key(), "channel", key)
	}

	if m.OnPosted != nil {
		m.OnPosted(l, url)
	}
}

// Route lists the channel keys a lottery belongs in.
func Route(l chance_api.Lottery) []string {
	prize, ticket := l.Prize(), l.Ticket()
	keys := []string{config.ChannelNewLotteries}
	if prize >= 10_000 {
		keys = append(keys, config.ChannelHighValue)
	}
	if ticket < 10 {
		keys = append(keys, config.ChannelBudgetPlays)
	}
	if prize >= 50_000 {
		keys = append(keys, config.ChannelMoonshots)
	}
	return keys
}
