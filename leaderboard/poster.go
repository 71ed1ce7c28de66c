package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/logging"
	"Chance_bot_v1/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

const (
	DefaultPostHour      = 12
	DefaultCheckInterval = 5 * time.Minute
)

var (
	ErrNoChannel = errors.New("leaderboard channel not configured")
	ErrNoData    = errors.New("could not fetch lottery data for leaderboards")
)

// Source lists every lottery the rankings are computed from.
type Source interface {
	AllLotteries(ctx context.Context) ([]chance_api.Lottery, error)
}

// ChannelSender is the part of *discordgo.Session used to post the boards.
type ChannelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Poster publishes the daily leaderboards once per UTC day at PostHour.
type Poster struct {
	Source    Source
	Session   ChannelSender
	ChannelID string
	PostHour  int
	Logger    *log.Logger

	// Pause is the delay between embeds. Zero means one second.
	Pause time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	mu       sync.Mutex
	lastPost string
	progress progress
}

// progress is how much of a day's scheduled post has gone out, so a retry
// does not repeat messages.
type progress struct {
	day    string
	header bool
	boards int
}

func (p *Poster) clock() time.Time {
	if p.now == nil {
		return time.Now().UTC()
	}
	return p.now().UTC()
}

func (p *Poster) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run checks every interval until ctx is cancelled.
func (p *Poster) Run(ctx context.Context, interval time.Duration) {
	logger := logging.OrDiscard(p.Logger)
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	logger.Info(fmt.Sprintf("🏆 Leaderboard poster started (posts daily at %d:00 UTC)", p.PostHour))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := p.CheckAndPost(ctx); err != nil {
			logger.Error("❌ Leaderboard poster error", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CheckAndPost posts when the current UTC hour is PostHour and nothing has been
// posted today. It reports whether a post was made.
func (p *Poster) CheckAndPost(ctx context.Context) (bool, error) {
	now := p.clock()
	today := now.Format(time.DateOnly)

	p.mu.Lock()
	due := p.lastPost != today && now.Hour() == p.PostHour
	p.mu.Unlock()
	if !due {
		return false, nil
	}

	logging.OrDiscard(p.Logger).Info("📊 Posting daily leaderboards...")
	if err := p.post(ctx, today); err != nil {
		return false, err
	}

	p.mu.Lock()
	p.lastPost = today
	p.mu.Unlock()
	return true, nil
}

// PostAll fetches lotteries and posts the header and all three boards.
func (p *Poster) PostAll(ctx context.Context) error {
	return p.post(ctx, "")
}

// post sends the header and boards. With a day set it resumes after whatever
// an earlier attempt that day already sent.
func (p *Poster) post(ctx context.Context, day string) error {
	if p.ChannelID == "" {
		return ErrNoChannel
	}
	lotteries, err := p.Source.AllLotteries(ctx)
	if err != nil {
		metrics.APIErrors.WithLabelValues("leaderboard").Inc()
		return fmt.Errorf("%w: %w", ErrNoData, err)
	}
	if len(lotteries) == 0 {
		return ErrNoData
	}

	var done progress
	if day != "" {
		p.mu.Lock()
		if p.progress.day == day {
			done = p.progress
		}
		p.mu.Unlock()
		done.day = day
		defer func() {
			p.mu.Lock()
			p.progress = done
			p.mu.Unlock()
		}()
	}

	if !done.header {
		if _, err := p.Session.ChannelMessageSend(p.ChannelID, Header(p.clock())); err != nil {
			return fmt.Errorf("post leaderboard header: %w", err)
		}
		done.header = true
	}

	pause := p.Pause
	if pause <= 0 {
		pause = time.Second
	}
	boards := Boards(lotteries)
	for i := done.boards; i < len(boards); i++ {
		if i > 0 {
			if err := p.wait(ctx, pause); err != nil {
				return err
			}
		}
		if _, err := p.Session.ChannelMessageSendEmbed(p.ChannelID, boards[i]); err != nil {
			return fmt.Errorf("post %q: %w", boards[i].Title, err)
		}
		done.boards = i + 1
	}

	metrics.LeaderboardsPosted.Inc()
	logging.OrDiscard(p.Logger).Info("✅ Daily leaderboards posted!")
	return nil
}
