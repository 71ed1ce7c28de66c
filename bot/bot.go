package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"Chance_bot_v1/alerts"
	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/config"
	"Chance_bot_v1/healthcheck"
	"Chance_bot_v1/leaderboard"
	"Chance_bot_v1/logging"
	"Chance_bot_v1/monitor"
	"Chance_bot_v1/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Bot owns the Discord session and the background workers that post into it.
type Bot struct {
	cfg    *config.AppConfig
	logger *log.Logger

	api      *chance_api.ChanceAPI
	db       *storage.DB
	alerts   *alerts.Manager
	handlers *Handlers
	monitor  *monitor.LotteryMonitor
	poster   *leaderboard.Poster
	health   *healthcheck.Server

	online    atomic.Bool
	startOnce sync.Once
	workers   sync.WaitGroup
}

// New wires the bot's components from configuration without touching the network.
func New(cfg *config.AppConfig, logger *log.Logger) (*Bot, error) {
	logger = logging.OrDiscard(logger)
	b := &Bot{
		cfg:    cfg,
		logger: logger,
		api:    chance_api.InitChanceAPI(nil, cfg.APIURL),
	}

	var store alerts.Store
	if cfg.DataPath != "" {
		db, err := storage.Open(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		b.db = db
		store = alerts.NewBoltStore(db)
		logger.Info("💾 Persisting alerts and posted lotteries", "path", cfg.DataPath)
	} else {
		logger.Warn("DATA_PATH not set, alerts reset on restart")
	}

	manager, err := alerts.NewManager(store)
	if err != nil {
		b.close()
		return nil, err
	}
	b.alerts = manager

	b.poster = &leaderboard.Poster{
		Source:    b.api,
		ChannelID: cfg.Channels[config.ChannelLeaderboard],
		PostHour:  cfg.LeaderboardHour,
		Logger:    logger.WithPrefix("leaderboard"),
	}
	b.health = &healthcheck.Server{
		Addr:   cfg.HealthAddr,
		Online: b.online.Load,
		Logger: logger.WithPrefix("health"),
	}
	return b, nil
}

// Start connects to Discord and runs until ctx is cancelled.
func Start(ctx context.Context, cfg *config.AppConfig, logger *log.Logger) error {
	b, err := New(cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()
	return b.Run(ctx)
}

func (b *Bot) Run(ctx context.Context) error {
	// 1. START HEALTH SERVER
	// The hosting platform probes it while the gateway connects.
	if b.cfg.HealthAddr != "" {
		if _, err := b.health.Start(ctx); err != nil {
			return fmt.Errorf("start health server: %w", err)
		}
		defer b.health.Shutdown(context.WithoutCancel(ctx))
	}

	// 2. CREATE DISCORD SESSION
	dg, err := discordgo.New("Bot " + b.cfg.Token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	b.handlers = &Handlers{
		Session:     dg,
		API:         b.api,
		Alerts:      b.alerts,
		Leaderboard: b.poster,
		PlayURL:     b.cfg.PlayURL,
		Logger:      b.logger.WithPrefix("commands"),
	}
	b.poster.Session = dg

	// 3. DEFINE INTENTS
	// Slash commands only need guild events; DMs are sent over REST.
	dg.Identify.Intents = discordgo.IntentsGuilds

	// 4. ADD EVENT HANDLERS
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) { b.ready(ctx, s, r) })
	dg.AddHandler(func(s *discordgo.Session, _ *discordgo.Connect) { b.online.Store(true) })
	dg.AddHandler(func(s *discordgo.Session, _ *discordgo.Disconnect) {
		b.online.Store(false)
		b.logger.Warn("Disconnected from Discord gateway")
	})
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handlers.Handle(ctx, i.Interaction)
	})

	// 5. OPEN WEBSOCKET CONNECTION
	if err := dg.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer dg.Close()

	// 6. WAIT FOR SHUTDOWN
	b.logger.Info("Bot is now running. Press CTRL-C to exit.")
	<-ctx.Done()
	b.logger.Info("Shutting down bot...")
	b.workers.Wait()
	return nil
}

// ready is called when the bot has successfully connected to Discord.
func (b *Bot) ready(ctx context.Context, s *discordgo.Session, r *discordgo.Ready) {
	b.online.Store(true)
	b.logger.Info(fmt.Sprintf("%s has connected to Discord!", r.User.Username), "guilds", len(r.Guilds))

	s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: "new lotteries",
				Type: discordgo.ActivityTypeWatching,
			},
		},
		Status: "online",
	})

	synced, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.cfg.GuildID, Commands())
	if err != nil {
		b.logger.Error("Failed to sync commands", "err", err)
	} else {
		b.logger.Info(fmt.Sprintf("Synced %d command(s)", len(synced)))
	}

	// Ready fires again after a resume-less reconnect; workers start once.
	b.startOnce.Do(func() { b.startWorkers(ctx, s) })
}

func (b *Bot) startWorkers(ctx context.Context, s *discordgo.Session) {
	if b.cfg.Channels.MonitorReady() {
		notifier := &alerts.Notifier{Manager: b.alerts, Session: s, Logger: b.logger.WithPrefix("alerts")}
		b.monitor = &monitor.LotteryMonitor{
			Source:   b.api,
			Session:  s,
			Channels: b.cfg.Channels.LotteryChannels(),
			PlayURL:  b.cfg.PlayURL,
			Logger:   b.logger.WithPrefix("monitor"),
			OnPosted: func(l chance_api.Lottery, url string) { notifier.Notify(l, url) },
		}
		if b.db != nil {
			b.monitor.Store = b.db
		}
		if err := b.monitor.Load(); err != nil {
			b.logger.Error("could not restore posted lotteries", "err", err)
		}
		b.workers.Add(1)
		go func() {
			defer b.workers.Done()
			b.monitor.Run(ctx, b.cfg.MonitorInterval)
		}()
		b.logger.Info("✅ Lottery monitor enabled")
		b.logger.Info("✅ Alert notifications enabled")
	} else {
		b.logger.Warn("⚠️ Lottery monitor disabled - configure channel IDs in .env")
	}

	if b.poster.ChannelID != "" {
		b.workers.Add(1)
		go func() {
			defer b.workers.Done()
			b.poster.Run(ctx, b.cfg.LeaderboardCheckInterval)
		}()
		b.logger.Info(fmt.Sprintf("✅ Leaderboard auto-poster enabled (daily at %d:00 UTC)", b.poster.PostHour))
	} else {
		b.logger.Warn("⚠️ Leaderboard poster disabled - set CHANNEL_LEADERBOARD in .env")
	}
}

func (b *Bot) close() {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			b.logger.Error("could not close data file", "err", err)
		}
		b.db = nil
	}
}
