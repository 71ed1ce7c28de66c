package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	chance_api "Chance_bot_v1/chance-api"
	"Chance_bot_v1/config"
	"Chance_bot_v1/embeds"
	"Chance_bot_v1/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func usdc(v float64) chance_api.BigInt {
	return chance_api.BigInt(strconv.FormatInt(int64(v*1_000_000), 10))
}

func mkLottery(id string, prize, ticket float64, odds int64) chance_api.Lottery {
	return chance_api.Lottery{
		ID:          id,
		PrizeAmount: usdc(prize),
		TicketPrice: usdc(ticket),
		PickRange:   chance_api.BigInt(strconv.FormatInt(odds, 10)),
	}
}

type fakeSource struct {
	batches [][]chance_api.Lottery
	err     error
	calls   int
}

func (f *fakeSource) RecentLotteries(_ context.Context, _ int) ([]chance_api.Lottery, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	b := f.batches[0]
	if len(f.batches) > 1 {
		f.batches = f.batches[1:]
	}
	return b, nil
}

type post struct {
	Channel string
	Title   string
}

type fakeSender struct {
	posts []post
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, e *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.posts = append(f.posts, post{Channel: channelID, Title: e.Title})
	return &discordgo.Message{}, nil
}

var allChannels = config.ChannelIDs{
	config.ChannelNewLotteries: "c-new",
	config.ChannelHighValue:    "c-high",
	config.ChannelBudgetPlays:  "c-budget",
	config.ChannelMoonshots:    "c-moon",
}

func TestRoute(t *testing.T) {
	cases := []struct {
		name          string
		prize, ticket float64
		want          []string
	}{
		{"small cheap", 500, 5, []string{"new_lotteries", "budget_plays"}},
		{"small pricey", 500, 10, []string{"new_lotteries"}},
		{"high value", 10_000, 25, []string{"new_lotteries", "high_value"}},
		{"moonshot budget", 50_000, 2, []string{"new_lotteries", "high_value", "budget_plays", "moonshots"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Route(mkLottery("x", tc.prize, tc.ticket, 100))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Route mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheck_PostsEachLotteryOnce(t *testing.T) {
	src := &fakeSource{batches: [][]chance_api.Lottery{
		{mkLottery("b", 20_000, 25, 400), mkLottery("a", 500, 5, 100)},
		{mkLottery("c", 1_000, 50, 25), mkLottery("b", 20_000, 25, 400), mkLottery("a", 500, 5, 100)},
	}}
	sender := &fakeSender{}
	var notified []string
	m := &LotteryMonitor{
		Source:   src,
		Session:  sender,
		Channels: allChannels,
		PlayURL:  "https://chance.fun",
		OnPosted: func(l chance_api.Lottery, url string) { notified = append(notified, url) },
	}

	n, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = m.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	want := []post{
		{"c-new", "🎰 NEW LOTTERY LIVE"},
		{"c-budget", "🎰 NEW LOTTERY LIVE"},
		{"c-new", "🎰 NEW LOTTERY LIVE"},
		{"c-high", "🎰 NEW LOTTERY LIVE"},
		{"c-new", "🎰 NEW LOTTERY LIVE"},
	}
	if diff := cmp.Diff(want, sender.posts); diff != "" {
		t.Fatalf("posts mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{
		"https://chance.fun/lottery/a",
		"https://chance.fun/lottery/b",
		"https://chance.fun/lottery/c",
	}, notified)
}

func TestCheck_SkipsUnsetChannels(t *testing.T) {
	src := &fakeSource{batches: [][]chance_api.Lottery{{mkLottery("a", 60_000, 1, 1000)}}}
	sender := &fakeSender{}
	m := &LotteryMonitor{
		Source:   src,
		Session:  sender,
		Channels: config.ChannelIDs{config.ChannelNewLotteries: "c-new", config.ChannelMoonshots: ""},
	}
	_, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.posts, 1)
}

func TestCheck_SourceError(t *testing.T) {
	m := &LotteryMonitor{Source: &fakeSource{err: errors.New("down")}, Session: &fakeSender{}}
	_, err := m.Check(context.Background())
	require.Error(t, err)
}

func TestSeenSet_TrimKeepsNewest(t *testing.T) {
	s := newSeenSet(10, 5)
	for i := 0; i < 10; i++ {
		require.False(t, s.Add(strconv.Itoa(i)))
	}
	require.True(t, s.Add("10"))
	require.Equal(t, 5, s.Len())
	require.False(t, s.Has("5"))
	for _, id := range []string{"6", "7", "8", "9", "10"} {
		require.True(t, s.Has(id), id)
	}
	require.False(t, s.Add("10"))
}

func TestCheck_TrimsPersistedIDs(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Newest first, as the subgraph returns them.
	batch := [][]chance_api.Lottery{{
		mkLottery("d", 500, 20, 10),
		mkLottery("c", 500, 20, 10),
		mkLottery("b", 500, 20, 10),
		mkLottery("a", 500, 20, 10),
	}}
	m := &LotteryMonitor{Source: &fakeSource{batches: batch}, Session: &fakeSender{}, Channels: allChannels, Store: db, seen: newSeenSet(3, 2)}

	n, err := m.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 2, m.seen.Len())

	ids, err := db.Posted()
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, ids)
}

func TestLoad_RestoresPostedIDs(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	batch := [][]chance_api.Lottery{{mkLottery("a", 500, 20, 10)}}
	first := &LotteryMonitor{Source: &fakeSource{batches: batch}, Session: &fakeSender{}, Channels: allChannels, Store: db}
	require.NoError(t, first.Load())
	n, err := first.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	sender := &fakeSender{}
	second := &LotteryMonitor{Source: &fakeSource{batches: batch}, Session: sender, Channels: allChannels, Store: db}
	require.NoError(t, second.Load())
	n, err = second.Check(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, sender.posts)
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := &fakeSource{}
	m := &LotteryMonitor{Source: src, Session: &fakeSender{}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLotteryEmbed(t *testing.T) {
	l := mkLottery("0x1234567890abcdef1234567890abcdef12345678", 5_000, 25, 250)
	l.Duration = "172800"
	l.MaxTickets = "1000"
	l.AffiliatePercentage = "5"
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	e := LotteryEmbed(l, "https://chance.fun/lottery/x", now)
	require.Equal(t, "🎰 NEW LOTTERY LIVE", e.Title)
	require.Equal(t, embeds.ColorBlue, e.Color) // RTP 80%
	require.Equal(t, "https://chance.fun/lottery/x", e.URL)
	require.Equal(t, "2025-01-02T03:04:05Z", e.Timestamp)

	values := map[string]string{}
	for _, f := range e.Fields {
		values[f.Name] = f.Value
	}
	require.Equal(t, "**$5,000.00** USDC", values["💰 Prize"])
	require.Equal(t, "**$25.00** USDC", values["🎫 Ticket Price"])
	require.Equal(t, "**1 in 250**", values["📊 Odds"])
	require.Equal(t, "**80.00%** ✅", values["📈 RTP"])
	require.Equal(t, "**2 days**", values["⏰ Duration"])
	require.Equal(t, "**1,000**", values["🎟️ Max Tickets"])
	require.Equal(t, "**5%**", values["💸 Affiliate Rewards"])
	require.Equal(t, "✅ Competitive RTP. Good value.", values["💡 Market Position"])
	require.Equal(t, "Contract: 0x123456...345678", e.Footer.Text)
}

func TestLotteryEmbed_Failing(t *testing.T) {
	e := LotteryEmbed(mkLottery("a", 5_000, 100, 100), "u", time.Now())
	require.Equal(t, embeds.ColorRed, e.Color)
	for _, f := range e.Fields {
		if f.Name == "⏰ Duration" {
			require.Equal(t, "**Unlimited**", f.Value)
		}
		if f.Name == "💡 Market Position" {
			require.Equal(t, "❌ Below 70% minimum for this tier.", f.Value)
		}
	}
}

func TestDurationText(t *testing.T) {
	require.Equal(t, "Unlimited", durationText(0))
	require.Equal(t, "5 hours", durationText(5*3600+59))
	require.Equal(t, "1 days", durationText(24*3600))
}
