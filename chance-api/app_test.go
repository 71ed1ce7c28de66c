package chance_api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const lotteriesJSON = `{
  "data": {
    "lotteries": [
      {
        "id": "0xabc0000000000000000000000000000000000001",
        "prizeProvider": "0xCREATOR0000000000000000000000000000000a",
        "prizeAmount": "5000000000",
        "ticketPrice": "25000000",
        "pickRange": "250",
        "maxTickets": null,
        "duration": "86400",
        "affiliatePercentage": "5",
        "ticketsSold": "12",
        "grossRevenue": "300000000",
        "status": "ACTIVE",
        "hasWinner": false,
        "winner": null,
        "createdAt": 1735689600
      }
    ]
  }
}`

func TestRecentLotteries_DecodesSubgraphAmounts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotQuery = body["query"]

		_, _ = io.WriteString(w, lotteriesJSON)
	}))
	defer srv.Close()

	api := InitChanceAPI(srv.Client(), srv.URL)
	lotteries, err := api.RecentLotteries(context.Background(), 20)
	require.NoError(t, err)
	require.Contains(t, gotQuery, "lotteries(first: 20, orderBy: createdAt, orderDirection: desc)")
	require.Contains(t, gotQuery, "pickRange")

	require.Len(t, lotteries, 1)
	l := lotteries[0]
	require.Equal(t, 5000.0, l.Prize())
	require.Equal(t, 25.0, l.Ticket())
	require.Equal(t, int64(250), l.Odds())
	require.Equal(t, 300.0, l.Revenue())
	require.Equal(t, int64(12), l.Tickets())
	require.Equal(t, 5.0, l.Affiliate())
	require.Equal(t, int64(86400), l.DurationSeconds())
	require.Zero(t, l.MaxTickets.Int())
	require.InDelta(t, 80, l.RTP(), 1e-9)
	require.True(t, l.Active())
	require.Equal(t, 2025, l.Created().Year())
	require.Equal(t, l.ID, l.Contract())
}

func TestRecentLotteries_ClampsPageSize(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["query"]
		_, _ = io.WriteString(w, `{"data":{"lotteries":[]}}`)
	}))
	defer srv.Close()

	_, err := InitChanceAPI(srv.Client(), srv.URL).AllLotteries(context.Background())
	require.NoError(t, err)
	require.Contains(t, gotQuery, "first: 1000")
}

func TestRecentLotteries_Errors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"non-200", http.StatusBadGateway, "upstream down", ErrAPIStatus},
		{"invalid json", http.StatusOK, "<html>", ErrInvalidJSON},
		{"graphql errors", http.StatusOK, `{"errors":[{"message":"Type Lottery has no field maxTickets"}]}`, ErrGraphQL},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = io.WriteString(w, c.body)
			}))
			defer srv.Close()

			_, err := InitChanceAPI(srv.Client(), srv.URL).RecentLotteries(context.Background(), 5)
			require.ErrorIs(t, err, c.wantErr)
		})
	}
}

func TestRecentLotteries_HonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := InitChanceAPI(srv.Client(), srv.URL).RecentLotteries(ctx, 5)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBigInt_Malformed(t *testing.T) {
	var l Lottery
	require.NoError(t, json.Unmarshal([]byte(`{"prizeAmount":"lots","ticketPrice":"","pickRange":null}`), &l))
	require.Zero(t, l.Prize())
	require.Zero(t, l.Ticket())
	require.Zero(t, l.Odds())
	require.Zero(t, l.RTP())
}

func TestPlayURL(t *testing.T) {
	require.Equal(t, "https://chance.fun/lottery/0xabc", PlayURL("https://chance.fun/", Lottery{ID: "0xabc"}))
	require.Equal(t, "https://chance.fun", PlayURL("https://chance.fun", Lottery{}))
}

func TestLottery_Active(t *testing.T) {
	require.True(t, Lottery{Status: "active"}.Active())
	require.False(t, Lottery{Status: "ACTIVE", HasWinner: true}.Active())
	require.False(t, Lottery{Status: "COMPLETED"}.Active())
	require.True(t, strings.EqualFold(Lottery{ContractAddress: "0xC"}.Key(), "0xc"))
}
