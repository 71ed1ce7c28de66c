package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics:
// - chancebot_lotteries_posted_total: lottery announcements by channel key
// - chancebot_alerts_sent_total: alert DMs by outcome (sent, forbidden, failed)
// - chancebot_commands_total: slash commands handled by name
// - chancebot_api_errors_total: Chance API failures by caller
// - chancebot_leaderboards_posted_total: leaderboard runs
// - http_requests_total / http_request_duration_seconds: health server traffic
var (
	LotteriesPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "chancebot_lotteries_posted_total", Help: "Lottery announcements posted, by channel key"},
		[]string{"channel"},
	)
	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "chancebot_alerts_sent_total", Help: "Alert DMs attempted, by outcome"},
		[]string{"outcome"},
	)
	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "chancebot_commands_total", Help: "Slash commands handled, by name"},
		[]string{"command"},
	)
	APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "chancebot_api_errors_total", Help: "Chance API failures, by caller"},
		[]string{"caller"},
	)
	LeaderboardsPosted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "chancebot_leaderboards_posted_total", Help: "Leaderboard posts completed"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by path, method and status"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(LotteriesPosted, AlertsSent, Commands, APIErrors, LeaderboardsPosted, HTTPRequests, HTTPLatency)
}

// Handler records request counts and latency for the health server.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(path, c.Request.Method, fmt.Sprintf("%d", c.Writer.Status())).Inc()
	}
}

// Exposer serves the Prometheus registry.
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
