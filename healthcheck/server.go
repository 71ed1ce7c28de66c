package healthcheck

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"Chance_bot_v1/logging"
	"Chance_bot_v1/metrics"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// StatusFunc reports whether the Discord gateway connection is up.
type StatusFunc func() bool

// Server keeps the hosting platform's health probe satisfied while the bot runs.
type Server struct {
	Addr   string
	Online StatusFunc
	Logger *log.Logger

	srv *http.Server
	ln  net.Listener
}

// Router builds the gin engine. It is separate from Start so tests can drive it
// with httptest.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), metrics.Handler())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Chance Discord Bot is running! ✅")
	})
	router.GET("/health", s.health)
	router.GET("/metrics", metrics.Exposer())
	return router
}

func (s *Server) health(c *gin.Context) {
	bot := "online"
	if s.Online != nil && !s.Online() {
		bot = "offline"
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "bot": bot})
}

// Start listens on Addr in the background. The returned channel yields the
// serve error, if any, and is closed when the server stops.
func (s *Server) Start(ctx context.Context) (<-chan error, error) {
	logger := logging.OrDiscard(s.Logger)

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return nil, err
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		logger.Info("🩺 Health check server starting", "address", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "err", err)
			errc <- err
		}
	}()
	return errc, nil
}

// ListenAddr is the bound address once Start has succeeded.
func (s *Server) ListenAddr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops the server, waiting up to five seconds for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	logging.OrDiscard(s.Logger).Info("🩺 Shutting down health check server...")
	return s.srv.Shutdown(ctx)
}
