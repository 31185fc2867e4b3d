// Package server exposes the dashboard over HTTP, gRPC and grpc-web for the
// daemon.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/clawd-ops/missioncontrol/internal/daemon/tray"
	"github.com/clawd-ops/missioncontrol/internal/daemon/watcher"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
)

// Options configures the listeners.
type Options struct {
	Host     string
	HTTPPort int // 0 picks a free port
	GRPCPort int // 0 picks a free port
	// RefreshPerMinute bounds remote manual refreshes; 0 means unlimited.
	RefreshPerMinute int
}

// Server is the daemon's network front end over a dashboard.Store.
type Server struct {
	store   *dashboard.Store
	hub     *hub
	limiter *rate.Limiter

	grpcServer   *grpc.Server
	grpcListener net.Listener
	grpcPort     int

	httpServer   *http.Server
	httpListener net.Listener
	httpPort     int
}

// New creates a server and binds both listeners.
func New(store *dashboard.Store, opts Options) (*Server, error) {
	lc := &net.ListenConfig{}
	grpcListener, err := lc.Listen(context.TODO(), "tcp", net.JoinHostPort(opts.Host, fmt.Sprint(opts.GRPCPort)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	httpListener, err := lc.Listen(context.TODO(), "tcp", net.JoinHostPort(opts.Host, fmt.Sprint(opts.HTTPPort)))
	if err != nil {
		_ = grpcListener.Close()
		return nil, fmt.Errorf("failed to listen for HTTP: %w", err)
	}

	srv := &Server{
		store:        store,
		hub:          newHub(),
		limiter:      newRefreshLimiter(opts.RefreshPerMinute),
		grpcServer:   grpc.NewServer(),
		grpcListener: grpcListener,
		grpcPort:     grpcListener.Addr().(*net.TCPAddr).Port,
		httpListener: httpListener,
		httpPort:     httpListener.Addr().(*net.TCPAddr).Port,
	}

	RegisterDashboardServer(srv.grpcServer, &dashboardService{server: srv})

	srv.httpServer = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.StdErrorLogger(),
	}
	return srv, nil
}

func newRefreshLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// Handler returns the HTTP handler. grpc-web requests are bridged to the
// gRPC server; everything else goes to the JSON API.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), log.GinLogger(), s.grpcWeb())
	s.registerRoutes(engine)
	return engine
}

// localOriginPatterns are the browser origins allowed on the websocket feed.
var localOriginPatterns = []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*"}

// localOrigin reports whether a browser origin names this machine on any
// port. The grpc-web bridge uses it so both browser surfaces share one rule.
func localOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return true
	}
	return false
}

func (s *Server) grpcWeb() gin.HandlerFunc {
	wrapped := grpcweb.WrapServer(s.grpcServer, grpcweb.WithOriginFunc(localOrigin))
	return func(c *gin.Context) {
		if wrapped.IsGrpcWebRequest(c.Request) || wrapped.IsAcceptableGrpcCorsRequest(c.Request) {
			wrapped.ServeHTTP(c.Writer, c.Request)
			c.Abort()
			return
		}
		c.Next()
	}
}

// HTTPPort returns the port the HTTP API is listening on.
func (s *Server) HTTPPort() int {
	return s.httpPort
}

// GRPCPort returns the port the gRPC service is listening on.
func (s *Server) GRPCPort() int {
	return s.grpcPort
}

// Store returns the dashboard the server reads from.
func (s *Server) Store() *dashboard.Store {
	return s.store
}

// Serve serves both listeners until Stop is called or one of them fails.
func (s *Server) Serve() error {
	errs := make(chan error, 2)
	go func() {
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errs <- fmt.Errorf("gRPC server: %w", err)
			return
		}
		errs <- nil
	}()
	go func() {
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errs <- nil
	}()

	log.Info().Int("http_port", s.httpPort).Int("grpc_port", s.grpcPort).Msg("serving dashboard")
	if err := <-errs; err != nil {
		s.Stop()
		return err
	}
	return <-errs
}

// Stop gracefully stops both servers.
func (s *Server) Stop() {
	s.hub.close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown")
	}
	s.grpcServer.GracefulStop()
}

// Notify handles a state file change: cached reads are dropped and
// websocket subscribers are told which file moved.
func (s *Server) Notify(ev watcher.Event) {
	s.store.Refresh()
	s.hub.publish(notice{Type: ev.Type.String(), SessionKey: ev.SessionKey, At: time.Now().UTC()})
}

// refresh performs a rate-limited manual refresh.
func (s *Server) refresh() bool {
	if !s.limiter.Allow() {
		return false
	}
	s.store.Refresh()
	s.hub.publish(notice{Type: "refresh", At: time.Now().UTC()})
	return true
}

// TrayState adapts a Server to the tray.DashboardState interface.
type TrayState struct {
	srv *Server
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server) *TrayState {
	return &TrayState{srv: srv}
}

// HTTPPort returns the port the HTTP API is listening on.
func (t *TrayState) HTTPPort() int {
	return t.srv.HTTPPort()
}

// Summary returns the agent's headline numbers.
func (t *TrayState) Summary() tray.Summary {
	o := t.srv.store.Overview()
	return tray.Summary{
		Online:           o.Status.Online,
		ActiveSessions:   o.ActiveSessions,
		RunningSubagents: o.RunningSubagents,
		LastActivity:     dashboard.TimeAgo(o.Status.LastActivity, o.GeneratedAt),
	}
}

// RunningTasks describes the in-flight sub-agent tasks.
func (t *TrayState) RunningTasks() []tray.TaskInfo {
	view := t.srv.store.Subagents()
	tasks := make([]tray.TaskInfo, 0, len(view.Running))
	for _, ev := range view.Running {
		tasks = append(tasks, tray.TaskInfo{SessionKey: ev.SessionKey, Task: ev.Task})
	}
	return tasks
}

// Refresh drops cached reads.
func (t *TrayState) Refresh() {
	t.srv.store.Refresh()
}

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (t *TrayState) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}
