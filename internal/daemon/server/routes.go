package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clawd-ops/missioncontrol/internal/buildinfo"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/overview", s.handleOverview)
	api.GET("/status", s.handleStatus)
	api.GET("/sessions", s.handleSessions)
	api.GET("/sessions/:key/history", s.handleHistory)
	api.GET("/subagents", s.handleSubagents)
	api.GET("/activity", s.handleActivity)
	api.GET("/cron", s.handleCron)
	api.GET("/deliverables", s.handleDeliverables)
	api.POST("/refresh", s.handleRefresh)
	api.GET("/events", s.handleEvents)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(log.RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	stats := s.store.CacheStats()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"build":  buildinfo.Get(),
		"roots":  s.store.Roots(),
		"cache": gin.H{
			"hits":    stats.Hits,
			"misses":  stats.Misses,
			"loads":   stats.Loads,
			"entries": stats.Entries,
		},
	})
}

func (s *Server) handleOverview(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Overview())
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Status())
}

func (s *Server) handleSessions(c *gin.Context) {
	sessions := s.store.Sessions()
	if kind := c.Query("kind"); kind != "" {
		sessions = dashboard.FilterSessionsByKind(sessions, models.SessionKind(kind))
	} else if filter := c.Query("filter"); filter != "" {
		sessions = dashboard.FilterSessions(sessions, filter)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleHistory(c *gin.Context) {
	key := c.Param("key")
	if _, ok := dashboard.HistoryFileName(key); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "messages": s.store.History(key)})
}

func (s *Server) handleSubagents(c *gin.Context) {
	view := s.store.Subagents()
	recent, ok := intQuery(c, "recent", 0)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"running_keys": view.RunningKeys,
		"running":      view.Running,
		"completed":    dashboard.Recent(view.Completed, recent),
	})
}

func (s *Server) handleActivity(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	category := c.DefaultQuery("category", dashboard.FilterAll)
	events := dashboard.FilterActivity(s.store.Activity(), category)
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"events":   dashboard.Recent(events, limit),
	})
}

func (s *Server) handleCron(c *gin.Context) {
	jobs := dashboard.SortCronJobs(dashboard.WithNextRuns(s.store.CronJobs(), s.store.Now()))
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (s *Server) handleDeliverables(c *gin.Context) {
	items := s.store.Deliverables()
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"groups": dashboard.GroupDeliverables(items),
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if !s.refresh() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "refresh rate limit exceeded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}

// intQuery parses a non-negative integer query parameter, writing a 400 on
// bad input.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
