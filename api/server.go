// Package api exposes a small ops HTTP server for health checks and module
// inspection.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/intrntsrfr/custodian/bot"
)

type Server struct {
	bot *bot.Bot
	log *zap.Logger
	srv *http.Server
}

func NewServer(b *bot.Bot, addr string, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		bot: b,
		log: log,
		srv: &http.Server{Addr: addr, Handler: r},
	}

	r.GET("/health", s.health)
	r.GET("/modules", s.modules)
	return s
}

// Run blocks until the server is shut down.
func (s *Server) Run() error {
	s.log.Info("ops server listening", zap.String("addr", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": bot.FormatUptime(time.Since(s.bot.StartTime())),
		"guilds": len(s.bot.Discord().Guilds()),
	})
}

func (s *Server) modules(c *gin.Context) {
	type moduleInfo struct {
		Name      string `json:"name"`
		Protected bool   `json:"protected"`
	}
	out := make([]moduleInfo, 0, len(s.bot.Modules()))
	for _, m := range s.bot.Modules() {
		out = append(out, moduleInfo{Name: m.Name(), Protected: m.Protected()})
	}
	c.JSON(http.StatusOK, gin.H{"modules": out})
}
