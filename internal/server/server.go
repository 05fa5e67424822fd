package server

import (
	"net/http"
	"time"

	"github.com/danmuck/tekctl/internal/auth"
	"github.com/danmuck/tekctl/internal/config"
	"github.com/danmuck/tekctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server exposes the payload builder and uplink decoder over HTTP.
// Handlers share no payload state; each request assembles its own buffer.
type Server struct {
	Name     string
	Addr     string
	Appeared time.Time

	router    *gin.Engine
	validator auth.Validator
}

func New(cfg config.ServerConfig) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		router:   r,
	}
	if cfg.Token != "" {
		s.validator = auth.StaticToken{Token: cfg.Token}
	}
	return s
}

// requireToken rejects requests without a valid bearer token.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Header(s.validator, c.GetHeader("Authorization")); err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	log.Info().Str("name", s.Name).Str("addr", s.Addr).Msg("server listening")
	return s.router.Run(s.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
