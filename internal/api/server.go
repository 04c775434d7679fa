package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/logger"
	"github.com/AI2HU/dbmanager/internal/models"
)

const (
	requestIDHeader = "X-Request-ID"
	defaultLimit    = 50
	maxLimit        = 100
)

// Options configures the API server
type Options struct {
	CORSOrigin string
	// RateLimit is the sustained requests per second; zero disables limiting
	RateLimit float64
	Burst     int
	// Timeout bounds each store call; zero means the request context only
	Timeout time.Duration
}

// Server serves the user and post operations over HTTP
type Server struct {
	db      db.Database
	router  *gin.Engine
	opts    Options
	limiter *rate.Limiter
	http    *http.Server
}

// NewServer creates a server with routes and middleware installed
func NewServer(database db.Database, opts Options) *Server {
	s := &Server{
		db:     database,
		router: gin.New(),
		opts:   opts,
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = int(opts.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	s.router.Use(
		gin.LoggerWithWriter(logger.Writer(logger.INFO)),
		gin.Recovery(),
		s.requestIDMiddleware(),
		s.corsMiddleware(),
		s.rateLimitMiddleware(),
	)
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")

	v1.GET("/health", s.healthCheck)

	users := v1.Group("/users")
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.DELETE("/:id", s.deleteUser)
	users.GET("/:id/posts", s.listUserPosts)
	users.POST("/:id/posts", s.createPost)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on address until Shutdown is called
func (s *Server) Run(address string) error {
	s.http = &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Middleware

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.CORSOrigin != "" {
			c.Header("Access-Control-Allow-Origin", s.opts.CORSOrigin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.errorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Helpers

func (s *Server) opContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.opts.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

// parsePagination reads page and limit query parameters
func (s *Server) parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// keep (page-1)*limit+limit within int range
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return page, limit
}

// storeErrorStatus maps adapter errors to HTTP status codes
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, db.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, db.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	if status >= http.StatusInternalServerError {
		logger.Error("api: %s %s [%s]: %s", c.Request.Method, c.Request.URL.Path, c.GetString("request_id"), message)
	}
	c.JSON(status, models.APIResponse{
		Success: false,
		Error:   message,
	})
}
