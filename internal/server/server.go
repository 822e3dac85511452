package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"samamatroh/internal/auth"
	"samamatroh/internal/config"
	"samamatroh/internal/ledger"
	"samamatroh/internal/logger"
	"samamatroh/internal/reservation"
	"samamatroh/internal/transfer"
	"samamatroh/internal/user"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Handlers groups the domain handlers mounted on the router.
type Handlers struct {
	User        *user.Handler
	Ledger      *ledger.Handler
	Reservation *reservation.Handler
	Transfer    *transfer.Handler
}

type Server struct {
	router  *gin.Engine
	limiter *RateLimiter
	http    *http.Server
}

func New(cfg *config.Config, h Handlers, checks ...Check) *Server {
	router := gin.New()
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		corsMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
	)

	router.GET("/health", Health)
	router.GET("/ready", Ready(checks...))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	public.Use(limiter.Middleware())
	{
		public.POST("/register", h.User.Register)
		public.POST("/login", h.User.Login)
		public.POST("/refresh", h.User.RefreshToken)
	}

	authMiddleware := auth.Middleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware, limiter.Middleware())
	{
		protected.GET("/me", h.User.GetMe)
		protected.GET("/wallet/balance", h.Ledger.GetBalance)

		protected.GET("/reservations/my-balance", h.Ledger.GetBalance)
		protected.POST("/reservations", h.Reservation.Create)
		protected.GET("/reservations", h.Reservation.ListMine)
		protected.GET("/reservations/:id", h.Reservation.Get)
		protected.PUT("/reservations/:id", h.Reservation.Update)
		protected.DELETE("/reservations/:id", h.Reservation.Delete)

		protected.POST("/transactions/send", h.Transfer.Send)
		protected.GET("/transactions/my-transactions", h.Transfer.ListMine)
	}

	adminOnly := auth.AllowedTo(auth.RoleAdmin)
	adminTx := router.Group("/transactions")
	adminTx.Use(authMiddleware, adminOnly)
	{
		adminTx.GET("", h.Transfer.List)
		adminTx.GET("/:id", h.Transfer.Get)
		adminTx.DELETE("/:id", h.Transfer.Reverse)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminOnly)
	{
		admin.POST("/users/:userID/top-up", h.Ledger.TopUp)
	}

	return &Server{
		router:  router,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.limiter.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("http server shutting down")
	s.limiter.Close()
	return s.http.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
