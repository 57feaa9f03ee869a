// Package server wires the HTTP surface of the gateway: authentication,
// role checks, light business validation, and pass-through to the
// interpreter and orchestrator services.
package server

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	limiter "github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/internal/config"
	"github.com/ctfarena/backend/internal/interpreter"
	"github.com/ctfarena/backend/internal/orchestrator"
	"github.com/ctfarena/backend/pkg/apierrors"
	"github.com/ctfarena/backend/pkg/metrics"
)

// Server represents the gateway HTTP server
type Server struct {
	router  *gin.Engine
	logger  *zap.Logger
	cfg     *config.Config
	authSvc *auth.Service
	interp  *interpreter.Client
	orch    *orchestrator.Client
}

// NewServer creates the gateway server and registers all routes
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	authSvc *auth.Service,
	interp *interpreter.Client,
	orch *orchestrator.Client,
) *Server {
	s := &Server{
		logger:  logger,
		cfg:     cfg,
		authSvc: authSvc,
		interp:  interp,
		orch:    orch,
	}

	registerValidations()

	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware("ctf-backend"))
	router.Use(s.metricsMiddleware())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		// Credentials cannot be combined with a wildcard origin.
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	router.Use(cors.New(corsCfg))

	if rate, err := limiter.NewRateFromFormatted(cfg.Server.RateLimit); err == nil {
		store := memory.NewStore()
		router.Use(ginlimiter.NewMiddleware(limiter.New(store, rate)))
	} else {
		logger.Warn("invalid rate limit format, rate limiting disabled",
			zap.String("rate_limit", cfg.Server.RateLimit), zap.Error(err))
	}

	s.router = router
	s.registerRoutes()
	return s
}

// Router returns the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/docs/openapi.yaml", func(c *gin.Context) {
		c.File("docs/openapi.yaml")
	})
	s.router.GET("/docs", func(c *gin.Context) {
		html := `<!DOCTYPE html>
<html>
<head>
  <title>CTF Backend API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</head>
<body>
  <redoc spec-url='/docs/openapi.yaml'></redoc>
</body>
</html>`
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	})

	authed := s.authSvc.RequireAuth()
	admin := s.authSvc.RequireAdmin()

	exercises := s.router.Group("/exercises", authed)
	{
		exercises.GET("", admin, s.listExercises)
		exercises.GET("/my-solves", s.getMySolves)
		exercises.POST("/submit", s.submitFlag)
		exercises.POST("", admin, s.createExercise)
		exercises.GET("/:id/connection", s.getConnectionInfo)
		exercises.GET("/:id/admin", admin, s.getExerciseAdmin)
		exercises.GET("/:id/competitions", admin, s.getExerciseCompetitions)
		exercises.POST("/:id/link-competition/:compID", admin, s.linkExerciseToCompetition)
		exercises.DELETE("/:id/competition/:compID", admin, s.unlinkExerciseFromCompetition)
		exercises.POST("/:id/tags/:tagID", admin, s.linkExerciseToTag)
		exercises.DELETE("/:id/tags/:tagID", admin, s.unlinkExerciseFromTag)
		exercises.PATCH("/:id", admin, s.updateExercise)
		exercises.DELETE("/:id", admin, s.deleteExercise)
		exercises.POST("/:id/deploy", admin, s.deployExercise)
	}

	attendance := s.router.Group("/attendance", authed)
	{
		attendance.GET("", admin, s.getAllAttendances)
		attendance.GET("/user/:id", s.getUserAttendance)
		attendance.GET("/competition/:id", admin, s.getCompetitionAttendance)
		attendance.POST("", s.recordAttendance)
	}

	scoreboard := s.router.Group("/scoreboard", authed)
	{
		scoreboard.GET("/global", s.getGlobalScoreboard)
		scoreboard.GET("/:compID", s.getCompetitionScoreboard)
	}

	competitions := s.router.Group("/competitions", authed)
	{
		competitions.GET("", s.listCompetitions)
		competitions.POST("", admin, s.createCompetition)
		competitions.POST("/join", s.joinCompetition)
		competitions.GET("/:id", s.getCompetition)
		competitions.GET("/:id/participants", admin, s.getCompetitionParticipants)
		competitions.GET("/:id/exercises", s.getCompetitionExercises)
		competitions.PATCH("/:id", admin, s.updateCompetition)
		competitions.DELETE("/:id", admin, s.deleteCompetition)
	}

	users := s.router.Group("/users", authed)
	{
		users.GET("", admin, s.listUsers)
		users.GET("/me", s.getMe)
		users.GET("/:id", s.getUser)
		users.PUT("/:id", s.updateUser)
		users.DELETE("/:id", admin, s.deleteUser)
	}

	tags := s.router.Group("/tags", authed)
	{
		tags.GET("", s.listTags)
		tags.POST("", admin, s.createTag)
		tags.PATCH("/:id", admin, s.updateTag)
		tags.DELETE("/:id", admin, s.deleteTag)
	}

	containers := s.router.Group("/containers")
	{
		// The orchestrator reports lifecycle events here; it is not a
		// user-facing route and carries no user token.
		containers.POST("/callback", s.containerCallback)

		containers.GET("", authed, admin, s.listContainers)
		containers.GET("/:id", authed, admin, s.getContainer)
		containers.DELETE("/:id", authed, admin, s.removeContainer)
	}
}

var imageRefPattern = regexp.MustCompile(`^[a-z0-9]+(?:[._/-][a-z0-9]+)*(?::[a-zA-Z0-9._-]+)?$`)

// registerValidations adds custom binding rules to gin's validator engine
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
			return imageRefPattern.MatchString(fl.Field().String())
		})
	}
}

// requestIDMiddleware tags every request with an id for log correlation.
// An incoming X-Request-ID is kept so ids survive proxy hops.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// metricsMiddleware counts served requests by method and status
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// writeRaw relays a downstream JSON body untouched; an empty body becomes
// a 204
func (s *Server) writeRaw(c *gin.Context, body []byte) {
	if len(body) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// writeError renders an error, preserving downstream status codes
func (s *Server) writeError(c *gin.Context, err error) {
	var apiErr *apierrors.Error
	if apierrors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"detail": apiErr.Detail})
		return
	}
	s.logger.Error("handler error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}
