package router

import (
	"log/slog"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	slogecho "github.com/samber/slog-echo"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/actions"
	"github.com/pulsefeed/backend/internal/audit"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/handlers"
	"github.com/pulsefeed/backend/internal/interactions"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/notify"
	"github.com/pulsefeed/backend/internal/ratelimit"
	"github.com/pulsefeed/backend/internal/reqctx"
	"github.com/pulsefeed/backend/internal/repositories"
)

// Dependencies carries everything the route wiring needs.
type Dependencies struct {
	DB               *gorm.DB
	Mongo            *mongo.Client
	Redis            *redis.Client
	FirebaseAuth     *firebaseauth.Client
	JWTSecret        string
	AuditDatabase    string
	RateLimitBackend string
	Logger           *slog.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *slog.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(slogecho.New(logger))
	e.Use(echoprometheus.NewMiddleware("pulsefeed"))
	e.Use(reqctx.Middleware())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if err := deps.DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Comment{},
		&models.Activity{},
		&models.Post{},
		&models.Tag{},
		&models.TagCandidate{},
		&models.ActivityTag{},
		&models.PostTag{},
		&models.Notification{},
	); err != nil {
		return err
	}

	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echoprometheus.NewHandler())

	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.DB)

	resolvers := []authgate.Resolver{authgate.NewJWTResolver(deps.JWTSecret, userRepo)}
	if deps.FirebaseAuth != nil {
		resolvers = append(resolvers, authgate.NewFirebaseResolver(deps.FirebaseAuth, userRepo))
	}
	gate := authgate.New(deps.Logger, resolvers...)

	var limiter ratelimit.Limiter
	if deps.RateLimitBackend == ratelimit.BackendRedis && deps.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(deps.Redis)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	var auditor audit.Logger
	if deps.Mongo != nil {
		collection := deps.Mongo.Database(deps.AuditDatabase).Collection("audit_events")
		auditor = audit.NewMongoLogger(collection, deps.Logger)
	} else {
		auditor = audit.NewSlogLogger(deps.Logger)
	}

	var broadcaster notify.Broadcaster
	var enqueuer notify.EmailEnqueuer
	var tagCache interactions.TagCacheInvalidator
	if deps.Redis != nil {
		broadcaster = notify.NewRedisBroadcaster(deps.Redis)
		enqueuer = notify.NewRedisEmailQueue(deps.Redis)
		tagCache = interactions.NewRedisTagCache(deps.Redis)
	}
	dispatcher := notify.NewDispatcher(deps.DB, broadcaster, enqueuer, deps.Logger)
	service := interactions.NewService(deps.DB, dispatcher, tagCache, deps.Logger)

	runner := actions.NewRunner(gate, limiter, ratelimit.DefaultRules(), auditor, deps.Logger)

	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, deps.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	api := e.Group("/api/v1")

	followHandler := handlers.NewFollowHandler(runner, service)
	followHandler.RegisterFollowRoutes(api)

	commentHandler := handlers.NewCommentHandler(runner, service)
	commentHandler.RegisterCommentRoutes(api)

	tagHandler := handlers.NewTagHandler(runner, service)
	tagHandler.RegisterTagRoutes(api)
	tagHandler.RegisterAdminTagRoutes(e.Group("/api/v1/admin"))

	notificationHandler := handlers.NewNotificationHandler(runner, notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	return nil
}
