package bootstrap

import (
	"context"
	"log"
	"time"

	"chatdesk-be/internal/config"
	"chatdesk-be/internal/controller"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/internal/pkg/ratelimit"
	"chatdesk-be/internal/pkg/serverutils"
	"chatdesk-be/internal/pkg/token"
	"chatdesk-be/internal/repository/unitofwork"
	"chatdesk-be/internal/service"

	pkgNats "chatdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const chatEventsTopic = "chat.events"

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	UserController  controller.IUserController
	ChatController  controller.IChatController
	GroupController controller.IGroupController

	// Middleware shared by route registration
	RequireAuth fiber.Handler

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	SessionService  service.ISessionService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	issuer := token.NewIssuer(
		cfg.Auth.JwtSecret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	limiter := ratelimit.NewLoginLimiter(
		rdb,
		cfg.Auth.LoginMaxAttempts,
		time.Duration(cfg.Auth.LoginWindowMinutes)*time.Minute,
		sysLogger,
	)

	profileCache := gocache.New(time.Minute, 5*time.Minute)

	// 3. Services
	publisherService := service.NewPublisherService(chatEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, chatEventsTopic, natsPub, sysLogger)

	auditService := service.NewAuditService(uowFactory, sysLogger)
	sessionService := service.NewSessionService(
		uowFactory,
		time.Duration(cfg.Session.TTLDays)*24*time.Hour,
		sysLogger,
	)
	authService := service.NewAuthService(uowFactory, sessionService, issuer, limiter, natsPub, auditService, sysLogger)
	userService := service.NewUserService(uowFactory, profileCache, auditService)
	chatService := service.NewChatService(uowFactory, publisherService, sysLogger)
	groupService := service.NewGroupService(uowFactory, publisherService, auditService, sysLogger)

	// 4. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		UserController:  controller.NewUserController(userService),
		ChatController:  controller.NewChatController(chatService, userService),
		GroupController: controller.NewGroupController(groupService),

		RequireAuth: serverutils.RequireAuth(issuer),

		ConsumerService: consumerService,
		SessionService:  sessionService,

		Logger: sysLogger,
	}
}
