package api

import (
	"fmt"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/config"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/jobs"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/metrics"
	"policereserves/roster/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// notificationStreamMaxLen caps the delivery stream; the table keeps history
const notificationStreamMaxLen = 10000

type Repositories struct {
	Store   *repositories.Store
	Keys    *repositories.KeysRepo
	Reports *repositories.ReportRepository
}

type Services struct {
	Cache         common.CacheInterface
	Files         common.FileStore
	URLSigner     *common.URLSignerService
	Tokens        *auth.TokenVerifier
	Users         *services.UserService
	Applications  *services.ApplicationService
	Equipment     *services.EquipmentService
	Events        *services.EventService
	Trainings     *services.TrainingService
	Policies      *services.PolicyService
	Notifications *services.NotificationService
	Reminders     *jobs.ReminderJob
	// Backlog is nil when notifications are not published
	Backlog       common.NotificationBacklog
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	SQL      *sqlx.DB
	Redis    *redis.Client
	UpSince  time.Time
}

// InitDependencies wires repositories and services. redisClient may be nil,
// in which case the in-memory cache is used and notifications are only
// stored.
func InitDependencies(
	cfg *config.Config,
	gdb *gorm.DB,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	repos := &Repositories{
		Store:   repositories.NewStore(gdb),
		Keys:    repositories.NewApiKeysRepo(sqlxDB),
		Reports: repositories.NewReportRepository(sqlxDB),
	}

	var (
		baseCache common.CacheInterface
		publisher common.NotificationPublisher
		backlog   common.NotificationBacklog
	)
	if redisClient != nil {
		stream := common.NewRedisNotificationStream(redisClient, constants.NotificationStream, notificationStreamMaxLen)
		baseCache = common.NewRedisCacheService(redisClient)
		publisher = stream
		backlog = stream
		logging.Info("Using Redis for cache and notification stream")
	} else {
		baseCache = common.NewCacheService(cfg.Auth.IdentityTTL, 10*time.Minute)
		logging.Info("Using in-memory cache; notifications will not be published")
	}
	cache := common.NewInstrumentedCache(baseCache, metricsReg)

	files, err := common.NewLocalFileStore(cfg.Storage.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open file store: %w", err)
	}
	signer := common.NewURLSignerService([]byte(cfg.Storage.SigningKey), cfg.Storage.URLTTL, cfg.Storage.BaseURL)

	users := services.NewUserService(repos.Store, cache, cfg.Auth.IdentityTTL)
	applications, err := services.NewApplicationService(repos.Store, files, signer, users)
	if err != nil {
		return nil, err
	}

	svcs := &Services{
		Cache:         cache,
		Files:         files,
		URLSigner:     signer,
		Tokens:        auth.NewTokenVerifier([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer),
		Users:         users,
		Applications:  applications,
		Equipment:     services.NewEquipmentService(repos.Store),
		Events:        services.NewEventService(repos.Store),
		Trainings:     services.NewTrainingService(repos.Store),
		Policies:      services.NewPolicyService(repos.Store, repos.Reports, files, signer),
		Notifications: services.NewNotificationService(repos.Store),
		Reminders:     jobs.NewReminderJob(repos.Store, publisher, metricsReg, cfg.Reminders),
		Backlog:       backlog,
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
		SQL:      sqlxDB,
		Redis:    redisClient,
		UpSince:  time.Now(),
	}, nil
}
