// Package app assembles the HTTP application from its modules.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	appConfig "github.com/festy23/eventhub/internal/config"
	eventHandler "github.com/festy23/eventhub/internal/event/handler"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	eventRouter "github.com/festy23/eventhub/internal/event/router"
	eventService "github.com/festy23/eventhub/internal/event/service"
	formHandler "github.com/festy23/eventhub/internal/form/handler"
	formRepository "github.com/festy23/eventhub/internal/form/repository"
	formRouter "github.com/festy23/eventhub/internal/form/router"
	formService "github.com/festy23/eventhub/internal/form/service"
	"github.com/festy23/eventhub/internal/health"
	"github.com/festy23/eventhub/internal/mail"
	mailHandler "github.com/festy23/eventhub/internal/mail/handler"
	mailRouter "github.com/festy23/eventhub/internal/mail/router"
	"github.com/festy23/eventhub/internal/metrics"
	"github.com/festy23/eventhub/internal/middleware"
	profileHandler "github.com/festy23/eventhub/internal/profile/handler"
	profileRepository "github.com/festy23/eventhub/internal/profile/repository"
	profileRouter "github.com/festy23/eventhub/internal/profile/router"
	profileService "github.com/festy23/eventhub/internal/profile/service"
	projectHandler "github.com/festy23/eventhub/internal/project/handler"
	projectRepository "github.com/festy23/eventhub/internal/project/repository"
	projectRouter "github.com/festy23/eventhub/internal/project/router"
	projectService "github.com/festy23/eventhub/internal/project/service"
	"github.com/festy23/eventhub/internal/realtime"
	registrationHandler "github.com/festy23/eventhub/internal/registration/handler"
	registrationRepository "github.com/festy23/eventhub/internal/registration/repository"
	registrationRouter "github.com/festy23/eventhub/internal/registration/router"
	registrationService "github.com/festy23/eventhub/internal/registration/service"
	statisticsHandler "github.com/festy23/eventhub/internal/statistics/handler"
	statisticsRepository "github.com/festy23/eventhub/internal/statistics/repository"
	statisticsRouter "github.com/festy23/eventhub/internal/statistics/router"
	statisticsService "github.com/festy23/eventhub/internal/statistics/service"
	"github.com/festy23/eventhub/internal/storage"
	teamHandler "github.com/festy23/eventhub/internal/team/handler"
	teamRepository "github.com/festy23/eventhub/internal/team/repository"
	teamRouter "github.com/festy23/eventhub/internal/team/router"
	teamService "github.com/festy23/eventhub/internal/team/service"
	"github.com/festy23/eventhub/internal/validation"
)

// APIPrefix is the path every module registers under.
const APIPrefix = "/api/v1"

// Dependencies are the external resources the application is built from.
type Dependencies struct {
	DB       *gorm.DB
	Config   appConfig.Config
	Auth     *auth.Config
	Storage  storage.Storage
	Provider mail.Provider
	Logger   *zap.SugaredLogger
}

// App is the assembled application.
type App struct {
	Router  *gin.Engine
	Broker  *realtime.Broker
	Metrics *metrics.Metrics

	auth     *auth.Config
	profiles profileService.Service
	logger   *zap.SugaredLogger
}

// New wires repositories, services, handlers and routes.
func New(deps Dependencies) (*App, error) {
	db, logger, cfg := deps.DB, deps.Logger, deps.Config

	if err := validation.RegisterGin(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	broker := realtime.NewBroker()
	tokens := auth.NewTokenManager(deps.Auth)
	uploader := storage.NewUploader(deps.Storage, cfg.Storage.MaxUploadBytes)
	mailer := mail.NewService(deps.Provider, cfg.Mail, m, logger)

	profiles := profileRepository.New(db, logger)
	mw := auth.NewMiddleware(tokens, profiles)
	events := eventRepository.New(db, logger)
	forms := formRepository.New(db, logger)
	registrations := registrationRepository.New(db, logger)
	teams := teamRepository.New(db, logger)
	projects := projectRepository.New(db, logger)

	profileSvc := profileService.New(profiles, tokens, uploader, logger)
	eventSvc := eventService.New(events, uploader, logger)
	formSvc := formService.New(forms, events, db, logger)
	teamSvc := teamService.New(teams, events, registrations, db, broker, mailer, m, logger)
	registrationSvc := registrationService.New(
		registrations, events, forms, profiles, db, teamSvc, mailer, m, logger,
	)
	projectSvc := projectService.New(projects, events, registrations, teams, profiles, db, logger)
	statisticsSvc := statisticsService.New(statisticsRepository.New(db, logger), events, logger)

	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxUploadBytes
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)
	if m != nil {
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	r.GET("/health", health.New(logger,
		health.DatabaseDependency(db),
		health.ShutdownDependency("realtime", broker),
	).Check)
	if local, ok := deps.Storage.(*storage.Local); ok {
		r.Static("/uploads", local.Dir())
	}

	api := r.Group(APIPrefix)
	profileRouter.RegisterRoutes(api, profileHandler.New(profileSvc, logger), mw)
	eventRouter.RegisterRoutes(api, eventHandler.New(eventSvc, logger), mw)
	formRouter.RegisterRoutes(api, formHandler.New(formSvc, logger), mw)
	registrationRouter.RegisterRoutes(api, registrationHandler.New(registrationSvc, logger), mw)
	teamRouter.RegisterRoutes(api, teamHandler.New(teamSvc, logger), mw)
	projectRouter.RegisterRoutes(api, projectHandler.New(projectSvc, logger), mw)
	statisticsRouter.RegisterRoutes(api, statisticsHandler.New(statisticsSvc, logger), mw)
	mailRouter.RegisterRoutes(api, mailHandler.New(mailer, logger), mw)

	return &App{
		Router:   r,
		Broker:   broker,
		Metrics:  m,
		auth:     deps.Auth,
		profiles: profileSvc,
		logger:   logger,
	}, nil
}

// EnsureAdmin creates the configured bootstrap administrator. It is a no-op when none is configured.
func (a *App) EnsureAdmin(ctx context.Context) error {
	if !a.auth.HasBootstrapAdmin() {
		return nil
	}
	if err := a.profiles.EnsureAdmin(ctx, a.auth.AdminEmail, a.auth.AdminPasswordHash, a.auth.AdminName); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	a.logger.Infow("bootstrap admin ensured", "email", a.auth.AdminEmail)
	return nil
}

// Close stops background components. Open SSE streams end when the broker closes.
// It is safe to call more than once.
func (a *App) Close() {
	a.Broker.Close()
}
