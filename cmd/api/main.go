package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deskwise/helpdesk-service/internal/api/http"
	"github.com/deskwise/helpdesk-service/internal/api/http/handlers"
	"github.com/deskwise/helpdesk-service/internal/auth"
	"github.com/deskwise/helpdesk-service/internal/changebus"
	"github.com/deskwise/helpdesk-service/internal/config"
	"github.com/deskwise/helpdesk-service/internal/observability"
	"github.com/deskwise/helpdesk-service/internal/persistence"
	"github.com/deskwise/helpdesk-service/internal/repository"
	"github.com/deskwise/helpdesk-service/internal/service"
	"github.com/deskwise/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	bus := changebus.NewRedisBus(redis.Client, logger)
	defer bus.Close() //nolint:errcheck

	pool := pg.PoolHandle()
	workspaceRepo := repository.NewWorkspaceRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	routeRepo := repository.NewTeamRouteRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	invitationRepo := repository.NewInvitationRepository(pool)
	searchRepo := repository.NewSearchRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	visibility := service.NewVisibilityFilter()

	authService := service.NewAuthService(service.AuthDependencies{
		WorkspaceRepo: workspaceRepo,
		UserRepo:      userRepo,
		Tokens:        tokens,
		Logger:        logger,
		BcryptCost:    cfg.Auth.BcryptCost,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		UserRepo:    userRepo,
		TeamRepo:    teamRepo,
		Visibility:  visibility,
		Bus:         bus,
		Logger:      logger,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo: teamRepo,
		UserRepo: userRepo,
		Bus:      bus,
		Logger:   logger,
	})
	routingService := service.NewRoutingService(service.RoutingDependencies{
		RouteRepo: routeRepo,
		TeamRepo:  teamRepo,
		Bus:       bus,
		Logger:    logger,
	})
	searchService := service.NewSearchService(service.SearchDependencies{
		SearchRepo: searchRepo,
		Visibility: visibility,
		Logger:     logger,
		Debounce:   cfg.Search.Debounce(),
		MaxResults: cfg.Search.MaxResults,
	})
	invitationService := service.NewInvitationService(service.InvitationDependencies{
		InvitationRepo: invitationRepo,
		UserRepo:       userRepo,
		Mailer:         &service.LogMailer{Logger: logger},
		Bus:            bus,
		Logger:         logger,
		TTL:            cfg.Invitation.TTL(),
		PublicBaseURL:  cfg.App.PublicBaseURL,
		BcryptCost:     cfg.Auth.BcryptCost,
	})

	sweeper := worker.NewInvitationSweeper(invitationService, cfg.Invitation.SweepInterval(), logger)
	go sweeper.Run(ctx)

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewMiddleware(tokens, userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Teams:          handlers.NewTeamsHandler(teamService, routingService),
		Invitations:    handlers.NewInvitationsHandler(invitationService),
		Search:         handlers.NewSearchHandler(searchService),
		Events:         handlers.NewEventsHandler(bus, ticketRepo, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
