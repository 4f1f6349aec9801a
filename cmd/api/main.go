package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/cache"
	"pipecrm/internal/config"
	"pipecrm/internal/database"
	"pipecrm/internal/middleware"
	"pipecrm/internal/modules/activity"
	"pipecrm/internal/modules/auth"
	"pipecrm/internal/modules/board"
	"pipecrm/internal/modules/catalog"
	"pipecrm/internal/modules/deal"
	"pipecrm/internal/modules/events"
	"pipecrm/internal/modules/lead"
	"pipecrm/internal/modules/machine"
	"pipecrm/internal/modules/pipeline"
	"pipecrm/internal/modules/quote"
	jwtsvc "pipecrm/internal/pkg/jwt"
	"pipecrm/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	var boardCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		boardCache = redisCache
	} else {
		log.Println("REDIS_URL is empty, board summaries are uncached")
	}

	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	pipelineRepo := repository.NewPipelineRepository(db)
	dealRepo := repository.NewDealRepository(db)
	quoteItemRepo := repository.NewQuoteItemRepository(db)
	historyRepo := repository.NewStageHistoryRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := events.NewHub()
	defer hub.Close()
	notifier := events.NewNotifier(hub)

	boardService := board.NewService(dealRepo, pipelineRepo, boardCache)
	boardHandler := board.NewHandler(boardService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	leadService := lead.NewService(leadRepo)
	leadHandler := lead.NewHandler(leadService)

	pipelineService := pipeline.NewService(pipelineRepo, dealRepo, boardService)
	pipelineHandler := pipeline.NewHandler(pipelineService)

	dealService := deal.NewService(
		dealRepo,
		pipelineRepo,
		leadRepo,
		historyRepo,
		catalogRepo,
		boardService,
		notifier,
	)
	dealHandler := deal.NewHandler(dealService)

	quoteService := quote.NewService(quoteItemRepo, dealRepo, boardService)
	quoteHandler := quote.NewHandler(quoteService)

	activityService := activity.NewService(activityRepo, dealRepo)
	activityHandler := activity.NewHandler(activityService)

	machineService := machine.NewService(machineRepo, dealRepo)
	machineHandler := machine.NewHandler(machineService)

	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	eventsHandler := events.NewHandler(hub, j)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			leadHandler.RegisterRoutes(protected)
			pipelineHandler.RegisterRoutes(protected)
			dealHandler.RegisterRoutes(protected)
			quoteHandler.RegisterRoutes(protected)
			activityHandler.RegisterRoutes(protected)
			machineHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			boardHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				authHandler.RegisterAdminRoutes(admin)
				catalogHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
