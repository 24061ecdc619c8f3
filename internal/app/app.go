package app

import (
	"career_compass_backend/internal/config"
	"career_compass_backend/internal/controller"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/service"
	"career_compass_backend/pkg/configwatcher"
	"career_compass_backend/pkg/database"
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"
	"career_compass_backend/pkg/scheduler"
	"career_compass_backend/pkg/security"
	"career_compass_backend/pkg/tracing"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Registry *scoring.Registry

	services        *services
	limiter         *security.Limiter
	scheduler       *scheduler.Scheduler
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	test     *repository.TestRepository
	response *repository.ResponseRepository
	score    *repository.AssessmentScoreRepository
	catalog  *repository.CatalogRepository
	career   *repository.CareerRepository
}

type services struct {
	storage        *service.StorageService
	recommendation *service.RecommendationService
	assessment     *service.AssessmentService
	draft          *service.DraftService
	test           *service.TestService
	catalog        *service.CatalogService
}

type controllers struct {
	assessment *controller.AssessmentController
	draft      *controller.DraftController
	test       *controller.TestController
	catalog    *controller.CatalogController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		test:     repository.NewTestRepository(db),
		response: repository.NewResponseRepository(db),
		score:    repository.NewAssessmentScoreRepository(db),
		catalog:  repository.NewCatalogRepository(db),
		career:   repository.NewCareerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	s.storage = storage

	var cache service.ResultCache = service.NoopResultCache{}
	if rdb != nil {
		cache = repository.NewResultCacheRepository(rdb, cfg.Cache.ResultTTL)
	}

	s.recommendation = service.NewRecommendationService(repos.career)
	s.assessment = service.NewAssessmentService(
		db,
		a.Registry,
		repos.catalog,
		s.recommendation,
		repos.test,
		repos.response,
		repos.score,
		cache,
	)
	s.draft = service.NewDraftService(db, repos.catalog, repos.test, repos.response, s.assessment)
	s.test = service.NewTestService(db, repos.catalog, repos.test, repos.response, repos.score, cache, s.storage, cfg.Storage.ExportPrefix)
	s.catalog = service.NewCatalogService(db, repos.catalog)
	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		assessment: controller.NewAssessmentController(s.assessment),
		draft:      controller.NewDraftController(s.draft),
		test:       controller.NewTestController(s.test),
		catalog:    controller.NewCatalogController(s.catalog),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// initRegistry builds the model registry and optionally loads every bundle
// up front so a missing artifact fails the start instead of a request.
func (a *App) initRegistry(cfg *config.Config) error {
	store, err := service.NewArtifactStore(cfg)
	if err != nil {
		return fmt.Errorf("model store: %w", err)
	}
	a.Registry = scoring.NewRegistry(store, func(c model.Category) string {
		return cfg.Models.ModelFile(c.Slug())
	})
	if !cfg.Models.Preload {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.Registry.Preload(ctx, model.AllCategories...)
}

// NewApp connects every dependency and builds the router.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, migrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		limiter: security.NewLimiter(cfg.RateLimit),
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		app.Redis = rdb
	}

	if err := app.initRegistry(cfg); err != nil {
		return nil, err
	}

	repos := app.initRepositories(db)
	svcs, err := app.initServices(repos, cfg, db, app.Redis)
	if err != nil {
		return nil, err
	}
	app.services = svcs
	ctrls := app.initControllers(svcs)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.New(repos.test, time.Duration(cfg.Scheduler.StatsIntervalMinutes)*time.Minute)
	}
	app.RegisterConfigCallback(logger.ApplyConfig)

	return app, nil
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	go a.limiter.Run(ctx)

	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			logger.Log.Error("Failed to start scheduler", zap.Error(err))
		}
	}

	if a.Config.Dir != "" {
		reloaders := make([]configwatcher.ConfigReloader, 0, len(a.configCallbacks))
		for _, cb := range a.configCallbacks {
			reloaders = append(reloaders, cb)
		}
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.Dir, reloaders...); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

// Close releases connections opened by NewApp.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = logger.Log.Sync()
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startBackgroundTasks(ctx)
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}
