package app

import (
	"context"
	"heritage_edu_backend/internal/config"
	"heritage_edu_backend/internal/controller"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/pkg/database"
	"heritage_edu_backend/pkg/logger"
	"heritage_edu_backend/pkg/mailer"
	"heritage_edu_backend/pkg/monitoring"
	"heritage_edu_backend/pkg/security"
	"heritage_edu_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	site        *repository.SiteRepository
	feedback    *repository.FeedbackRepository
	quiz        *repository.QuizRepository
	battle      *repository.BattleRepository
	profile     *repository.ProfileRepository
	achievement *repository.AchievementRepository
	comment     *repository.CommentRepository
	settings    *repository.SettingsRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	site        *service.SiteService
	feedback    *service.FeedbackService
	quiz        *service.QuizService
	progression *service.ProgressionService
	battle      *service.BattleService
	comment     *service.CommentService
	storage     *service.StorageService
	settings    *service.SettingsService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	site        *controller.SiteController
	feedback    *controller.FeedbackController
	quiz        *controller.QuizController
	progression *controller.ProgressionController
	battle      *controller.BattleController
	comment     *controller.CommentController
	settings    *controller.SettingsController
	upload      *controller.UploadController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		site:        repository.NewSiteRepository(db),
		feedback:    repository.NewFeedbackRepository(db),
		quiz:        repository.NewQuizRepository(db),
		battle:      repository.NewBattleRepository(db),
		profile:     repository.NewProfileRepository(db),
		achievement: repository.NewAchievementRepository(db),
		comment:     repository.NewCommentRepository(db),
		settings:    repository.NewSettingsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.site = service.NewSiteService(repos.site)
	s.feedback = service.NewFeedbackService(repos.feedback, repos.site, repos.settings, mailer.New(&cfg.Mail))
	s.progression = service.NewProgressionService(repos.profile, repos.achievement, repos.quiz, repos.battle)
	s.quiz = service.NewQuizService(repos.quiz, repos.site, s.progression)
	s.battle = service.NewBattleService(repos.battle, repos.quiz, repos.user, s.progression)
	s.comment = service.NewCommentService(repos.comment, repos.site, rdb)
	s.settings = service.NewSettingsService(repos.settings)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		site:        controller.NewSiteController(s.site),
		feedback:    controller.NewFeedbackController(s.feedback),
		quiz:        controller.NewQuizController(s.quiz),
		progression: controller.NewProgressionController(s.progression),
		battle:      controller.NewBattleController(s.battle),
		comment:     controller.NewCommentController(s.comment),
		settings:    controller.NewSettingsController(s.settings),
		upload:      controller.NewUploadController(s.storage),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 对战状态兜底推进：列表/详情访问会惰性推进，
// 无人访问的对战由每分钟的定时任务收口
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			s.battle.ReconcileStatuses()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 不可用时降级运行，留言限流回落到数据库
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, falling back to db-backed rate limiting", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("heritage-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
