package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school_admin_backend/internal/config"
	"school_admin_backend/internal/controller"
	"school_admin_backend/internal/mailer"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/service"
	"school_admin_backend/pkg/configwatcher"
	"school_admin_backend/pkg/database"
	"school_admin_backend/pkg/logger"
	"school_admin_backend/pkg/monitoring"
	"school_admin_backend/pkg/security"
	"school_admin_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user    *repository.UserRepository
	teacher *repository.TeacherRepository
	student *repository.StudentRepository
	exam    *repository.ExamRepository
	attempt *repository.AttemptRepository
}

type services struct {
	visibility *service.VisibilityService
	auth       *service.AuthService
	roster     *service.RosterService
	exam       *service.ExamService
	submission *service.SubmissionService
	reset      *service.PasswordResetService
	csv        *service.CsvService
}

type controllers struct {
	auth    *controller.AuthController
	teacher *controller.TeacherController
	student *controller.StudentController
	exam    *controller.ExamController
	csv     *controller.CsvController
	reset   *controller.PasswordResetController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// shouldMigrate 判定启动时是否执行 AutoMigrate：
// debug 模式默认迁移，release 模式仅在 -migrate/-migrate-only 下迁移。
func shouldMigrate(cfg *config.Config) bool {
	return cfg.ForceMigrate || cfg.Server.Mode != "release"
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		teacher: repository.NewTeacherRepository(db),
		student: repository.NewStudentRepository(db),
		exam:    repository.NewExamRepository(db),
		attempt: repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.visibility = service.NewVisibilityService(db)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.roster = service.NewRosterService(repos.teacher, repos.student, repos.user, s.visibility, db)
	s.exam = service.NewExamService(repos.exam, repos.teacher, s.visibility, db)
	s.submission = service.NewSubmissionService(repos.attempt, repos.exam, repos.student, s.visibility, db)
	s.reset = service.NewPasswordResetService(repos.user, rdb, mailer.New(&cfg.Mail), cfg)
	s.csv = service.NewCsvService(repos.student, repos.teacher, s.roster)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		teacher: controller.NewTeacherController(s.roster),
		student: controller.NewStudentController(s.roster),
		exam:    controller.NewExamController(s.exam, s.submission),
		csv:     controller.NewCsvController(s.csv),
		reset:   controller.NewPasswordResetController(s.reset),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	// 后续中间件通过 context 获取配置
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if shouldMigrate(cfg) {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run database migration", zap.Error(err))
			log.Fatalf("Failed to run database migration: %v", err)
		}
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("school-admin-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers)

	// 配置热加载：文件变更后通知已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		app.Config = reloaded
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
		logger.Log.Info("configuration reloaded")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
