package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/firstcentralng/bulkrep/internal/config"
	"github.com/firstcentralng/bulkrep/internal/database"
	"github.com/firstcentralng/bulkrep/internal/handler"
	"github.com/firstcentralng/bulkrep/internal/logger"
	"github.com/firstcentralng/bulkrep/internal/report"
	"github.com/firstcentralng/bulkrep/internal/repository"
	"github.com/firstcentralng/bulkrep/internal/service"
	"github.com/firstcentralng/bulkrep/pkg/xlsxtmpl"
)

type App struct {
	Echo  *echo.Echo
	DB    *sql.DB
	Redis *redis.Client
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	dbConfig := database.Config{
		Host:            config.DefaultEnvConfig.DB_HOST,
		Port:            config.DefaultEnvConfig.DB_PORT,
		User:            config.DefaultEnvConfig.DB_USER,
		Password:        config.DefaultEnvConfig.DB_PASSWORD,
		DBName:          config.DefaultEnvConfig.DB_NAME,
		SSLMode:         config.DefaultEnvConfig.DB_SSL_MODE,
		MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
	}

	db, err := database.NewPostgresDB(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	// Redis only backs the dashboard cache, so a missing address just means
	// no caching.
	if addr := config.DefaultEnvConfig.REDIS_ADDR; addr != "" {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.DefaultEnvConfig.REDIS_PASSWORD,
		})
	} else {
		logger.WarnLog(ctx, "REDIS_ADDR not set, dashboard caching disabled")
	}

	layout := xlsxtmpl.DefaultLayout()
	if path := config.DefaultEnvConfig.LAYOUT_CONFIG_PATH; path != "" {
		layout, err = xlsxtmpl.LoadLayout(path)
		if err != nil {
			return fmt.Errorf("failed to load layout config: %w", err)
		}
	}

	usageRepo := repository.NewUsageRepository(db)
	rateRepo := repository.NewRateRepository(db)
	generationRepo := repository.NewGenerationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	assembler := report.NewAssembler(config.DefaultEnvConfig.TEMPLATE_PATH, layout, usageRepo, rateRepo)

	reportSvc := service.NewReportService(assembler, usageRepo, generationRepo, config.DefaultEnvConfig.REPORTS_DIR)
	dashboardSvc := service.NewDashboardService(dashboardRepo, a.Redis)

	reportHandler := handler.NewReportHandler(reportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	a.RegisterMiddlewares()
	a.RegisterRoutes(reportHandler, dashboardHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(reportHandler *handler.ReportHandler, dashboardHandler *handler.DashboardHandler) {
	api := a.Echo.Group("/api")

	reports := api.Group("/reports")
	reports.POST("/single", reportHandler.GenerateSingle)
	reports.POST("/bulk", reportHandler.GenerateBulk)

	api.GET("/subscribers", reportHandler.ListSubscribers)
	api.GET("/subscribers/csv", reportHandler.ExportSubscribersCSV)

	api.GET("/dashboard", dashboardHandler.GetDashboard)
}

func (a *App) Run() error {
	defer a.DB.Close()
	if a.Redis != nil {
		defer a.Redis.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
