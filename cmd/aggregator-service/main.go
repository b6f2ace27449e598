package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-lanka-watch/internal/aggregator/classifier"
	"golang-lanka-watch/internal/aggregator/config"
	delivery "golang-lanka-watch/internal/aggregator/delivery/http"
	_ "golang-lanka-watch/internal/aggregator/docs"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/aggregator/service"
	"golang-lanka-watch/internal/aggregator/strategy"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/ratelimit"
	"golang-lanka-watch/pkg/telegram"
	"golang-lanka-watch/pkg/utils"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the aggregator service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Aggregator Service", logger.Field("name", cfg.App.Name))

	clock := clockwork.NewRealClock()
	m := metrics.NewMetrics()

	// Initialize CSV table repositories
	dataDir := cfg.Storage.DataDir
	newsRepo, err := repository.NewNewsRepository(dataDir, clock, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize news table", logger.ErrorField(err))
	}
	weatherRepo, err := repository.NewWeatherRepository(dataDir, clock, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize weather table", logger.ErrorField(err))
	}
	tweetRepo, err := repository.NewTweetRepository(dataDir, clock, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize tweets table", logger.ErrorField(err))
	}
	alertRepo, err := repository.NewAlertRepository(dataDir, clock, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize alerts table", logger.ErrorField(err))
	}
	fuelRepo, err := repository.NewFuelPriceRepository(dataDir, clock, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize fuel prices table", logger.ErrorField(err))
	}
	maintenanceRepo := repository.NewMaintenanceRepository(
		dataDir, cfg.Storage.BackupDir, weatherRepo, tweetRepo, alertRepo, clock, appLogger)

	// Initialize external API repositories
	weatherAPI := repository.NewOpenWeatherRepository(cfg, appLogger)
	twitterUsage := ratelimit.NewUsageLimiter(
		ratelimit.NewFileStore(cfg.Twitter.UsageFile),
		cfg.Twitter.MonthlyLimit,
		cfg.Twitter.DailyLimit,
		cfg.Twitter.MinInterval,
		clock,
		appLogger,
	)
	twitterRepo := repository.NewTwitterRepository(cfg, twitterUsage, clock, appLogger)
	fuelSource := repository.NewCeypetcoRepository(cfg, clock, appLogger)
	newsSources := []repository.NewsSourceRepository{
		repository.NewAdaDeranaRepository(cfg, clock, appLogger),
	}
	if len(cfg.News.RSSFeeds) > 0 {
		newsSources = append(newsSources, repository.NewRSSNewsRepository(cfg, clock, appLogger))
	}

	// Initialize classifier
	var cls classifier.Classifier = classifier.NewKeywordClassifier(appLogger)
	if cfg.Classifier.Provider == "gemini" {
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		cls = classifier.NewGeminiClassifier(cfg, appLogger, genAiClient, cls)
	}

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize collection tasks
	tasks := []strategy.Task{
		strategy.NewNewsCollectorStrategy(cfg, newsSources, newsRepo, alertRepo, cls, telegramNotifier, m, clock, appLogger),
		strategy.NewWeatherCollectorStrategy(weatherAPI, weatherRepo, alertRepo, telegramNotifier, m, clock, appLogger),
		strategy.NewTwitterCollectorStrategy(cfg, twitterRepo, tweetRepo, alertRepo, cls, telegramNotifier, m, clock, appLogger),
		strategy.NewFuelCollectorStrategy(fuelSource, fuelRepo, alertRepo, telegramNotifier, m, clock, appLogger),
		strategy.NewAlertGeneratorStrategy(newsRepo, alertRepo, m, clock, appLogger),
		strategy.NewCleanupStrategy(cfg, maintenanceRepo, appLogger),
	}

	// Initialize services
	schedulerSvc := service.NewSchedulerService(cfg, tasks, m, clock, appLogger)
	newsSvc := service.NewNewsService(newsRepo, appLogger)
	weatherSvc := service.NewWeatherService(cfg, weatherAPI, weatherRepo, clock, appLogger)
	tweetSvc := service.NewTweetService(tweetRepo, twitterRepo, appLogger)
	alertSvc := service.NewAlertService(alertRepo, appLogger)
	fuelSvc := service.NewFuelService(fuelRepo, fuelSource, clock, appLogger)
	dataSvc := service.NewDataService(newsRepo, weatherRepo, tweetRepo, alertRepo, fuelRepo, weatherAPI, cfg.Weather.Districts, clock, appLogger)
	statsSvc := service.NewStatsService(newsRepo, weatherRepo, tweetRepo, alertRepo, fuelRepo, maintenanceRepo, weatherAPI, twitterRepo, cfg.Weather.Districts, clock, appLogger)

	// Start scheduler service
	utils.GoSafe(appLogger, func() { schedulerSvc.Start(ctx) })

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(delivery.MetricsMiddleware(m))

	// Initialize handlers and routes
	statsHandler := delivery.NewStatsHandler(statsSvc, weatherAPI.IsConfigured(), twitterRepo.IsConfigured(), cfg.Weather.Districts, appLogger)
	e.GET("/", statsHandler.Banner)

	api := e.Group("/api")
	statsHandler.RegisterRoutes(api)

	newsHandler := delivery.NewNewsHandler(newsSvc, appLogger)
	newsHandler.RegisterRoutes(api.Group("/news"))

	weatherHandler := delivery.NewWeatherHandler(weatherSvc, appLogger)
	weatherHandler.RegisterRoutes(api.Group("/weather"))

	tweetHandler := delivery.NewTweetHandler(tweetSvc, appLogger)
	tweetHandler.RegisterRoutes(api)

	alertHandler := delivery.NewAlertHandler(alertSvc, appLogger)
	alertHandler.RegisterRoutes(api.Group("/alerts"))

	classifyHandler := delivery.NewClassifyHandler(cls, appLogger)
	classifyHandler.RegisterRoutes(api)

	dataHandler := delivery.NewDataHandler(dataSvc, appLogger)
	dataHandler.RegisterRoutes(api.Group("/data"))

	fuelHandler := delivery.NewFuelHandler(fuelSvc, appLogger)
	fuelHandler.RegisterRoutes(api.Group("/fuel"))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	utils.GoSafe(appLogger, func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	})

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Sri Lanka Situational Awareness API
// @version 1.0
// @description News, weather, social media and fuel price aggregation for Sri Lanka.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{Use: "aggregator-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-aggregator.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing aggregator-service CLI: %s\n", err)
		os.Exit(1)
	}
}
