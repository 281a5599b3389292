package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/slajobrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded, using process environment: %v", err)
	}
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDB(configs)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startWebServer(ctx, &app, configs.HTTPPort)

	jobManager.StopAll()
	if err := app.Close(); err != nil {
		logger.Error("Failed to close event bus", "error", err)
	}
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT", "8080"),
		DBHost:     goDotEnvVariable("DB_HOST", "localhost"),
		DBPort:     goDotEnvVariable("DB_PORT", "5432"),
		DBUser:     goDotEnvVariable("DB_USER", ""),
		DBPassword: goDotEnvVariable("DB_PASSWORD", ""),
		DBName:     goDotEnvVariable("DB_NAME", ""),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE", "disable"),

		KafkaBrokers:     strings.Split(goDotEnvVariable("KAFKA_HOST", "localhost:9092"), ","),
		KafkaEventsTopic: goDotEnvVariable("KAFKA_ORDER_EVENTS_TOPIC", "order.events"),

		SlaMonitorSchedule:  goDotEnvVariable("SLA_MONITOR_SCHEDULE", "*/5 * * * * *"),
		SlaMonitorBatchSize: intVariable("SLA_MONITOR_BATCH_SIZE", 100),
		SlaJobLease:         durationVariable("SLA_JOB_LEASE", time.Minute),
		SlaJobMaxAttempts:   intVariable("SLA_JOB_MAX_ATTEMPTS", 5),
		SlaJobRetryBackoff:  durationVariable("SLA_JOB_RETRY_BACKOFF", 30*time.Second),

		OutboxRelaySchedule:  goDotEnvVariable("OUTBOX_RELAY_SCHEDULE", "*/2 * * * * *"),
		OutboxRelayBatchSize: intVariable("OUTBOX_RELAY_BATCH_SIZE", 200),
		OutboxLease:          durationVariable("OUTBOX_LEASE", 30*time.Second),
	}
	return config
}

func goDotEnvVariable(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intVariable(key string, fallback int) int {
	raw := goDotEnvVariable(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &slajobrepo.SlaJobDTO{}, &outboxrepo.OutboxEventDTO{})
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	e := echo.New()
	httpin.RegisterHandlers(e, app.CreateHTTPServer())

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
