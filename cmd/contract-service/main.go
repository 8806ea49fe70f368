package main

import (
	"context"
	"os"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/api"
	"github.com/Yasin777-6/Avourist-v1/internal/domain/generation"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/blobstore"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/delivery"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/registry"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/tracing"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/verification"

	"github.com/go-redis/redis/v7"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// Инициализируем логгер
	logLevel := getEnvWithDefault("LOG_LEVEL", "info")
	if err := logger.Init(logLevel); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Log.Sync()

	// Инициализируем трейсинг
	shutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:    getEnvWithDefault("OTEL_SERVICE_NAME", "contract-service"),
		ServiceVersion: os.Getenv("VERSION"),
		Environment:    getEnvWithDefault("OTEL_ENVIRONMENT", "production"),
		CollectorURL:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", logger.Field("error", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown tracer", logger.Field("error", err))
		}
	}()

	// Реестр клиентов и договоров: Postgres, если задан, иначе в памяти
	var reg generation.Registry
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		pg, err := registry.NewPostgresRegistry(
			host,
			getEnvWithDefault("POSTGRES_PORT", "5432"),
			getEnvWithDefault("POSTGRES_DB", "avtourist"),
			getEnvWithDefault("POSTGRES_USER", "postgres"),
			os.Getenv("POSTGRES_PASSWORD"),
		)
		if err != nil {
			logger.Fatal("Failed to connect to Postgres", logger.Field("error", err))
		}
		defer pg.Close()
		reg = pg
		logger.Info("Postgres registry connected", logger.Field("host", host))
	} else {
		reg = registry.NewMemoryRegistry()
		logger.Info("Using in-memory registry")
	}

	// Хранилище кодов подтверждения: Redis, если задан, иначе в памяти
	var codeStore verification.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := client.Ping().Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", logger.Field("error", err))
		}
		codeStore = verification.NewRedisStore(client)
		logger.Info("Redis code store connected", logger.Field("addr", addr))
	} else {
		codeStore = verification.NewMemoryStore()
		logger.Info("Using in-memory code store")
	}

	// Хранилище сгенерированных документов: MinIO, если задан, иначе диск
	var store generation.BlobStore
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		minioStore, err := blobstore.NewMinioStore(ctx, blobstore.MinioConfig{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnvWithDefault("MINIO_BUCKET", "contracts"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		})
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to MinIO", logger.Field("error", err))
		}
		store = minioStore
		logger.Info("MinIO blob store connected", logger.Field("endpoint", endpoint))
	} else {
		dir := getEnvWithDefault("DOCUMENTS_DIR", "data/documents")
		fsStore, err := blobstore.NewFSStore(dir)
		if err != nil {
			logger.Fatal("Failed to create documents dir", logger.Field("error", err))
		}
		store = fsStore
		logger.Info("Using filesystem blob store", logger.Field("dir", dir))
	}

	// Доставка договоров в чат клиента, только если задан токен бота
	var sender delivery.Sender
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		bot, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			logger.Fatal("Failed to create Telegram bot", logger.Field("error", err))
		}
		sender = delivery.NewTelegramSender(bot)
		logger.Info("Telegram delivery enabled", logger.Field("bot", bot.Self.UserName))
	} else {
		logger.Info("Telegram delivery disabled, no bot token")
	}

	// Собираем сервис генерации
	service := generation.NewService(generation.Config{
		Registry:     reg,
		TemplatesDir: getEnvWithDefault("TEMPLATES_DIR", "templates/contracts"),
		WorkDir:      getEnvWithDefault("WORK_DIR", "data/work"),
		Store:        store,
		Verifier:     verification.New(codeStore),
		Sender:       sender,
		GotenbergURL: os.Getenv("GOTENBERG_API_URL"),
	})
	logger.Info("Contract service created")

	// Создаем и настраиваем сервер
	handlers := api.NewHandlers(service)
	server := api.NewServer(handlers)
	server.SetupRoutes()
	logger.Info("Server configured and routes set up")

	addr := getEnvWithDefault("LISTEN_ADDR", ":8080")
	logger.Info("Starting server", logger.Field("address", addr))
	if err := server.Start(addr); err != nil {
		logger.Fatal("Failed to start server", logger.Field("error", err))
	}
}

func getEnvWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
