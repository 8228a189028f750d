package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/farm_orders/config"
	cachemem "github.com/Gunvolt24/farm_orders/internal/cache/memory"
	"github.com/Gunvolt24/farm_orders/internal/catalog"
	"github.com/Gunvolt24/farm_orders/internal/catalog/xlsx"
	"github.com/Gunvolt24/farm_orders/internal/document"
	"github.com/Gunvolt24/farm_orders/internal/kafka"
	"github.com/Gunvolt24/farm_orders/internal/mail"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"github.com/Gunvolt24/farm_orders/internal/repo/postgres"
	rest "github.com/Gunvolt24/farm_orders/internal/transport/http"
	"github.com/Gunvolt24/farm_orders/internal/usecase"
	"github.com/Gunvolt24/farm_orders/pkg/logger"
	"github.com/Gunvolt24/farm_orders/pkg/metrics"
	"github.com/Gunvolt24/farm_orders/pkg/telemetry"
	"github.com/Gunvolt24/farm_orders/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Источники каталога.
const (
	CatalogSourceXLSX     = "xlsx"
	CatalogSourcePostgres = "postgres"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	MetricsServer   *http.Server          // отдельный сервер /metrics (nil — только на основном)
	KafkaConsumer   ports.MessageConsumer // консьюмер заказов (nil — Kafka выключена)
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// farmClock — часы в часовом поясе фермы (дата в бланке и имени файла).
func farmClock(ctx context.Context, tz string, log ports.Logger) func() time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warnf(ctx, "unknown timezone %q, using local time: %v", tz, err)
		return time.Now
	}
	return func() time.Time { return time.Now().In(loc) }
}

// catalogLoader — выбор источника каталога; для postgres возвращает и пул.
func catalogLoader(ctx context.Context, cfg *config.Config) (ports.CatalogLoader, *pgxpool.Pool, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Catalog.Source)) {
	case "", CatalogSourceXLSX:
		return xlsx.NewLoader(cfg.Catalog.Path), nil, nil
	case CatalogSourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		if dir := cfg.Postgres.MigrationsDir; dir != "" {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN, dir); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return postgres.NewCatalogRepository(pool), pool, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q (want xlsx|postgres)", cfg.Catalog.Source)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Источник каталога (xlsx по умолчанию, либо таблица Postgres).
	loader, pool, err := catalogLoader(ctx, cfg)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Сборка зависимостей доменного слоя.
	images := catalog.ImageResolver{Root: cfg.Catalog.ImageDir, Fallback: cfg.Catalog.FallbackImage}
	catalogMemo := cachemem.NewCatalogMemo(loader, images.Resolve, logg)

	now := farmClock(ctx, cfg.Document.Timezone, logg)
	generator := document.NewGenerator(document.Options{
		Title:        cfg.Document.Title,
		Organization: cfg.Document.Organization,
		FontPath:     cfg.Document.FontPath,
		Compress:     cfg.Document.Compress,
	}, now)
	documentCache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL)

	mailer := mail.NewSMTPGateway(mail.Config{
		Host:    cfg.Mail.Host,
		Port:    cfg.Mail.Port,
		Address: cfg.Mail.Address,
		Passkey: cfg.Mail.Passkey,
		Timeout: cfg.Mail.Timeout,
	}, logg)
	if !mailer.Configured() {
		logg.Warnf(ctx, "mail sender is not configured, e-mail delivery will fail")
	}
	defaultReceiver := strings.TrimSpace(cfg.Mail.Receiver)
	if defaultReceiver == "" {
		defaultReceiver = mailer.SenderAddress()
	}

	orderService := usecase.NewOrderService(
		catalogMemo, generator, documentCache, mailer, validate.NewRequestValidator(), logg,
		usecase.Options{DefaultReceiver: defaultReceiver, Now: now},
	)

	// Прогрев каталога: ошибки источника не фатальны для старта, запросы получат 503.
	if _, err := catalogMemo.Catalog(ctx); err != nil {
		logg.Warnf(ctx, "catalog warm-up failed: %s", catalog.UserMessage(err))
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(orderService, logg, cfg.HTTP.HandlerTimeout,
		rest.WithAdminPassword(cfg.Admin.Password),
		rest.WithContact(rest.Contact{
			Organization: cfg.Document.Organization,
			Address:      cfg.Contact.Address,
			Email:        cfg.Contact.Email,
		}),
	)
	router := rest.NewRouter(httpHandler, cfg.HTTP.StaticDir, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Отдельный порт для /metrics, если он задан и не совпадает с основным.
	var metricsSrv *http.Server
	if addr := cfg.Metrics.Addr; addr != "" && addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout}
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Консьюмер Kafka (приём заказов из очереди) — только если включён.
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		consumer = kafka.NewConsumer(&kafkaCfg, orderService, logg)
		app.KafkaConsumer = consumer
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}
		if pool != nil {
			pool.Close()
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск HTTP-серверов.
	for _, srv := range []*http.Server{a.HTTPServer, a.MetricsServer} {
		if srv == nil {
			continue
		}
		go func(srv *http.Server) {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-серверов.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range []*http.Server{a.HTTPServer, a.MetricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server %s shutdown failed: %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server %s stopped gracefully", srv.Addr)
		}
	}

	// Остановка Kafka-консьюмера
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
