package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkabroker "github.com/Egor213/ExceptionSieve/internal/broker/kafka"
	"github.com/Egor213/ExceptionSieve/internal/capture"
	"github.com/Egor213/ExceptionSieve/internal/config"
	grpcv1 "github.com/Egor213/ExceptionSieve/internal/controller/grpc/v1"
	httpv1 "github.com/Egor213/ExceptionSieve/internal/controller/http/v1"
	"github.com/Egor213/ExceptionSieve/internal/funnel"
	"github.com/Egor213/ExceptionSieve/internal/funnel/dedup"
	"github.com/Egor213/ExceptionSieve/internal/funnel/ignore"
	"github.com/Egor213/ExceptionSieve/internal/funnel/rule"
	"github.com/Egor213/ExceptionSieve/internal/llm"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/Egor213/ExceptionSieve/internal/notify"
	"github.com/Egor213/ExceptionSieve/internal/owner"
	"github.com/Egor213/ExceptionSieve/internal/repo"
	"github.com/Egor213/ExceptionSieve/internal/scheduler"
	"github.com/Egor213/ExceptionSieve/internal/service"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/Egor213/ExceptionSieve/pkg/grpcserver"
	"github.com/Egor213/ExceptionSieve/pkg/httpserver"
	"github.com/Egor213/ExceptionSieve/pkg/logger"
	"github.com/Egor213/ExceptionSieve/pkg/postgres"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	log "github.com/sirupsen/logrus"
)

func Run() {
	// Config
	cfg, err := config.New()
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}

	// Logger
	logger.SetupLogger(cfg.Log.Level)
	log.Info("Logger has been set up")

	// Migrations
	if err := Migrate(cfg.PG); err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}

	// DB connecting
	log.Info("Connecting to DB")
	pg, err := postgres.New(cfg.PG.URL,
		postgres.MaxPoolSize(cfg.PG.MaxPoolSize),
		postgres.MinPoolSize(cfg.PG.MinPoolSize),
		postgres.HealthCheckPeriod(cfg.PG.HealthCheckPeriod),
	)
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	defer pg.Close()
	log.Info("Connected to DB")

	// Repos
	repositories := repo.NewRepositories(pg)
	counters := metrics.New()
	owners := owner.NewResolver(cfg.Responsibility)

	// Notifiers
	notifier, dispatchers, closeNotifiers := buildNotifier(cfg, owners, counters)
	defer closeNotifiers()

	// Services
	deps := service.ServicesDependencies{
		Repos:     repositories,
		TxManager: pg.TrManager,
		Owners:    owners,
		Notifier:  notifier,
		Completer: llm.New(cfg.LLM),
		Counters:  counters,
		AIDenoise: cfg.AIDenoise,
		Ticket:    cfg.Ticket,
		Trend:     cfg.Trend,
	}
	services := service.NewServices(deps)

	// Funnel
	deduplicator := dedup.New(cfg.Dedup)
	rules := rule.NewEngine(cfg.RuleEngine.Enabled,
		rule.NewFrequencyLimit(cfg.RuleEngine.FrequencyLimit),
		rule.NewTimeWindow(cfg.RuleEngine.TimeWindow),
		rule.NewEnvironment(cfg.RuleEngine.EnvironmentRule),
	)
	collector := funnel.NewCollector(
		ignore.New(cfg.Ignore),
		deduplicator,
		rules,
		services.Processor,
		services.Denoise,
		counters,
	)
	async := funnel.NewAsyncCollector(collector, cfg.HTTP.MaxInFlight)

	deduplicator.Start()
	defer deduplicator.Stop()
	rules.Start()
	defer rules.Stop()
	services.Denoise.Start()
	defer services.Denoise.Stop()

	// Scheduler
	loc, err := time.LoadLocation(cfg.Trend.Timezone)
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	sched := scheduler.New(scheduler.WithLocation(loc), scheduler.WithJobTimeout(cfg.Trend.JobTimeout))
	if err := scheduler.RegisterJobs(sched, cfg.Trend, cfg.Ticket, services.Trends, services.Tickets); err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	sched.Start()

	// HTTP API server
	log.Infof("Starting HTTP server...")
	log.Debugf("Server port: %s", cfg.HTTP.Port)
	apiHandler := echo.New()
	apiHandler.HideBanner = true
	apiHandler.Use(echoprometheus.NewMiddleware("exception_sieve"))
	httpv1.ConfigureRouter(apiHandler, httpv1.RouterDependencies{
		Capturer:  capture.New(cfg.App.Name, cfg.App.Environment),
		Sink:      async,
		Collector: async,
		Stats:     collector,
		Trends:    services.Trends,
	})
	apiServer := httpserver.New(apiHandler,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	)

	// gRPC Server
	log.Infof("Starting gRPC server...")
	log.Debugf("Server port: %s", cfg.GRPC.Port)
	registerFun := grpcv1.RegisterServices(async, counters)
	grpcServer, err := grpcserver.New(registerFun, grpcserver.WithPort(cfg.GRPC.Port))
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}

	// Prometheus server
	log.Infof("Starting metrics server...")
	log.Debugf("Server port: %s", cfg.Prometheus.Port)
	metricsHandler := echo.New()
	metricsHandler.HideBanner = true
	metrics.ConfigureRouter(metricsHandler)
	metricsServer := httpserver.New(metricsHandler, httpserver.Port(cfg.Prometheus.Port))

	// Waiting signal
	log.Info("Configuring graceful shutdown")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app - Run - signal: " + s.String())
	case err := <-apiServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	case err := <-metricsServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	case err := <-grpcServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	}

	// Graceful shutdown
	log.Info("Shutting down...")
	if err := apiServer.Shutdown(); err != nil {
		log.Error(errorsUtils.WrapPathErr(err))
	}
	grpcServer.Shutdown()
	sched.Stop()

	log.Info("Draining in-flight exceptions...")
	async.Wait()
	for _, d := range dispatchers {
		d.Wait()
	}

	if err := metricsServer.Shutdown(); err != nil {
		log.Error(errorsUtils.WrapPathErr(err))
	}
}

// buildNotifier wraps every enabled channel into its own dispatcher so each
// is counted and timed out separately.
func buildNotifier(cfg *config.Config, owners *owner.Resolver, counters *metrics.Counters) (notify.Notifier, []*notify.Dispatcher, func()) {
	var (
		channels    notify.Multi
		dispatchers []*notify.Dispatcher
		closers     []func() error
	)
	if !cfg.Notification.Enabled {
		log.Info("Notifications are disabled")
		return channels, nil, func() {}
	}

	add := func(n notify.Notifier, channel string) {
		d := notify.NewDispatcher(n, channel, cfg.Notification.DispatchWait, counters)
		channels = append(channels, d)
		dispatchers = append(dispatchers, d)
	}

	if cfg.Notification.Webhook.Enabled {
		webhook := notify.NewWebhook(cfg.Notification.Webhook, owners)
		webhook.Start()
		closers = append(closers, func() error {
			webhook.Stop()
			return nil
		})
		add(webhook, "webhook")
	}

	if cfg.Kafka.Enabled {
		producer := kafkabroker.NewProducer(kafkabroker.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		closers = append(closers, producer.Close)
		add(notify.NewKafka(producer), "kafka")
	}

	return channels, dispatchers, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Error(errorsUtils.WrapPathErr(err))
			}
		}
	}
}
