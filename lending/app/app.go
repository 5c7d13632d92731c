package app

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/Astemirdum/library-lending/lending/internal/events"
	"github.com/Astemirdum/library-lending/lending/internal/handler"
	"github.com/Astemirdum/library-lending/lending/internal/metrics"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/lending/internal/server"
	"github.com/Astemirdum/library-lending/lending/internal/service"
	"github.com/Astemirdum/library-lending/lending/migrations"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Run serves the lending API until SIGINT/SIGTERM or a server failure.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "lending")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := newRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	publisher, closePublisher, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := service.NewService(repo, log,
		service.WithPolicy(cfg.Policy),
		service.WithPublisher(publisher),
		service.WithMetrics(m),
	)

	h := handler.New(svc, log, m.Handler())
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err = g.Wait(); err != nil {
		log.Error("server", zap.Error(err))
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// Migrate applies the schema migrations and exits.
func Migrate(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "lending")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "migrate")
	}
	db.Close()
	log.Info("migrations applied")
	return nil
}

func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		repo := repository.NewMemoryRepository(log)
		if cfg.MemorySeed != "" {
			if err := repo.LoadSeed(cfg.MemorySeed); err != nil {
				return nil, nil, err
			}
		}
		log.Warn("using in-memory store, state is lost on exit")
		return repo, func() {}, nil
	}

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return nil, nil, errors.Wrap(err, "db init")
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "repo")
	}
	return repo, db.Close, nil
}

func newPublisher(cfg kafka.Config, log *zap.Logger) (events.Publisher, func(), error) {
	if !cfg.Enabled() {
		log.Info("kafka brokers not configured, lending events are not published")
		return events.NewNopPublisher(), func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "kafka.NewProducer")
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			log.Warn("producer close", zap.Error(err))
		}
	}
	return events.NewKafkaPublisher(producer, kafka.LendingTopic, log), closeFn, nil
}
