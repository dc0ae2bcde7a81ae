package cli

import (
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/logging"
	"github.com/example/vocabsrs/internal/metrics"
	"github.com/example/vocabsrs/internal/report"
	srs "github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/internal/study"
)

// app holds the components shared by commands that touch the database
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	db       *sqlx.DB
	words    *database.WordRepository
	progress *database.UserProgressRepository
	users    *database.UserRepository
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	srs      *srs.Scheduler
	study    *study.Service
	reports  *report.Builder
}

func loadConfig(opts *rootOptions, stderr io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := logging.New(stderr, level, cfg.LogPretty)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func newApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg, logger, err := loadConfig(opts, stderr)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database())
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("driver", db.DriverName()).Msg("database connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		words:    database.NewWordRepository(db),
		progress: database.NewUserProgressRepository(db),
		users:    database.NewUserRepository(db),
		registry: registry,
		metrics:  metrics.New(registry),
	}
	a.srs = srs.NewScheduler(a.words, a.progress,
		srs.WithLogger(logger),
		srs.WithRealtimeDecay(cfg.RealtimeDecay))
	a.study = study.NewService(a.srs, a.words, a.progress, a.metrics, logger)
	a.reports = report.NewBuilder(a.words, a.progress)
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
