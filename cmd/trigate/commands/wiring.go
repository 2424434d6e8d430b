package commands

import (
	"fmt"

	"github.com/haoyuan-z/trigate/internal/gates"
	"github.com/haoyuan-z/trigate/internal/integrator"
	"github.com/haoyuan-z/trigate/internal/pipeline"
	"github.com/haoyuan-z/trigate/internal/provider"
	"github.com/haoyuan-z/trigate/internal/store"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/internal/universe"
	"github.com/haoyuan-z/trigate/pkg/config"
	"github.com/haoyuan-z/trigate/pkg/database"
	"github.com/haoyuan-z/trigate/pkg/httputil"
	"github.com/haoyuan-z/trigate/pkg/logger"
	"github.com/haoyuan-z/trigate/pkg/redis"
)

// app holds the wired components shared by the CLI commands
type app struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	logger   *logger.Logger

	rdb    *redis.Client
	db     *database.DB
	repo   *store.Repository
	runner *pipeline.Runner
}

// initApp wires the full scan pipeline. The database is optional: when
// DATABASE_URL is unset the repository stays nil and persistence is
// skipped.
func initApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if strategyFile != "" {
		cfg.StrategyPath = strategyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load strategy parameters
	strategy, err := strategyconfig.LoadOrDefault(cfg.StrategyPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.StrategyPath).
			Warn("Strategy file not usable, running with defaults")
	}

	// 4. Connect to Redis (no-op client when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(rdb, "trigate")
	limiter := redis.NewRateLimiter(rdb, "ratelimit")

	// 5. Create provider clients
	quoteClient := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.EastmoneyRateLimit)
	newsClient := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.SinaRateLimit)

	prov := provider.NewEastmoney(cfg, quoteClient, cache, log)
	news := provider.NewNewsFetcher(cfg, newsClient, cache, log)
	sentiment := provider.NewHeadlineSentiment(news, log)

	// 6. Create gates and integrator
	fundamentalGate := gates.NewFundamentalGate(strategy, log)
	growthValueGate := gates.NewGrowthValueGate(strategy, log)
	timingGate := gates.NewTimingGate(strategy, sentiment, log)
	integ := integrator.New(strategy, log)

	// 7. Create universe builder and runner
	builder := universe.NewBuilder(prov, strategy, log)
	runner := pipeline.NewRunner(prov, builder, fundamentalGate, growthValueGate, timingGate, integ, strategy, log)

	a := &app{
		cfg:      cfg,
		strategy: strategy,
		logger:   log,
		rdb:      rdb,
		runner:   runner,
	}

	// 8. Connect to database when configured
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.repo = store.NewRepository(db.Pool)
	}

	return a, nil
}

// close releases the app's connections
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
}
