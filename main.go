package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"discountfinder/config"
	"discountfinder/helpers"
	"discountfinder/internal/history"
	"discountfinder/internal/search"
	"discountfinder/logger"
	"discountfinder/services/cache"
	"discountfinder/services/publisher"
	"discountfinder/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	dryRun := flag.Bool("dry-run", false, "evaluate and log without posting")
	minDiscount := flag.Float64("min-discount", 0, "override the minimum discount percent")
	flag.Parse()

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	searchCfg, err := config.LoadSearchConfig(cfg.SearchConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid search configuration")
	}

	threshold := cfg.MinDiscountPercent
	if searchCfg.MinDiscountPercent > 0 {
		threshold = searchCfg.MinDiscountPercent
	}
	if *minDiscount > 0 {
		threshold = *minDiscount
	}

	log.Info().
		Str("environment", cfg.Environment).
		Float64("min_discount_percent", threshold).
		Int("search_items", len(searchCfg.SearchItems)).
		Bool("dry_run", cfg.DryRun || *dryRun).
		Msg("Starting discount finder run")

	// Stop cleanly on interrupt; the scheduler owns any hard timeout
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	w := worker.NewWorker(
		ctx,
		services.Searcher,
		services.Publishers,
		services.History,
		helpers.NewLogger(cfg.ErrorLogFile),
		searchCfg.SearchItems,
		worker.Options{
			MinDiscountPercent: threshold,
			PostLimit:          cfg.PostLimit,
			PostDelay:          cfg.PostDelay,
			DryRun:             cfg.DryRun || *dryRun,
		},
	)

	// Individual search and publish failures are logged inside the run and
	// never fail the process; only cancellation surfaces here
	if err := w.Run(); err != nil {
		log.Warn().Err(err).Msg("Run interrupted")
		return
	}

	log.Info().Msg("Run complete")
}

// Services holds all the initialized services
type Services struct {
	Cache      cache.CacheService
	History    history.Store
	Searcher   *search.Client
	Publishers []publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.History != nil {
		s.History.Close()
	}
	for _, p := range s.Publishers {
		p.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Rate limit cache is optional
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using Memcache at %s for rate limit back-off", cfg.MemcacheAddr)
	}

	// Post history store
	switch cfg.HistoryBackend {
	case "redis":
		services.History = history.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisKeyPrefix)
		logger.Info("Using Redis post history at %s (DB: %d, prefix: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisKeyPrefix)
	default:
		store, err := history.NewFileStore(cfg.HistoryFile, cfg.HistoryLimit)
		if err != nil {
			return nil, err
		}
		services.History = store
		logger.Info("Using post history file %s", cfg.HistoryFile)
	}

	// Product search client
	searcher, err := search.NewClient(search.ClientConfig{
		AccessKey:   cfg.PAAPIKey,
		SecretKey:   cfg.PAAPISecret,
		PartnerTag:  cfg.PartnerTag,
		Marketplace: cfg.Marketplace,
		Region:      cfg.Region,
		BaseURL:     "https://" + cfg.PAAPIHost,
		ItemCount:   cfg.SearchItemCount,
		DetailDelay: cfg.DetailDelay,
	}, services.Cache)
	if err != nil {
		return nil, err
	}
	services.Searcher = searcher

	// Social publishers are enabled per credential set
	if cfg.TwitterEnabled() {
		services.Publishers = append(services.Publishers, publisher.NewTwitterPublisher(
			cfg.TwitterConsumerKey,
			cfg.TwitterConsumerSecret,
			cfg.TwitterAccessToken,
			cfg.TwitterAccessSecret,
		))
		logger.Info("X/Twitter publisher enabled")
	} else if cfg.TwitterPartiallyConfigured() {
		logger.Warn("X/Twitter credentials are incomplete; publisher disabled")
	}

	if cfg.ThreadsEnabled() {
		services.Publishers = append(services.Publishers, publisher.NewThreadsPublisher(
			cfg.ThreadsAccessToken,
			cfg.ThreadsUserID,
		))
		logger.Info("Threads publisher enabled")
	}

	if len(services.Publishers) == 0 {
		logger.Warn("No social publishers configured; run will only evaluate deals")
	}

	return services, nil
}
