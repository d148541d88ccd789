package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"discountfinder/internal/product"
	apperrors "discountfinder/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// PA-API configuration
	PAAPIKey        string
	PAAPISecret     string
	PartnerTag      string
	Marketplace     string
	PAAPIHost       string
	Region          string
	SearchItemCount int
	DetailDelay     time.Duration

	// X/Twitter API configuration
	TwitterConsumerKey    string
	TwitterConsumerSecret string
	TwitterAccessToken    string
	TwitterAccessSecret   string

	// Threads API configuration
	ThreadsAccessToken string
	ThreadsUserID      string

	// Files
	SearchConfigFile string
	ErrorLogFile     string

	// Post history configuration
	HistoryFile    string
	HistoryBackend string
	HistoryLimit   int
	RedisAddr      string
	RedisDB        int
	RedisKeyPrefix string

	// Memcache configuration (empty address disables the cache)
	MemcacheAddr string

	// Posting configuration
	MinDiscountPercent float64
	PostLimit          int
	PostDelay          time.Duration
	DryRun             bool

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	itemCount, _ := strconv.Atoi(getEnv("SEARCH_ITEM_COUNT", "10"))
	detailDelay, _ := strconv.Atoi(getEnv("DETAIL_DELAY_MS", "1000"))
	postDelay, _ := strconv.Atoi(getEnv("POST_DELAY_MS", "5000"))
	postLimit, _ := strconv.Atoi(getEnv("POST_LIMIT", "5"))
	historyLimit, _ := strconv.Atoi(getEnv("HISTORY_LIMIT", "100"))
	minDiscount, _ := strconv.ParseFloat(getEnv("MIN_DISCOUNT_PERCENT", "20"), 64)

	return &Config{
		PAAPIKey:        os.Getenv("PA_API_KEY"),
		PAAPISecret:     os.Getenv("PA_API_SECRET"),
		PartnerTag:      os.Getenv("PARTNER_TAG"),
		Marketplace:     getEnv("MARKETPLACE", "www.amazon.co.jp"),
		PAAPIHost:       getEnv("PAAPI_HOST", "webservices.amazon.co.jp"),
		Region:          getEnv("PAAPI_REGION", "us-west-2"),
		SearchItemCount: itemCount,
		DetailDelay:     time.Duration(detailDelay) * time.Millisecond,

		TwitterConsumerKey:    os.Getenv("TWITTER_CONSUMER_KEY"),
		TwitterConsumerSecret: os.Getenv("TWITTER_CONSUMER_SECRET"),
		TwitterAccessToken:    os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret:   os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),

		ThreadsAccessToken: os.Getenv("THREADS_ACCESS_TOKEN"),
		ThreadsUserID:      os.Getenv("THREADS_USER_ID"),

		SearchConfigFile: getEnv("SEARCH_CONFIG_FILE", "search_config.json"),
		ErrorLogFile:     getEnv("ERROR_LOG_FILE", "discount_finder.log"),

		HistoryFile:    getEnv("HISTORY_FILE", "discount_results.json"),
		HistoryBackend: getEnv("HISTORY_BACKEND", "file"),
		HistoryLimit:   historyLimit,
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        redisDB,
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "discountfinder"),

		MemcacheAddr: os.Getenv("MEMCACHE_ADDR"),

		MinDiscountPercent: minDiscount,
		PostLimit:          postLimit,
		PostDelay:          time.Duration(postDelay) * time.Millisecond,
		DryRun:             getEnv("DRY_RUN", "false") == "true",

		Environment: getEnv("FINDER_ENVIRONMENT", "development"),
	}
}

// Validate checks that all mandatory credentials are present
func (c *Config) Validate() error {
	var missing []string
	if c.PAAPIKey == "" {
		missing = append(missing, "PA_API_KEY")
	}
	if c.PAAPISecret == "" {
		missing = append(missing, "PA_API_SECRET")
	}
	if c.PartnerTag == "" {
		missing = append(missing, "PARTNER_TAG")
	}
	if len(missing) > 0 {
		return apperrors.NewConfiguration("missing required environment variables: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// TwitterEnabled reports whether the full X/Twitter credential set is present
func (c *Config) TwitterEnabled() bool {
	return c.TwitterConsumerKey != "" &&
		c.TwitterConsumerSecret != "" &&
		c.TwitterAccessToken != "" &&
		c.TwitterAccessSecret != ""
}

// TwitterPartiallyConfigured reports whether some but not all X/Twitter
// credentials are set, which is almost certainly an operator mistake
func (c *Config) TwitterPartiallyConfigured() bool {
	any := c.TwitterConsumerKey != "" ||
		c.TwitterConsumerSecret != "" ||
		c.TwitterAccessToken != "" ||
		c.TwitterAccessSecret != ""
	return any && !c.TwitterEnabled()
}

// ThreadsEnabled reports whether the Threads credential set is present
func (c *Config) ThreadsEnabled() bool {
	return c.ThreadsAccessToken != "" && c.ThreadsUserID != ""
}

// DefaultSearchConfig returns the search configuration used when no
// configuration file exists yet
func DefaultSearchConfig() *product.SearchConfig {
	return &product.SearchConfig{
		MinDiscountPercent: 20,
		SearchItems: []product.SearchItem{
			{Category: "Electronics"},
			{Category: "Kitchen"},
			{Category: "VideoGames"},
			{Category: "Apparel"},
			{Category: "Beauty"},
		},
	}
}

// LoadSearchConfig reads the keyword/category list and minimum discount
// threshold from a JSON file. A missing file is replaced with the default
// configuration, which is also written back so operators can edit it.
func LoadSearchConfig(path string) (*product.SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultSearchConfig()
			if data, err := json.MarshalIndent(cfg, "", "  "); err == nil {
				_ = os.WriteFile(path, data, 0644)
			}
			return cfg, nil
		}
		return nil, apperrors.NewConfiguration("failed to read search config", err)
	}

	var cfg product.SearchConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewConfiguration("invalid search config", err)
	}
	if len(cfg.SearchItems) == 0 {
		return nil, apperrors.NewConfiguration("search config has no search items", nil)
	}
	return &cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
