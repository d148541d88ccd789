// Package search implements the PA-API v5 product search client. A search
// runs in two phases like the upstream API expects: SearchItems to find
// candidate ASINs for a keyword/category pair, then GetItems per ASIN to
// resolve the price and savings detail needed for discount evaluation.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"discountfinder/helpers"
	"discountfinder/internal/product"
	"discountfinder/logger"
	apperrors "discountfinder/pkg/errors"
	"discountfinder/services/cache"
)

const (
	searchItemsPath = "/paapi5/searchitems"
	getItemsPath    = "/paapi5/getitems"

	// Keywords used when a search item configures only a category
	defaultKeywords = "セール OR 特価"

	// Number of detail responses cached per run
	detailCacheSize = 256
)

// ClientConfig holds the settings for a PA-API client
type ClientConfig struct {
	AccessKey   string
	SecretKey   string
	PartnerTag  string
	Marketplace string
	Region      string

	// BaseURL of the PA-API endpoint, e.g. "https://webservices.amazon.co.jp"
	BaseURL string

	// ItemCount is the maximum number of search results per item
	ItemCount int

	// DetailDelay is the pause between GetItems calls
	DetailDelay time.Duration

	// CacheKey and BlockTime control the rate limit back-off cache
	CacheKey  string
	BlockTime time.Duration
}

// Client queries the PA-API for discounted products
type Client struct {
	cfg         ClientConfig
	host        string
	cacheSvc    cache.CacheService
	detailCache *lru.Cache[string, apiItem]
	now         func() time.Time
	log         *logger.Logger
}

// NewClient creates a new PA-API client. cacheSvc may be nil, which disables
// rate limit back-off between runs.
func NewClient(cfg ClientConfig, cacheSvc cache.CacheService) (*Client, error) {
	if cfg.ItemCount <= 0 {
		cfg.ItemCount = 10
	}
	if cfg.CacheKey == "" {
		cfg.CacheKey = "paapi_rate_limited"
	}
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = 10 * time.Minute
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" {
		return nil, apperrors.NewConfiguration("invalid PA-API base URL: "+cfg.BaseURL, err)
	}

	detailCache, err := lru.New[string, apiItem](detailCacheSize)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:         cfg,
		host:        u.Host,
		cacheSvc:    cacheSvc,
		detailCache: detailCache,
		now:         time.Now,
		log:         logger.ForSearcher(),
	}, nil
}

// Search runs a SearchItems query for one configured item and resolves price
// detail for every hit. Items without usable price data are returned with a
// zero original price so the evaluator can reject them. An empty result set
// is not an error.
func (c *Client) Search(ctx context.Context, item product.SearchItem) ([]product.Product, error) {
	if err := c.checkRateLimitBlock(); err != nil {
		return nil, err
	}

	keywords := item.Keyword
	if keywords == "" {
		keywords = defaultKeywords
	}

	payload := searchRequest{
		Keywords: keywords,
		Resources: []string{
			"ItemInfo.Title",
			"ItemInfo.ByLineInfo",
			"Offers.Listings.Price",
			"Images.Primary.Small",
		},
		PartnerTag:   c.cfg.PartnerTag,
		PartnerType:  "Associates",
		Marketplace:  c.cfg.Marketplace,
		SearchIndex:  item.Category,
		ItemCount:    c.cfg.ItemCount,
		Availability: "Available",
		SortBy:       "Price:LowToHigh",
	}

	body, err := c.post(ctx, searchItemsPath, "SearchItems", payload)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewSearch("searchitems", "failed to decode response", err)
	}
	if len(resp.Errors) > 0 {
		return nil, apperrors.NewSearch("searchitems", apiErrorMessage(resp.Errors), nil)
	}
	if resp.SearchResult == nil || len(resp.SearchResult.Items) == 0 {
		return nil, nil
	}

	products := make([]product.Product, 0, len(resp.SearchResult.Items))
	for i, hit := range resp.SearchResult.Items {
		if i > 0 {
			if err := sleepCtx(ctx, c.cfg.DetailDelay); err != nil {
				return products, err
			}
		}

		detail, err := c.getItem(ctx, hit.ASIN)
		if err != nil {
			c.log.Debug().
				Str("asin", hit.ASIN).
				Err(err).
				Msg("Skipping item without detail")
			continue
		}

		products = append(products, c.buildProduct(detail, item))
	}

	return products, nil
}

// getItem fetches price detail for a single ASIN, serving repeats from the
// per-run cache. The same ASIN often shows up under several search items.
func (c *Client) getItem(ctx context.Context, asin string) (apiItem, error) {
	if cached, ok := c.detailCache.Get(asin); ok {
		return cached, nil
	}

	payload := getItemsRequest{
		ItemIds: []string{asin},
		Resources: []string{
			"ItemInfo.Title",
			"Offers.Listings.Price",
			"Offers.Listings.SavePrice",
			"Images.Primary.Medium",
		},
		PartnerTag:  c.cfg.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.cfg.Marketplace,
	}

	body, err := c.post(ctx, getItemsPath, "GetItems", payload)
	if err != nil {
		return apiItem{}, err
	}

	var resp getItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apiItem{}, apperrors.NewSearch("getitems", "failed to decode response", err)
	}
	if len(resp.Errors) > 0 {
		return apiItem{}, apperrors.NewSearch("getitems", apiErrorMessage(resp.Errors), nil)
	}
	if resp.ItemsResult == nil || len(resp.ItemsResult.Items) == 0 {
		return apiItem{}, apperrors.NewSearch("getitems", "no item found for ASIN "+asin, nil)
	}

	item := resp.ItemsResult.Items[0]
	c.detailCache.Add(asin, item)
	return item, nil
}

// buildProduct maps an API item onto the internal product model. The
// original price is reconstructed from the current price plus the savings;
// when the savings are unknown the original price stays zero and the
// evaluator drops the product.
func (c *Client) buildProduct(item apiItem, searchItem product.SearchItem) product.Product {
	p := product.Product{
		ASIN:     item.ASIN,
		URL:      item.DetailPageURL,
		Category: searchItem.Category,
		Keyword:  searchItem.Keyword,
	}

	if item.ItemInfo != nil && item.ItemInfo.Title != nil {
		p.Title = item.ItemInfo.Title.DisplayValue
	}
	if p.URL == "" {
		p.URL = fmt.Sprintf("https://%s/dp/%s?tag=%s", c.cfg.Marketplace, item.ASIN, c.cfg.PartnerTag)
	}
	if item.Images != nil && item.Images.Primary != nil && item.Images.Primary.Medium != nil {
		p.ImageURL = item.Images.Primary.Medium.URL
	}

	if item.Offers != nil && len(item.Offers.Listings) > 0 {
		listing := item.Offers.Listings[0]
		if listing.Price != nil {
			p.CurrentPrice = listing.Price.Amount
		}
		if listing.Price != nil && listing.SavePrice != nil && listing.SavePrice.Amount > 0 {
			p.OriginalPrice = listing.Price.Amount + listing.SavePrice.Amount
		}
	}

	return p
}

// post signs and sends one PA-API request. A rate limit answer arms the
// back-off cache so the rest of the run short-circuits.
func (c *Client) post(ctx context.Context, path, target string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewSearch(target, "failed to marshal request", err)
	}

	headers := signHeaders(
		c.cfg.AccessKey, c.cfg.SecretKey,
		c.host, path, c.cfg.Region, target,
		data, c.now(),
	)

	body, err := helpers.PostJSON(ctx, c.cfg.BaseURL+path, headers, data)
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) {
			c.armRateLimitBlock()
			return nil, apperrors.NewRateLimit(target, c.cfg.BlockTime)
		}
		return nil, apperrors.NewSearch(target, "request failed", err)
	}
	return body, nil
}

// checkRateLimitBlock returns an error while the back-off window is active
func (c *Client) checkRateLimitBlock() error {
	if c.cacheSvc == nil {
		return nil
	}
	if _, err := c.cacheSvc.Get(c.cfg.CacheKey); err == nil {
		return apperrors.NewRateLimit("paapi", c.cfg.BlockTime)
	}
	return nil
}

func (c *Client) armRateLimitBlock() {
	if c.cacheSvc == nil {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(c.cfg.BlockTime.Seconds())))
	if err := c.cacheSvc.Set(c.cfg.CacheKey, value, c.cfg.BlockTime); err != nil {
		c.log.Warn().Err(err).Msg("Failed to arm rate limit block")
	}
}

func apiErrorMessage(errs []apiError) string {
	if len(errs) == 0 {
		return "unknown API error"
	}
	return fmt.Sprintf("API error %s: %s", errs[0].Code, errs[0].Message)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
