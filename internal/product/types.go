package product

import "time"

// Product represents a discounted product found through the search API
type Product struct {
	ASIN            string  `json:"asin"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	ImageURL        string  `json:"image_url,omitempty"`
	CurrentPrice    float64 `json:"current_price"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountPercent float64 `json:"discount_percent"`
	Category        string  `json:"category,omitempty"`
	Keyword         string  `json:"keyword,omitempty"`
}

// SearchItem is one configured keyword/category pair
type SearchItem struct {
	Keyword  string `json:"keyword,omitempty"`
	Category string `json:"category"`
}

// SearchConfig is the content of the search configuration file
type SearchConfig struct {
	MinDiscountPercent float64      `json:"min_discount_percent"`
	SearchItems        []SearchItem `json:"search_items"`
}

// PostRecord marks a product as already published
type PostRecord struct {
	ProductID string    `json:"product_id"`
	PostedAt  time.Time `json:"posted_at"`
}
