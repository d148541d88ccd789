package search

// Request and response shapes for the PA-API v5 JSON protocol. Only the
// fields this client reads are modeled.

type searchRequest struct {
	Keywords     string   `json:"Keywords,omitempty"`
	Resources    []string `json:"Resources"`
	PartnerTag   string   `json:"PartnerTag"`
	PartnerType  string   `json:"PartnerType"`
	Marketplace  string   `json:"Marketplace"`
	SearchIndex  string   `json:"SearchIndex,omitempty"`
	ItemCount    int      `json:"ItemCount,omitempty"`
	Availability string   `json:"Availability,omitempty"`
	SortBy       string   `json:"SortBy,omitempty"`
}

type getItemsRequest struct {
	ItemIds     []string `json:"ItemIds"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type apiError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type displayValue struct {
	DisplayValue string `json:"DisplayValue"`
}

type itemInfo struct {
	Title *displayValue `json:"Title"`
}

type priceAmount struct {
	Amount   float64 `json:"Amount"`
	Currency string  `json:"Currency"`
}

type listing struct {
	Price     *priceAmount `json:"Price"`
	SavePrice *priceAmount `json:"SavePrice"`
}

type offers struct {
	Listings []listing `json:"Listings"`
}

type imageRef struct {
	URL string `json:"URL"`
}

type primaryImages struct {
	Small  *imageRef `json:"Small"`
	Medium *imageRef `json:"Medium"`
}

type images struct {
	Primary *primaryImages `json:"Primary"`
}

type apiItem struct {
	ASIN          string    `json:"ASIN"`
	DetailPageURL string    `json:"DetailPageURL"`
	ItemInfo      *itemInfo `json:"ItemInfo"`
	Offers        *offers   `json:"Offers"`
	Images        *images   `json:"Images"`
}

type searchResponse struct {
	SearchResult *struct {
		Items []apiItem `json:"Items"`
	} `json:"SearchResult"`
	Errors []apiError `json:"Errors"`
}

type getItemsResponse struct {
	ItemsResult *struct {
		Items []apiItem `json:"Items"`
	} `json:"ItemsResult"`
	Errors []apiError `json:"Errors"`
}
