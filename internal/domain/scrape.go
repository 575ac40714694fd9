package domain

// ProductScrapeRequest is the input for the product scraping endpoint.
type ProductScrapeRequest struct {
	URL string `json:"url"`
}

// ProductData holds the scraped product description and optional title.
type ProductData struct {
	Description string  `json:"description"`
	Title       *string `json:"title"`
}

// ProductScrapeResponse is the HTTP envelope for the scraping endpoint.
type ProductScrapeResponse struct {
	Success  bool           `json:"success"`
	Data     ProductData    `json:"data"`
	Metadata map[string]any `json:"metadata"`
}
