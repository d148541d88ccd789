package publisher

import "context"

// Post is the content pushed to a social platform
type Post struct {
	// Text is the full post body
	Text string

	// Title is the product title inside Text; platforms with a length
	// ceiling shorten the title portion rather than the prices and URL
	Title string

	// ImageURL optionally attaches an image
	ImageURL string
}

// Result identifies a successful publish
type Result struct {
	Platform string
	PostID   string
}

// Publisher represents a social platform that can publish a post
type Publisher interface {
	// Platform returns the platform name for logging and metrics
	Platform() string

	// Publish posts the content and returns the platform post ID
	Publish(ctx context.Context, post Post) (Result, error)

	// Close releases resources held by the publisher
	Close() error
}
