// Package history persists the ledger of already-published product IDs so
// the same deal is never posted twice across runs.
package history

// Store is the post history ledger
type Store interface {
	// Contains reports whether the product was already published
	Contains(productID string) bool

	// Record marks a product as published
	Record(productID string)

	// Save persists any recorded products
	Save() error

	// Close releases resources held by the store
	Close() error
}
