package auth

import "context"

// APIKeyInfo holds the identity and permission data for a validated API key.
// UserID is the customer the key acts for; cart and checkout operations key
// all aggregates off it.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	Name    string
	UserID  string
	Scopes  []string
}

// Repository provides lookup of API keys by their HMAC-SHA256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
