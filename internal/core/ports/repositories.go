package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks
//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import "context"

// TokenStore is the persisted key-value slot holding the raw bearer token
// between runs. It is read once at startup, written on login and cleared on
// logout or on a 401.
type TokenStore interface {
	// Load returns the stored token, or "" when the slot is empty.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	// Remove empties the slot. Removing an empty slot is not an error.
	Remove(ctx context.Context) error
}
