package session

import "context"

// Repository defines credential storage for onboarded shops.
type Repository interface {
	Get(ctx context.Context, shop string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, shop string) error
	AllShops(ctx context.Context) ([]string, error)
}
