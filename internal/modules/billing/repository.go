package billing

import "context"

// Repository defines subscription storage, keyed by shop domain.
type Repository interface {
	GetByShop(ctx context.Context, shop string) (*Subscription, error)
	Save(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, shop string) error
}
