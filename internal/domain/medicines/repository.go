package medicines

import "context"

// Repository es el record store remoto. ListByOwner ordena por created_at desc.
type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medicine, error)
}
