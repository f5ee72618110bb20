package pets

import "context"

// Repository es el puerto de persistencia. Las implementaciones devuelven
// ErrNotFound (envuelto o no) cuando el id no existe.
// Update reescribe el documento completo, historial incluido (una sola escritura).
type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
	Delete(ctx context.Context, id string) error
}
