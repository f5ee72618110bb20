package firebase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pet-health-chat/internal/adapters/storage/doc"
	"pet-health-chat/internal/domain/pets"
)

const petsPath = "pets"

// PetsRepo guarda cada mascota como documento en /pets/{id}, historial embebido.
// Las queries por owner requieren ".indexOn": ["ownerId"] en las reglas.
type PetsRepo struct {
	tree Tree
}

func NewPetsRepo(tree Tree) *PetsRepo {
	return &PetsRepo{tree: tree}
}

func petPath(id string) string {
	return petsPath + "/" + id
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	if err := r.tree.Set(ctx, petPath(p.ID), doc.FromPet(p)); err != nil {
		return fmt.Errorf("firebase: create pet: %w", err)
	}
	return nil
}

// Update no es transaccional: el Service ya serializa los read-modify-write.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	if _, err := r.GetByID(ctx, p.ID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, petPath(p.ID), doc.FromPet(p)); err != nil {
		return fmt.Errorf("firebase: update pet: %w", err)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/.#$[]") {
		return pets.Pet{}, fmt.Errorf("firebase: %w", pets.ErrNotFound)
	}

	// Un path inexistente decodifica null: d queda en cero.
	var d doc.Pet
	if err := r.tree.Get(ctx, petPath(id), &d); err != nil {
		return pets.Pet{}, fmt.Errorf("firebase: get pet: %w", err)
	}
	if d.OwnerID == "" && d.Name == "" {
		return pets.Pet{}, fmt.Errorf("firebase: %w", pets.ErrNotFound)
	}
	return doc.ToPet(id, d), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []pets.Pet{}, nil
	}

	var docs map[string]doc.Pet
	if err := r.tree.EqualTo(ctx, petsPath, "ownerId", ownerUserID, &docs); err != nil {
		return nil, fmt.Errorf("firebase: list pets: %w", err)
	}

	out := make([]pets.Pet, 0, len(docs))
	for key, d := range docs {
		out = append(out, doc.ToPet(key, d))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, petPath(id)); err != nil {
		return fmt.Errorf("firebase: delete pet: %w", err)
	}
	return nil
}
