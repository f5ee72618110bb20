package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pet-health-chat/internal/domain/pets"
)

func newRepo(t *testing.T) *PetsRepo {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "pets.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPetsRepo(db)
}

func TestPetsRepo_RoundTripWithHistory(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	p := pets.Pet{
		ID: "p1", OwnerUserID: "u1", Name: "Firulais", Species: pets.SpeciesDog,
		Age: 3, Weight: 12.5, MedicalHistory: []pets.MedicalRecord{},
		CreatedAt: t0, UpdatedAt: t0,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	p.MedicalHistory = append(p.MedicalHistory, pets.MedicalRecord{
		ID: "r1", Date: t0.Add(-24 * time.Hour), Symptoms: "tos", Diagnosis: "resfrío", CreatedAt: t0,
	})
	p.UpdatedAt = t0.Add(time.Millisecond)
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Firulais" || got.Weight != 12.5 || got.OwnerUserID != "u1" {
		t.Fatalf("unexpected pet: %+v", got)
	}
	if len(got.MedicalHistory) != 1 || got.MedicalHistory[0].Symptoms != "tos" {
		t.Fatalf("unexpected history: %+v", got.MedicalHistory)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) || !got.CreatedAt.Equal(t0) {
		t.Fatalf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPetsRepo_NotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, pets.Pet{ID: "missing"}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestPetsRepo_ListByOwnerNewestFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		ts := t0.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(ctx, pets.Pet{ID: id, OwnerUserID: "u1", Name: id, Species: pets.SpeciesCat, CreatedAt: ts, UpdatedAt: ts}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.Create(ctx, pets.Pet{ID: "x", OwnerUserID: "u2", Name: "x", Species: pets.SpeciesCat, CreatedAt: t0, UpdatedAt: t0}); err != nil {
		t.Fatalf("create x: %v", err)
	}

	got, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != "c" || got[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].MedicalHistory == nil {
		t.Fatalf("history should be empty, not nil")
	}

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = repo.ListByOwner(ctx, "u1")
	if len(got) != 2 {
		t.Fatalf("expected 2 after delete, got %d", len(got))
	}
}
