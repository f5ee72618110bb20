package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"pet-health-chat/internal/domain/pets"
)

// Requiere una base real: PG_TEST_DSN=postgres://... go test ./internal/adapters/storage/postgres
func newRepo(t *testing.T) *PetsRepo {
	t.Helper()
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return NewPetsRepo(db)
}

func TestPetsRepo_RoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	owner := "owner-" + uuid.NewString()
	t0 := time.Now().UTC().Truncate(time.Millisecond)

	p := pets.Pet{
		ID: uuid.NewString(), OwnerUserID: owner, Name: "Milo", Species: pets.SpeciesDog,
		Age: 3, Weight: 10, MedicalHistory: []pets.MedicalRecord{}, CreatedAt: t0, UpdatedAt: t0,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, p.ID) })

	p.MedicalHistory = append(p.MedicalHistory, pets.MedicalRecord{ID: "r1", Date: t0, Symptoms: "tos", CreatedAt: t0})
	p.UpdatedAt = t0.Add(time.Millisecond)
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.MedicalHistory) != 1 || got.MedicalHistory[0].Symptoms != "tos" {
		t.Fatalf("unexpected history: %+v", got.MedicalHistory)
	}

	list, err := repo.ListByOwner(ctx, owner)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v (%d items)", err, len(list))
	}
}

func TestPetsRepo_NotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, uuid.NewString()); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, uuid.NewString()); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}
