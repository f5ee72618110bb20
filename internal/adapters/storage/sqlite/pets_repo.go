package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pet-health-chat/internal/adapters/storage/doc"
	"pet-health-chat/internal/domain/pets"
)

// PetsRepo guarda timestamps como epoch millis (INTEGER) y el historial como JSON (TEXT).
type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, owner_user_id, name, species, breed, age, weight, medical_history, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	hist, err := json.Marshal(doc.FromRecords(p.MedicalHistory))
	if err != nil {
		return fmt.Errorf("sqlite: marshal history: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pets (`+petColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.OwnerUserID, p.Name, string(p.Species), p.Breed,
		p.Age, p.Weight, string(hist),
		p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli(),
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	hist, err := json.Marshal(doc.FromRecords(p.MedicalHistory))
	if err != nil {
		return fmt.Errorf("sqlite: marshal history: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, species = ?, breed = ?, age = ?, weight = ?, medical_history = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, string(p.Species), p.Breed, p.Age, p.Weight, string(hist), p.UpdatedAt.UnixMilli(),
		p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: %w", pets.ErrNotFound)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, fmt.Errorf("sqlite: %w", pets.ErrNotFound)
	}
	p, err := scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, fmt.Errorf("sqlite: %w", pets.ErrNotFound)
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE owner_user_id = ? ORDER BY created_at DESC`,
		strings.TrimSpace(ownerUserID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: %w", pets.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		d       doc.Pet
		hist    string
		created int64
		updated int64
	)
	if err := s.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Species, &d.Breed, &d.Age, &d.Weight, &hist, &created, &updated); err != nil {
		return pets.Pet{}, err
	}
	if hist != "" {
		if err := json.Unmarshal([]byte(hist), &d.MedicalHistory); err != nil {
			return pets.Pet{}, fmt.Errorf("sqlite: invalid medical_history for pet %s: %w", d.ID, err)
		}
	}
	d.CreatedAt = created
	d.UpdatedAt = updated
	return doc.ToPet(d.ID, d), nil
}
