package postgres

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

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_user_id,
	name, species, breed,
	age, weight,
	medical_history,
	created_at, updated_at
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	hist, err := json.Marshal(doc.FromRecords(p.MedicalHistory))
	if err != nil {
		return fmt.Errorf("postgres: marshal history: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		string(p.Species),
		p.Breed,
		p.Age,
		p.Weight,
		hist,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Update reescribe perfil + historial en una sola sentencia.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	hist, err := json.Marshal(doc.FromRecords(p.MedicalHistory))
	if err != nil {
		return fmt.Errorf("postgres: marshal history: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			age = $5,
			weight = $6,
			medical_history = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Breed,
		p.Age,
		p.Weight,
		hist,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("postgres: %w", pets.ErrNotFound)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, fmt.Errorf("postgres: %w", pets.ErrNotFound)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, fmt.Errorf("postgres: %w", pets.ErrNotFound)
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
	`, ownerUserID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("postgres: %w", pets.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var p pets.Pet
	var species string
	var hist []byte
	if err := s.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&species,
		&p.Breed,
		&p.Age,
		&p.Weight,
		&hist,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)

	var records []doc.Record
	if len(hist) > 0 {
		if err := json.Unmarshal(hist, &records); err != nil {
			return pets.Pet{}, fmt.Errorf("postgres: invalid medical_history for pet %s: %w", p.ID, err)
		}
	}
	p.MedicalHistory = doc.ToRecords(records)
	return p, nil
}
