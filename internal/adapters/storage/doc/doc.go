// Package doc define la forma serializada de una mascota que comparten los
// adapters que guardan JSON (historial en postgres/sqlite, documento entero en firebase).
// Timestamps en epoch millis, igual que la API.
package doc

import (
	"time"

	"pet-health-chat/internal/domain/pets"
)

type Record struct {
	ID          string `json:"id"`
	Date        int64  `json:"date"`
	Symptoms    string `json:"symptoms,omitempty"`
	Diagnosis   string `json:"diagnosis,omitempty"`
	Treatment   string `json:"treatment,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type Pet struct {
	ID             string   `json:"id"`
	OwnerID        string   `json:"ownerId"`
	Name           string   `json:"name"`
	Species        string   `json:"species"`
	Breed          string   `json:"breed,omitempty"`
	Age            float64  `json:"age"`
	Weight         float64  `json:"weight"`
	MedicalHistory []Record `json:"medicalHistory"`
	CreatedAt      int64    `json:"createdAt"`
	UpdatedAt      int64    `json:"updatedAt"`
}

func FromRecords(in []pets.MedicalRecord) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		out = append(out, Record{
			ID:          r.ID,
			Date:        r.Date.UnixMilli(),
			Symptoms:    r.Symptoms,
			Diagnosis:   r.Diagnosis,
			Treatment:   r.Treatment,
			Type:        string(r.Type),
			Description: r.Description,
			Notes:       r.Notes,
			CreatedAt:   r.CreatedAt.UnixMilli(),
		})
	}
	return out
}

func ToRecords(in []Record) []pets.MedicalRecord {
	out := make([]pets.MedicalRecord, 0, len(in))
	for _, r := range in {
		out = append(out, pets.MedicalRecord{
			ID:          r.ID,
			Date:        fromMillis(r.Date),
			Symptoms:    r.Symptoms,
			Diagnosis:   r.Diagnosis,
			Treatment:   r.Treatment,
			Type:        pets.RecordType(r.Type),
			Description: r.Description,
			Notes:       r.Notes,
			CreatedAt:   fromMillis(r.CreatedAt),
		})
	}
	return out
}

func FromPet(p pets.Pet) Pet {
	return Pet{
		ID:             p.ID,
		OwnerID:        p.OwnerUserID,
		Name:           p.Name,
		Species:        string(p.Species),
		Breed:          p.Breed,
		Age:            p.Age,
		Weight:         p.Weight,
		MedicalHistory: FromRecords(p.MedicalHistory),
		CreatedAt:      p.CreatedAt.UnixMilli(),
		UpdatedAt:      p.UpdatedAt.UnixMilli(),
	}
}

// ToPet: id viene aparte porque en firebase la key no siempre está dentro del documento.
func ToPet(id string, d Pet) pets.Pet {
	if d.ID != "" {
		id = d.ID
	}
	return pets.Pet{
		ID:             id,
		OwnerUserID:    d.OwnerID,
		Name:           d.Name,
		Species:        pets.Species(d.Species),
		Breed:          d.Breed,
		Age:            d.Age,
		Weight:         d.Weight,
		MedicalHistory: ToRecords(d.MedicalHistory),
		CreatedAt:      fromMillis(d.CreatedAt),
		UpdatedAt:      fromMillis(d.UpdatedAt),
	}
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
