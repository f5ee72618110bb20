package pets

import (
	"sort"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return true
	default:
		return false
	}
}

// RecordType es la variante "type + description" de un registro médico.
// @Enum symptom, diagnosis, treatment
type RecordType string

const (
	RecordSymptom   RecordType = "symptom"
	RecordDiagnosis RecordType = "diagnosis"
	RecordTreatment RecordType = "treatment"
)

func (t RecordType) Valid() bool {
	switch t {
	case RecordSymptom, RecordDiagnosis, RecordTreatment:
		return true
	default:
		return false
	}
}

// MedicalRecord vive embebido en su Pet; no tiene ciclo de vida propio.
// Acepta las dos formas: symptoms/diagnosis/treatment o type/description.
type MedicalRecord struct {
	ID   string
	Date time.Time

	Symptoms  string
	Diagnosis string
	Treatment string

	Type        RecordType
	Description string

	Notes     string
	CreatedAt time.Time
}

// Pet representa el perfil de una mascota con su historial médico.
// Solo OwnerUserID puede verla o modificarla.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Age     float64 // años
	Weight  float64 // kg

	MedicalHistory []MedicalRecord // orden de inserción

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryNewestFirst devuelve una copia del historial ordenada por Date desc.
func (p Pet) HistoryNewestFirst() []MedicalRecord {
	out := make([]MedicalRecord, len(p.MedicalHistory))
	copy(out, p.MedicalHistory)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// clone evita que el caller comparta el slice del historial con el repo.
func (p Pet) clone() Pet {
	c := p
	c.MedicalHistory = make([]MedicalRecord, len(p.MedicalHistory))
	copy(c.MedicalHistory, p.MedicalHistory)
	return c
}
