package pets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("pet not found")
	ErrRecordNotFound = errors.New("medical record not found")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// mu serializa los read-modify-write (update, historial) dentro del proceso.
	mu sync.Mutex

	onDelete func(ownerUserID, petID string)
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// OnDelete registra un callback que corre después de borrar una mascota.
func (s *Service) OnDelete(fn func(ownerUserID, petID string)) {
	s.onDelete = fn
}

type CreateInput struct {
	Name    string
	Species string
	Breed   string
	Age     float64
	Weight  float64
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name    *string
	Species *string
	Breed   *string
	Age     *float64
	Weight  *float64
}

type RecordInput struct {
	Date time.Time

	Symptoms  string
	Diagnosis string
	Treatment string

	Type        string
	Description string

	Notes string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	species := Species(strings.ToLower(strings.TrimSpace(in.Species)))
	if !species.Valid() {
		return Pet{}, fmt.Errorf("%w: species must be dog, cat or other", ErrInvalidInput)
	}
	if in.Age < 0 || in.Weight < 0 {
		return Pet{}, fmt.Errorf("%w: age and weight must be >= 0", ErrInvalidInput)
	}

	now := s.now()
	p := Pet{
		ID:             uuid.NewString(),
		OwnerUserID:    ownerUserID,
		Name:           name,
		Species:        species,
		Breed:          strings.TrimSpace(in.Breed),
		Age:            in.Age,
		Weight:         in.Weight,
		MedicalHistory: []MedicalRecord{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p.clone(), nil
}

// Get devuelve ErrNotFound tanto si no existe como si es de otro owner.
func (s *Service) Get(ctx context.Context, petID, ownerUserID string) (Pet, error) {
	petID = strings.TrimSpace(petID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if petID == "" || ownerUserID == "" {
		return Pet{}, ErrNotFound
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrNotFound
	}
	return p.clone(), nil
}

// List devuelve las mascotas del owner, más nuevas primero.
func (s *Service) List(ctx context.Context, ownerUserID string) ([]Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []Pet{}, nil
	}

	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	out := make([]Pet, 0, len(items))
	for _, p := range items {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p.clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Service) Update(ctx context.Context, petID, ownerUserID string, in UpdateInput) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, petID, ownerUserID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Species != nil {
		sp := Species(strings.ToLower(strings.TrimSpace(*in.Species)))
		if !sp.Valid() {
			return Pet{}, fmt.Errorf("%w: species must be dog, cat or other", ErrInvalidInput)
		}
		p.Species = sp
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, fmt.Errorf("%w: age must be >= 0", ErrInvalidInput)
		}
		p.Age = *in.Age
	}
	if in.Weight != nil {
		if *in.Weight < 0 {
			return Pet{}, fmt.Errorf("%w: weight must be >= 0", ErrInvalidInput)
		}
		p.Weight = *in.Weight
	}

	p.UpdatedAt = s.bump(p.UpdatedAt)

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, s.mapRepoErr(err)
	}
	return p.clone(), nil
}

func (s *Service) Delete(ctx context.Context, petID, ownerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, petID, ownerUserID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return s.mapRepoErr(err)
	}

	if s.onDelete != nil {
		s.onDelete(p.OwnerUserID, p.ID)
	}
	return nil
}

// AddMedicalRecord agrega al final del historial y persiste el pet completo.
func (s *Service) AddMedicalRecord(ctx context.Context, petID, ownerUserID string, in RecordInput) (MedicalRecord, error) {
	rec, err := normalizeRecord(in)
	if err != nil {
		return MedicalRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, petID, ownerUserID)
	if err != nil {
		return MedicalRecord{}, err
	}

	now := s.now()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now

	p.MedicalHistory = append(p.MedicalHistory, rec)
	p.UpdatedAt = s.bump(p.UpdatedAt)

	if err := s.repo.Update(ctx, p); err != nil {
		return MedicalRecord{}, s.mapRepoErr(err)
	}
	return rec, nil
}

// UpdateMedicalRecord reemplaza el contenido del registro (id y createdAt se conservan).
func (s *Service) UpdateMedicalRecord(ctx context.Context, petID, recordID, ownerUserID string, in RecordInput) (MedicalRecord, error) {
	rec, err := normalizeRecord(in)
	if err != nil {
		return MedicalRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, petID, ownerUserID)
	if err != nil {
		return MedicalRecord{}, err
	}

	idx := -1
	for i, r := range p.MedicalHistory {
		if r.ID == strings.TrimSpace(recordID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return MedicalRecord{}, ErrRecordNotFound
	}

	rec.ID = p.MedicalHistory[idx].ID
	rec.CreatedAt = p.MedicalHistory[idx].CreatedAt
	p.MedicalHistory[idx] = rec
	p.UpdatedAt = s.bump(p.UpdatedAt)

	if err := s.repo.Update(ctx, p); err != nil {
		return MedicalRecord{}, s.mapRepoErr(err)
	}
	return rec, nil
}

// bump garantiza updatedAt estrictamente creciente aunque el reloj no avance
// (la API expone milisegundos).
func (s *Service) bump(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) || now.UnixMilli() <= prev.UnixMilli() {
		return prev.Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return now
}

// mapRepoErr: si el repo perdió el pet entre Get y Update lo tratamos como 404.
func (s *Service) mapRepoErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func normalizeRecord(in RecordInput) (MedicalRecord, error) {
	rec := MedicalRecord{
		Date:        in.Date,
		Symptoms:    strings.TrimSpace(in.Symptoms),
		Diagnosis:   strings.TrimSpace(in.Diagnosis),
		Treatment:   strings.TrimSpace(in.Treatment),
		Type:        RecordType(strings.ToLower(strings.TrimSpace(in.Type))),
		Description: strings.TrimSpace(in.Description),
		Notes:       strings.TrimSpace(in.Notes),
	}

	if rec.Date.IsZero() {
		return MedicalRecord{}, fmt.Errorf("%w: date required", ErrInvalidInput)
	}
	if rec.Type != "" && !rec.Type.Valid() {
		return MedicalRecord{}, fmt.Errorf("%w: type must be symptom, diagnosis or treatment", ErrInvalidInput)
	}
	if rec.Symptoms == "" && rec.Type == "" {
		return MedicalRecord{}, fmt.Errorf("%w: symptoms or type required", ErrInvalidInput)
	}
	if rec.Type != "" && rec.Description == "" {
		return MedicalRecord{}, fmt.Errorf("%w: description required with type", ErrInvalidInput)
	}
	return rec, nil
}
