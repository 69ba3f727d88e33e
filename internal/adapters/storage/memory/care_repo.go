package memory

import (
	"context"
	"sort"
	"time"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/care"
)

type careRepo struct {
	store *Store
}

func NewCareRepo(store *Store) care.Repository {
	return &careRepo{store: store}
}

func (r *careRepo) Create(ctx context.Context, rec care.Record) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.specimens[rec.SpecimenID]; !ok {
		return apperrors.NotFound("ejemplar " + rec.SpecimenID + " no encontrado")
	}
	// Unicidad (kind, name, specimen_id) bajo el lock.
	for _, existing := range s.careRecords {
		if existing.SpecimenID == rec.SpecimenID && existing.Kind == rec.Kind && existing.Name == rec.Name {
			return apperrors.Conflict("el ejemplar ya tiene registrado " + rec.Name + " como " + string(rec.Kind))
		}
	}
	s.careRecords[rec.ID] = rec
	return nil
}

func (r *careRepo) GetByID(ctx context.Context, id string) (care.Record, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.careRecords[id]
	if !ok {
		return care.Record{}, apperrors.NotFound("cuidado " + id + " no encontrado")
	}
	return rec, nil
}

func (r *careRepo) ListBySpecimen(ctx context.Context, specimenID string, kind care.Kind) ([]care.Record, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]care.Record, 0)
	for _, rec := range s.careRecords {
		if rec.SpecimenID != specimenID {
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (r *careRepo) Update(ctx context.Context, rec care.Record) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.careRecords[rec.ID]
	if !ok {
		return apperrors.NotFound("cuidado " + rec.ID + " no encontrado")
	}
	for _, other := range s.careRecords {
		if other.ID != rec.ID && other.SpecimenID == rec.SpecimenID && other.Kind == rec.Kind && other.Name == rec.Name {
			return apperrors.Conflict("el ejemplar ya tiene registrado " + rec.Name + " como " + string(rec.Kind))
		}
	}
	// El estado solo se cambia por UpdateStatus.
	rec.Status = stored.Status
	rec.AppliedAt = stored.AppliedAt
	s.careRecords[rec.ID] = rec
	return nil
}

func (r *careRepo) UpdateStatus(ctx context.Context, id string, from, to care.Status, appliedAt *time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.careRecords[id]
	if !ok {
		return apperrors.NotFound("cuidado " + id + " no encontrado")
	}
	if rec.Status != from {
		return apperrors.Conflict("el cuidado ya no está en estado " + string(from))
	}
	rec.Status = to
	rec.AppliedAt = appliedAt
	s.careRecords[id] = rec
	return nil
}

func (r *careRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.careRecords[id]; !ok {
		return apperrors.NotFound("cuidado " + id + " no encontrado")
	}
	delete(s.careRecords, id)
	return nil
}
