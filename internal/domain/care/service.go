package care

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
)

// SpecimenDirectory es la vista mínima de ejemplares que necesita este
// módulo: saber si el ejemplar existe.
type SpecimenDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo      Repository
	specimens SpecimenDirectory
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, sd SpecimenDirectory, log logger.Logger) *Service {
	return &Service{repo: repo, specimens: sd, log: log, now: time.Now}
}

type CreateInput struct {
	SpecimenID  string
	Kind        Kind
	Name        string
	Dose        string
	Frequency   string
	ScheduledAt time.Time
	Notes       string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Record{}, apperrors.BadRequest("el nombre del cuidado es obligatorio")
	}
	if !in.Kind.Valid() {
		return Record{}, apperrors.BadRequest("tipo de cuidado inválido: use medicamento, vacuna o alimentacion")
	}
	if strings.TrimSpace(in.SpecimenID) == "" {
		return Record{}, apperrors.BadRequest("el ejemplar del cuidado es obligatorio")
	}

	ok, err := s.specimens.Exists(ctx, in.SpecimenID)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, apperrors.NotFound("el ejemplar " + in.SpecimenID + " no existe")
	}

	now := s.now()
	scheduled := in.ScheduledAt
	if scheduled.IsZero() {
		scheduled = now
	}

	rec := Record{
		ID:          uuid.NewString(),
		SpecimenID:  in.SpecimenID,
		Kind:        in.Kind,
		Name:        name,
		Dose:        strings.TrimSpace(in.Dose),
		Frequency:   strings.TrimSpace(in.Frequency),
		Status:      StatusScheduled,
		ScheduledAt: scheduled,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}

	s.log.Info("cuidado programado", map[string]any{
		"record_id":   rec.ID,
		"specimen_id": rec.SpecimenID,
		"kind":        string(rec.Kind),
	})
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, apperrors.BadRequest("id de cuidado requerido")
	}
	return s.repo.GetByID(ctx, id)
}

// ListBySpecimen devuelve los cuidados de un ejemplar, opcionalmente
// filtrados por tipo.
func (s *Service) ListBySpecimen(ctx context.Context, specimenID string, kind Kind) ([]Record, error) {
	if strings.TrimSpace(specimenID) == "" {
		return nil, apperrors.BadRequest("id de ejemplar requerido")
	}
	if kind != "" && !kind.Valid() {
		return nil, apperrors.BadRequest("tipo de cuidado inválido")
	}
	ok, err := s.specimens.Exists(ctx, specimenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("el ejemplar " + specimenID + " no existe")
	}
	return s.repo.ListBySpecimen(ctx, specimenID, kind)
}

type UpdateInput struct {
	Name        *string
	Dose        *string
	Frequency   *string
	ScheduledAt *time.Time
	Notes       *string
}

// Update edita los datos descriptivos de un cuidado todavía programado.
// El estado se cambia por UpdateStatus, no por acá.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Record, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusScheduled {
		return Record{}, apperrors.Conflict("solo los cuidados programados se pueden editar")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Record{}, apperrors.BadRequest("el nombre del cuidado no puede quedar vacío")
		}
		rec.Name = name
	}
	if in.Dose != nil {
		rec.Dose = strings.TrimSpace(*in.Dose)
	}
	if in.Frequency != nil {
		rec.Frequency = strings.TrimSpace(*in.Frequency)
	}
	if in.ScheduledAt != nil {
		rec.ScheduledAt = *in.ScheduledAt
	}
	if in.Notes != nil {
		rec.Notes = strings.TrimSpace(*in.Notes)
	}
	rec.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// UpdateStatus aplica la máquina de estados del cuidado: programado
// pasa a administrado o cancelado, y ambos destinos son terminales.
func (s *Service) UpdateStatus(ctx context.Context, id string, target Status) (Record, error) {
	if !target.Valid() {
		return Record{}, apperrors.BadRequest("estado de cuidado inválido")
	}

	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status == target {
		return Record{}, apperrors.Conflict("el cuidado ya está en estado " + string(target))
	}
	if rec.Status != StatusScheduled {
		return Record{}, apperrors.Conflict("el cuidado ya fue " + string(rec.Status) + " y no admite más transiciones")
	}
	if target == StatusScheduled {
		return Record{}, apperrors.BadRequest("un cuidado no puede volver a programado")
	}

	var appliedAt *time.Time
	if target == StatusAdministered {
		t := s.now()
		appliedAt = &t
	}

	// La transición condicional en el repo es la garantía real contra
	// dos peticiones concurrentes; esta lectura previa solo mejora el
	// mensaje de error.
	if err := s.repo.UpdateStatus(ctx, id, StatusScheduled, target, appliedAt); err != nil {
		return Record{}, err
	}

	rec.Status = target
	rec.AppliedAt = appliedAt
	rec.UpdatedAt = s.now()
	s.log.Info("cuidado actualizado", map[string]any{
		"record_id": id,
		"status":    string(target),
	})
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
