package clients

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name     string
	Document string
	Email    string
	Phone    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Client{}, apperrors.BadRequest("el nombre del cliente es obligatorio")
	}
	if strings.TrimSpace(in.Document) == "" {
		return Client{}, apperrors.BadRequest("el documento del cliente es obligatorio")
	}
	if strings.TrimSpace(in.Email) == "" {
		return Client{}, apperrors.BadRequest("el email del cliente es obligatorio")
	}

	now := s.now()
	c := Client{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Document:      strings.TrimSpace(in.Document),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         strings.TrimSpace(in.Phone),
		SpecimenCount: 0,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Documento/email duplicados los detecta el unique de la tabla y el
	// repo los traduce a Conflict. Un pre-check find-then-insert acá
	// sería racy frente a escritores concurrentes.
	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	if strings.TrimSpace(id) == "" {
		return Client{}, apperrors.BadRequest("id de cliente requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByDocument(ctx context.Context, document string) (Client, error) {
	if strings.TrimSpace(document) == "" {
		return Client{}, apperrors.BadRequest("documento requerido")
	}
	return s.repo.GetByDocument(ctx, strings.TrimSpace(document))
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Client, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.BadRequest("estado de cliente inválido")
	}
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Name     *string
	Document *string
	Email    *string
	Phone    *string
}

// Update modifica datos de perfil. El estado NO se cambia por esta vía
// (solo por UpdateStatus / Deactivate) y SpecimenCount nunca es escribible.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Client, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Client{}, apperrors.BadRequest("el nombre del cliente no puede quedar vacío")
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Document != nil {
		if strings.TrimSpace(*in.Document) == "" {
			return Client{}, apperrors.BadRequest("el documento no puede quedar vacío")
		}
		current.Document = strings.TrimSpace(*in.Document)
	}
	if in.Email != nil {
		if strings.TrimSpace(*in.Email) == "" {
			return Client{}, apperrors.BadRequest("el email no puede quedar vacío")
		}
		current.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		current.Phone = strings.TrimSpace(*in.Phone)
	}
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Client{}, err
	}
	return current, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Client, error) {
	if !status.Valid() {
		return Client{}, apperrors.BadRequest("estado inválido: debe ser 'activo' o 'inactivo'")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if current.Status == status {
		return current, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return Client{}, err
	}
	current.Status = status
	return current, nil
}

// Deactivate es la estrategia de borrado lógico: marca el cliente como
// inactivo y conserva su historial. Desactivar dos veces es Conflict.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == StatusInactive {
		return apperrors.Conflict("el cliente ya está inactivo")
	}
	return s.repo.UpdateStatus(ctx, id, StatusInactive)
}

// Purge es la estrategia de borrado físico: elimina el registro.
// Falla con Conflict si el cliente todavía posee ejemplares.
// La fuente original dejó ambas variantes sin decidir; acá las dos
// estrategias son explícitas y el caller elige.
func (s *Service) Purge(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.SpecimenCount > 0 {
		return apperrors.Conflictf("el cliente tiene %d ejemplares asociados; no puede eliminarse", current.SpecimenCount)
	}
	return s.repo.Purge(ctx, id)
}

// Exists expone la existencia del cliente a otros módulos
// (specimens y contracts validan el propietario). Evita ciclos de imports.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
