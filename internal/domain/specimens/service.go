package specimens

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
)

// ClientDirectory expone lo mínimo que este módulo necesita de clients.
// Se declara acá para evitar ciclos de imports entre módulos.
type ClientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CategoryDirectory expone el estado de una categoría.
type CategoryDirectory interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

// SedeDirectory expone la existencia de una sede.
type SedeDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       Repository
	clientes   ClientDirectory
	categorias CategoryDirectory
	sedes      SedeDirectory
	log        logger.Logger
	now        func() time.Time
}

func NewService(repo Repository, cl ClientDirectory, cat CategoryDirectory, sd SedeDirectory, log logger.Logger) *Service {
	return &Service{
		repo:       repo,
		clientes:   cl,
		categorias: cat,
		sedes:      sd,
		log:        log,
		now:        time.Now,
	}
}

type CreateInput struct {
	Name       string
	Breed      string
	Color      string
	BirthDate  *time.Time
	OwnerID    string
	CategoryID string
	SedeID     *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Specimen, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Specimen{}, apperrors.BadRequest("el nombre del ejemplar es obligatorio")
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return Specimen{}, apperrors.BadRequest("el propietario del ejemplar es obligatorio")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return Specimen{}, apperrors.BadRequest("la categoría del ejemplar es obligatoria")
	}

	if err := s.checkOwner(ctx, in.OwnerID); err != nil {
		return Specimen{}, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return Specimen{}, err
	}
	if in.SedeID != nil {
		if err := s.checkSede(ctx, *in.SedeID); err != nil {
			return Specimen{}, err
		}
	}

	now := s.now()
	sp := Specimen{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Breed:      strings.TrimSpace(in.Breed),
		Color:      strings.TrimSpace(in.Color),
		BirthDate:  in.BirthDate,
		OwnerID:    strings.TrimSpace(in.OwnerID),
		CategoryID: strings.TrimSpace(in.CategoryID),
		SedeID:     in.SedeID,
		ContractID: nil,
		Identifier: uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// El repo incrementa el contador del dueño en la misma transacción.
	if err := s.repo.Create(ctx, sp); err != nil {
		return Specimen{}, err
	}

	s.log.Info("ejemplar creado", map[string]any{
		"specimen_id": sp.ID,
		"owner_id":    sp.OwnerID,
	})
	return sp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Specimen, error) {
	if strings.TrimSpace(id) == "" {
		return Specimen{}, apperrors.BadRequest("id de ejemplar requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Specimen, error) {
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Name           *string
	Breed          *string
	Color          *string
	BirthDate      *time.Time
	ClearBirthDate bool

	// OwnerID presente => transferencia de propiedad. El repo ajusta
	// ambos contadores dentro de la transacción del update.
	OwnerID *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Specimen, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Specimen{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Specimen{}, apperrors.BadRequest("el nombre del ejemplar no puede quedar vacío")
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Color != nil {
		current.Color = strings.TrimSpace(*in.Color)
	}
	if in.ClearBirthDate {
		current.BirthDate = nil
	} else if in.BirthDate != nil {
		current.BirthDate = in.BirthDate
	}

	prevOwner := current.OwnerID
	if in.OwnerID != nil && strings.TrimSpace(*in.OwnerID) != current.OwnerID {
		newOwner := strings.TrimSpace(*in.OwnerID)
		if newOwner == "" {
			return Specimen{}, apperrors.BadRequest("un ejemplar siempre tiene exactamente un propietario")
		}
		if err := s.checkOwner(ctx, newOwner); err != nil {
			return Specimen{}, err
		}
		current.OwnerID = newOwner
	}
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Specimen{}, err
	}

	if current.OwnerID != prevOwner {
		s.log.Info("ejemplar transferido", map[string]any{
			"specimen_id": current.ID,
			"from":        prevOwner,
			"to":          current.OwnerID,
		})
	}
	return current, nil
}

// RelocateInput: al menos uno de los dos campos debe venir.
type RelocateInput struct {
	CategoryID *string
	SedeID     *string
}

// Relocate mueve el ejemplar de categoría y/o sede. Reglas:
//   - sin campos => BadRequest;
//   - destino idéntico al actual => Conflict (una reubicación representa
//     un cambio real, no se acepta el no-op silencioso);
//   - la categoría destino debe existir y estar activa;
//   - la sede destino debe existir (nil explícito la des-asigna).
// Propiedad y contrato quedan intactos.
func (s *Service) Relocate(ctx context.Context, id string, in RelocateInput) (Specimen, error) {
	if in.CategoryID == nil && in.SedeID == nil {
		return Specimen{}, apperrors.BadRequest("la reubicación requiere nueva categoría y/o nueva sede")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Specimen{}, err
	}

	changed := false
	if in.CategoryID != nil {
		target := strings.TrimSpace(*in.CategoryID)
		if target == "" {
			return Specimen{}, apperrors.BadRequest("la categoría destino no puede ser vacía")
		}
		if target != current.CategoryID {
			if err := s.checkCategory(ctx, target); err != nil {
				return Specimen{}, err
			}
			changed = true
		}
	}
	if in.SedeID != nil {
		target := strings.TrimSpace(*in.SedeID)
		switch {
		case target == "" && current.SedeID != nil:
			// des-asignar sede es un cambio válido
			changed = true
		case target != "" && (current.SedeID == nil || *current.SedeID != target):
			if err := s.checkSede(ctx, target); err != nil {
				return Specimen{}, err
			}
			changed = true
		}
	}

	if !changed {
		return Specimen{}, apperrors.Conflict("la reubicación no representa ningún cambio: el ejemplar ya está en ese destino")
	}

	var newCategory *string
	if in.CategoryID != nil {
		t := strings.TrimSpace(*in.CategoryID)
		newCategory = &t
	}
	// in.SedeID presente con valor vacío significa "quitar sede"; el repo
	// recibe el puntero a string vacío para distinguirlo de "no tocar".
	var newSede *string
	if in.SedeID != nil {
		t := strings.TrimSpace(*in.SedeID)
		newSede = &t
	}

	if err := s.repo.Relocate(ctx, id, newCategory, newSede); err != nil {
		return Specimen{}, err
	}

	s.log.Info("ejemplar reubicado", map[string]any{"specimen_id": id})
	return s.repo.GetByID(ctx, id)
}

// Delete borra el ejemplar. Si tiene contrato activo el repo devuelve
// Conflict: primero hay que finalizar o eliminar el contrato.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.ContractID != nil {
		return apperrors.Conflict("el ejemplar tiene un contrato asociado; libere el contrato antes de eliminarlo")
	}
	// El repo decrementa el contador del dueño previo en la misma tx.
	return s.repo.Delete(ctx, id)
}

// IsBound expone si un ejemplar está asociado a un contrato
// (lo usa contracts para el pre-chequeo de exclusividad).
func (s *Service) IsBound(ctx context.Context, id string) (exists bool, bound bool, err error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	return true, sp.ContractID != nil, nil
}

// Exists responde si el ejemplar está registrado. Lo consumen los
// módulos que cuelgan registros de un ejemplar sin importarles su
// contrato.
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

func (s *Service) checkOwner(ctx context.Context, id string) error {
	ok, err := s.clientes.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFoundf("cliente %s no encontrado", id)
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, id string) error {
	active, err := s.categorias.IsActive(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return apperrors.NotFoundf("categoría %s no encontrada", id)
		}
		return err
	}
	if !active {
		return apperrors.Conflictf("la categoría %s está inactiva y no puede asignarse", id)
	}
	return nil
}

func (s *Service) checkSede(ctx context.Context, id string) error {
	ok, err := s.sedes.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFoundf("sede %s no encontrada", id)
	}
	return nil
}
