package contracts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
)

// ClientDirectory expone lo mínimo que este módulo necesita de clients.
type ClientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SpecimenDirectory expone existencia y binding de un ejemplar.
type SpecimenDirectory interface {
	IsBound(ctx context.Context, id string) (exists bool, bound bool, err error)
}

// ServiceDirectory expone qué IDs de servicio no existen en el catálogo.
type ServiceDirectory interface {
	Missing(ctx context.Context, ids []string) ([]string, error)
}

type Service struct {
	repo       Repository
	clientes   ClientDirectory
	ejemplares SpecimenDirectory
	catalogo   ServiceDirectory
	log        logger.Logger
	now        func() time.Time
}

func NewService(repo Repository, cl ClientDirectory, sp SpecimenDirectory, cat ServiceDirectory, log logger.Logger) *Service {
	return &Service{
		repo:       repo,
		clientes:   cl,
		ejemplares: sp,
		catalogo:   cat,
		log:        log,
		now:        time.Now,
	}
}

type CreateInput struct {
	ClientID     string
	StartDate    time.Time
	MonthlyPrice float64
	Terms        string

	// SpecimenID opcional: el ejemplar a asociar. Debe estar libre.
	SpecimenID *string
	ServiceIDs []string
}

// Create ejecuta la creación atómica: validar → insertar contrato →
// asociar servicios → tomar ejemplar → commit. Cualquier fallo antes del
// commit revierte todo. Después del commit se relee el grafo completo;
// si ESA lectura falla se devuelve un error PostCommit con el detalle
// mínimo: el contrato existe aunque la vista enriquecida no se pudo armar.
func (s *Service) Create(ctx context.Context, in CreateInput) (Detail, error) {
	if strings.TrimSpace(in.ClientID) == "" {
		return Detail{}, apperrors.BadRequest("el cliente del contrato es obligatorio")
	}
	if in.StartDate.IsZero() {
		return Detail{}, apperrors.BadRequest("la fecha de inicio del contrato es obligatoria")
	}
	if in.MonthlyPrice <= 0 {
		return Detail{}, apperrors.BadRequest("el precio mensual debe ser mayor a cero")
	}

	ok, err := s.clientes.Exists(ctx, in.ClientID)
	if err != nil {
		return Detail{}, err
	}
	if !ok {
		return Detail{}, apperrors.NotFoundf("cliente %s no encontrado", in.ClientID)
	}

	// Pre-chequeo del ejemplar: da un error temprano y claro. La garantía
	// real de exclusividad es la escritura condicional del repo dentro de
	// la transacción; este find-then-check solo no alcanzaría bajo
	// escritores concurrentes.
	if in.SpecimenID != nil {
		id := strings.TrimSpace(*in.SpecimenID)
		if id == "" {
			return Detail{}, apperrors.BadRequest("specimen_id no puede ser vacío")
		}
		exists, bound, err := s.ejemplares.IsBound(ctx, id)
		if err != nil {
			return Detail{}, err
		}
		if !exists {
			return Detail{}, apperrors.NotFoundf("ejemplar %s no encontrado", id)
		}
		if bound {
			return Detail{}, apperrors.Conflictf("el ejemplar %s ya tiene un contrato asociado", id)
		}
	}

	if len(in.ServiceIDs) > 0 {
		missing, err := s.catalogo.Missing(ctx, in.ServiceIDs)
		if err != nil {
			return Detail{}, err
		}
		if len(missing) > 0 {
			return Detail{}, apperrors.NotFoundf("servicios no encontrados: %s", strings.Join(missing, ", "))
		}
	}

	now := s.now()
	c := Contract{
		ID:           uuid.NewString(),
		ClientID:     strings.TrimSpace(in.ClientID),
		StartDate:    in.StartDate,
		MonthlyPrice: in.MonthlyPrice,
		Status:       StatusActive,
		Terms:        strings.TrimSpace(in.Terms),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, c, in.ServiceIDs, in.SpecimenID); err != nil {
		return Detail{}, err
	}

	s.log.Info("contrato creado", map[string]any{
		"contract_id": c.ID,
		"client_id":   c.ClientID,
	})

	return s.detailAfterWrite(ctx, c)
}

func (s *Service) GetByID(ctx context.Context, id string) (Contract, error) {
	if strings.TrimSpace(id) == "" {
		return Contract{}, apperrors.BadRequest("id de contrato requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetDetail(ctx context.Context, id string) (Detail, error) {
	if strings.TrimSpace(id) == "" {
		return Detail{}, apperrors.BadRequest("id de contrato requerido")
	}
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Contract, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.BadRequest("estado de contrato inválido")
	}
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	StartDate    *time.Time
	MonthlyPrice *float64
	Terms        *string

	// ServiceIDs nil = no tocar asociaciones. NO nil (incluida la lista
	// vacía) = reemplazar el set completo: ausencia significa "dejar como
	// está", presencia significa "reemplazar".
	ServiceIDs *[]string
}

// Update modifica campos del contrato y/o reemplaza sus asociaciones de
// servicios en una sola transacción. ClientID es inmutable: el handler
// rechaza el campo antes de llegar acá.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Detail, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	if in.StartDate != nil {
		if in.StartDate.IsZero() {
			return Detail{}, apperrors.BadRequest("la fecha de inicio no puede quedar vacía")
		}
		current.StartDate = *in.StartDate
	}
	if in.MonthlyPrice != nil {
		if *in.MonthlyPrice <= 0 {
			return Detail{}, apperrors.BadRequest("el precio mensual debe ser mayor a cero")
		}
		current.MonthlyPrice = *in.MonthlyPrice
	}
	if in.Terms != nil {
		current.Terms = strings.TrimSpace(*in.Terms)
	}

	replace := in.ServiceIDs != nil
	var serviceIDs []string
	if replace {
		serviceIDs = *in.ServiceIDs
		if len(serviceIDs) > 0 {
			missing, err := s.catalogo.Missing(ctx, serviceIDs)
			if err != nil {
				return Detail{}, err
			}
			if len(missing) > 0 {
				return Detail{}, apperrors.NotFoundf("servicios no encontrados al actualizar: %s", strings.Join(missing, ", "))
			}
		}
	}
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current, serviceIDs, replace); err != nil {
		return Detail{}, err
	}

	s.log.Info("contrato actualizado", map[string]any{"contract_id": id})
	return s.detailAfterWrite(ctx, current)
}

// UpdateStatus aplica la máquina de estados del contrato:
// activo→finalizado y activo→cancelado; ambos destinos son terminales.
// La transición se escribe de forma condicional para que dos cierres
// concurrentes no pisen un estado terminal.
func (s *Service) UpdateStatus(ctx context.Context, id string, target Status) (Contract, error) {
	if !target.Valid() {
		return Contract{}, apperrors.BadRequest("estado de contrato inválido")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if target == current.Status {
		return Contract{}, apperrors.Conflictf("el contrato ya está en estado '%s'", target)
	}
	if current.Status != StatusActive {
		return Contract{}, apperrors.Conflictf("el estado '%s' es terminal; no admite transiciones", current.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusActive, target); err != nil {
		return Contract{}, err
	}

	s.log.Info("contrato transicionado", map[string]any{
		"contract_id": id,
		"from":        string(StatusActive),
		"to":          string(target),
	})
	current.Status = target
	return current, nil
}

// Delete elimina el contrato: primero las asociaciones de servicios,
// después libera los ejemplares asociados, y al final la fila; todo en
// una transacción para que ningún ejemplar quede apuntando a un contrato
// borrado.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("contrato eliminado", map[string]any{"contract_id": id})
	return nil
}

// StatusOf expone el estado del contrato a otros módulos
// (payments solo admite pagos sobre contratos activos).
func (s *Service) StatusOf(ctx context.Context, id string) (Status, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Status, nil
}

// detailAfterWrite relee el grafo después de un commit exitoso. Un fallo
// acá se reporta como PostCommit: el caller tiene que saber que el dato
// existe aunque la respuesta enriquecida no se pudo construir.
func (s *Service) detailAfterWrite(ctx context.Context, c Contract) (Detail, error) {
	detail, err := s.repo.GetDetail(ctx, c.ID)
	if err != nil {
		s.log.Error("contrato escrito pero la relectura del detalle falló", map[string]any{
			"contract_id": c.ID,
			"error":       err.Error(),
		})
		return Detail{Contract: c}, apperrors.PostCommit(
			"el contrato "+c.ID+" fue guardado, pero no se pudo cargar su detalle completo", err)
	}
	return detail, nil
}
