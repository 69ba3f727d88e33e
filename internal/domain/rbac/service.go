package rbac

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

type CreateInput struct {
	Name        string
	Description string
	Permissions []string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Role{}, apperrors.BadRequest("el nombre del rol es obligatorio")
	}

	now := s.now()
	r := Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Status:      StatusActive,
		Permissions: normalizePermissions(in.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// La unicidad del nombre la decide el almacén, no un find-then-insert.
	if err := s.repo.Create(ctx, r); err != nil {
		return Role{}, err
	}

	s.log.Info("rol creado", map[string]any{"role_id": r.ID, "name": r.Name})
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Role, error) {
	if strings.TrimSpace(id) == "" {
		return Role{}, apperrors.BadRequest("id de rol requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Name        *string
	Description *string

	// Permissions nil = no tocar. NO nil (incluida la lista vacía) =
	// reemplazar el set completo.
	Permissions *[]string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Role, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return Role{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Role{}, apperrors.BadRequest("el nombre del rol no puede quedar vacío")
		}
		r.Name = name
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}

	replace := in.Permissions != nil
	if replace {
		r.Permissions = normalizePermissions(*in.Permissions)
	}
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r, replace); err != nil {
		return Role{}, err
	}
	return r, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, target Status) (Role, error) {
	if !target.Valid() {
		return Role{}, apperrors.BadRequest("estado de rol inválido")
	}
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if r.Status == target {
		return Role{}, apperrors.Conflict("el rol ya está en estado " + string(target))
	}

	r.Status = target
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r, false); err != nil {
		return Role{}, err
	}
	return r, nil
}

// Delete elimina un rol. El almacén rechaza con Conflict los roles que
// todavía tienen usuarios asignados (restricción referencial).
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("rol eliminado", map[string]any{"role_id": id})
	return nil
}

// IsAssignable responde si el rol existe y está activo. Lo consume el
// módulo de usuarios antes de asignar un rol.
func (s *Service) IsAssignable(ctx context.Context, id string) (bool, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return r.Status == StatusActive, nil
}

// normalizePermissions recorta, descarta vacíos y deduplica conservando
// un orden estable.
func normalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
