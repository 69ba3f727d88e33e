package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/rbac"
)

type roleRepo struct {
	store *Store
}

func NewRoleRepo(store *Store) rbac.Repository {
	return &roleRepo{store: store}
}

func (r *roleRepo) Create(ctx context.Context, role rbac.Role) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.roles {
		if existing.Name == role.Name {
			return apperrors.Conflict("ya existe un rol llamado " + role.Name)
		}
	}
	role.Permissions = append([]string(nil), role.Permissions...)
	s.roles[role.ID] = role
	return nil
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (rbac.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[id]
	if !ok {
		return rbac.Role{}, apperrors.NotFound("rol " + id + " no encontrado")
	}
	role.Permissions = append([]string(nil), role.Permissions...)
	return role, nil
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (rbac.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, role := range s.roles {
		if role.Name == name {
			role.Permissions = append([]string(nil), role.Permissions...)
			return role, nil
		}
	}
	return rbac.Role{}, apperrors.NotFound("rol " + name + " no encontrado")
}

func (r *roleRepo) List(ctx context.Context) ([]rbac.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]rbac.Role, 0, len(s.roles))
	for _, role := range s.roles {
		role.Permissions = append([]string(nil), role.Permissions...)
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update reescribe el rol. El reemplazo del set de permisos pasa bajo la
// misma sección crítica que la fila: nunca se observa un rol a medio
// actualizar.
func (r *roleRepo) Update(ctx context.Context, role rbac.Role, replacePermissions bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.roles[role.ID]
	if !ok {
		return apperrors.NotFound("rol " + role.ID + " no encontrado")
	}
	for _, other := range s.roles {
		if other.ID != role.ID && other.Name == role.Name {
			return apperrors.Conflict("ya existe un rol llamado " + role.Name)
		}
	}

	if replacePermissions {
		if err := s.fail("rbac.update.permissions"); err != nil {
			return apperrors.Internal("el reemplazo de permisos falló", err)
		}
		role.Permissions = append([]string(nil), role.Permissions...)
	} else {
		role.Permissions = stored.Permissions
	}
	s.roles[role.ID] = role
	return nil
}

func (r *roleRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return apperrors.NotFound("rol " + id + " no encontrado")
	}
	for _, u := range s.users {
		if u.RoleID == id {
			return apperrors.Conflict("el rol todavía tiene usuarios asignados")
		}
	}
	delete(s.roles, id)
	return nil
}
