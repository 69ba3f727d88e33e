package rbac

import (
	"context"

	"pet-boarding-backend/internal/apperrors"
)

// UserDirectory resuelve el rol asignado a un usuario. Lo implementa el
// módulo de usuarios; la interfaz vive acá para que rbac no dependa de él.
type UserDirectory interface {
	RoleIDOf(ctx context.Context, userID string) (string, error)
}

// Resolver implementa ports/authz consultando rol y permisos en cada
// chequeo. Sin caché: un cambio de permisos aplica en la siguiente
// petición, que es lo que el negocio espera.
type Resolver struct {
	roles *Service
	users UserDirectory
}

func NewResolver(roles *Service, users UserDirectory) *Resolver {
	return &Resolver{roles: roles, users: users}
}

func (r *Resolver) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	roleID, err := r.users.RoleIDOf(ctx, userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	role, err := r.roles.GetByID(ctx, roleID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return role.HasPermission(permission), nil
}
