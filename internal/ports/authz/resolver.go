package authz

import "context"

// PermissionResolver resuelve si un usuario tiene un permiso (capability)
// a través de su rol. Se consulta en cada chequeo, sin cache: un cambio en
// el set de permisos del rol aplica en el siguiente request.
type PermissionResolver interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}
