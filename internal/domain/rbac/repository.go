package rbac

import "context"

// Repository persiste roles junto con su set de permisos. El reemplazo
// del set es atómico: borrar los permisos viejos e insertar los nuevos
// comparte una transacción, nunca se observa un rol a medio actualizar.
// El nombre del rol es único en el almacén.
type Repository interface {
	Create(ctx context.Context, r Role) error
	GetByID(ctx context.Context, id string) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	List(ctx context.Context) ([]Role, error)

	// Update reescribe la fila del rol y, si replacePermissions es true,
	// reemplaza el set completo de permisos en la misma transacción.
	Update(ctx context.Context, r Role, replacePermissions bool) error

	Delete(ctx context.Context, id string) error
}
