package rbac

import "time"

// Status de un rol. Un rol inactivo no se puede asignar a usuarios
// nuevos; los usuarios que ya lo tienen conservan sus permisos.
type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Role agrupa permisos bajo un nombre único.
type Role struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission recorre la lista en memoria. Para los roles típicos de
// este dominio (decenas de permisos) la búsqueda lineal alcanza.
func (r Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
