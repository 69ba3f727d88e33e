package middleware

import (
	"net/http"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
	"pet-boarding-backend/internal/ports/authz"
)

// PermissionGate construye el gate que protege las rutas de dominio:
// gate("ejemplares.mover") devuelve un middleware que exige claims en el
// contexto y el permiso resuelto contra el rol vigente del usuario. La
// consulta es por petición: un cambio de permisos aplica en la siguiente
// request, sin caché que invalidar.
func PermissionGate(resolver authz.PermissionResolver) func(permission string) func(http.Handler) http.Handler {
	return func(permission string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := GetClaims(r.Context())
				if !ok {
					web.WriteJSON(w, http.StatusUnauthorized, map[string]string{
						"error": "se requiere autenticación",
					})
					return
				}

				allowed, err := resolver.HasPermission(r.Context(), claims.UserID, permission)
				if err != nil {
					web.WriteError(w, apperrors.Internal("no se pudo resolver el permiso", err))
					return
				}
				if !allowed {
					web.WriteJSON(w, http.StatusForbidden, map[string]string{
						"error": "no tiene permiso para esta operación",
					})
					return
				}

				next.ServeHTTP(w, r)
			})
		}
	}
}

// AllowAll es el gate de desarrollo: no exige claims ni permisos.
func AllowAll() func(permission string) func(http.Handler) http.Handler {
	return func(permission string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
}
