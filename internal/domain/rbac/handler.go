package rbac

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/roles", func(rr chi.Router) {
		rr.With(gate("roles.crear")).Post("/", createHandler(svc))
		rr.With(gate("roles.ver")).Get("/", listHandler(svc))
		rr.With(gate("roles.ver")).Get("/{roleID}", getHandler(svc))
		rr.With(gate("roles.editar")).Patch("/{roleID}", updateHandler(svc))
		rr.With(gate("roles.editar")).Patch("/{roleID}/estado", statusHandler(svc))
		rr.With(gate("roles.eliminar")).Delete("/{roleID}", deleteHandler(svc))
	})
}

type roleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoleResponse(r Role) roleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return roleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      string(r.Status),
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Permissions []string `json:"permissions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		role, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Permissions: req.Permissions,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toRoleResponse(role))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]roleResponse, 0, len(items))
		for _, role := range items {
			out = append(out, toRoleResponse(role))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := svc.GetByID(r.Context(), chi.URLParam(r, "roleID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRoleResponse(role))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Map crudo para distinguir "permissions ausente" (dejar como
		// está) de "permissions presente" (reemplazar el set).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		var in UpdateInput
		if v, ok := raw["name"]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				web.WriteError(w, apperrors.BadRequest("name debe ser texto"))
				return
			}
			in.Name = &s
		}
		if v, ok := raw["description"]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				web.WriteError(w, apperrors.BadRequest("description debe ser texto"))
				return
			}
			in.Description = &s
		}
		if v, ok := raw["permissions"]; ok {
			var perms []string
			if err := json.Unmarshal(v, &perms); err != nil {
				web.WriteError(w, apperrors.BadRequest("permissions debe ser una lista de textos"))
				return
			}
			if perms == nil {
				perms = []string{}
			}
			in.Permissions = &perms
		}

		role, err := svc.Update(r.Context(), chi.URLParam(r, "roleID"), in)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRoleResponse(role))
	}
}

func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		role, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "roleID"), Status(req.Status))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRoleResponse(role))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "roleID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
