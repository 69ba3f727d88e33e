package categories

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/categorias", func(cr chi.Router) {
		cr.With(gate("categorias.crear")).Post("/", createHandler(svc))
		cr.With(gate("categorias.ver")).Get("/", listHandler(svc))
		cr.With(gate("categorias.ver")).Get("/{categoryID}", getHandler(svc))
		cr.With(gate("categorias.editar")).Patch("/{categoryID}", renameHandler(svc))
		cr.With(gate("categorias.editar")).Patch("/{categoryID}/estado", statusHandler(svc))
		cr.With(gate("categorias.eliminar")).Delete("/{categoryID}", deleteHandler(svc))
	})
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(c Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		c, err := svc.Create(r.Context(), req.Name)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toResponse(c))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ListFilter{
			Status: Status(r.URL.Query().Get("estado")),
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]categoryResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "categoryID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func renameHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		c, err := svc.Rename(r.Context(), chi.URLParam(r, "categoryID"), req.Name)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(c))
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

		c, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "categoryID"), Status(req.Status))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
