package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, mgr *Manager, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/servicios", func(sr chi.Router) {
		sr.With(gate("servicios.crear")).Post("/", createHandler(mgr))
		sr.With(gate("servicios.ver")).Get("/", listHandler(mgr))
		sr.With(gate("servicios.ver")).Get("/{serviceID}", getHandler(mgr))
		sr.With(gate("servicios.editar")).Patch("/{serviceID}", updateHandler(mgr))
		sr.With(gate("servicios.editar")).Patch("/{serviceID}/estado", statusHandler(mgr))
		sr.With(gate("servicios.eliminar")).Delete("/{serviceID}", deleteHandler(mgr))
	})
}

type serviceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

type servicePatchRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

type serviceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(s Service) serviceResponse {
	return serviceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		ImageURL:    s.ImageURL,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func createHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		s, err := mgr.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toResponse(s))
	}
}

func listHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := mgr.List(r.Context(), ListFilter{
			Status: Status(r.URL.Query().Get("estado")),
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]serviceResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toResponse(s))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.GetByID(r.Context(), chi.URLParam(r, "serviceID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(s))
	}
}

func updateHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req servicePatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		s, err := mgr.Update(r.Context(), chi.URLParam(r, "serviceID"), UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(s))
	}
}

func statusHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		s, err := mgr.UpdateStatus(r.Context(), chi.URLParam(r, "serviceID"), Status(req.Status))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(s))
	}
}

func deleteHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := mgr.Delete(r.Context(), chi.URLParam(r, "serviceID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
