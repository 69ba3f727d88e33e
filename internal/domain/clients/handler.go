package clients

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/clientes", func(cr chi.Router) {
		cr.With(gate("clientes.crear")).Post("/", createHandler(svc))
		cr.With(gate("clientes.ver")).Get("/", listHandler(svc))
		cr.With(gate("clientes.ver")).Get("/{clientID}", getHandler(svc))
		cr.With(gate("clientes.editar")).Patch("/{clientID}", updateHandler(svc))
		cr.With(gate("clientes.editar")).Patch("/{clientID}/estado", statusHandler(svc))

		// Dos estrategias de borrado explícitas: DELETE desactiva (soft),
		// DELETE /definitivo purga (hard, solo sin ejemplares).
		cr.With(gate("clientes.eliminar")).Delete("/{clientID}", deactivateHandler(svc))
		cr.With(gate("clientes.eliminar")).Delete("/{clientID}/definitivo", purgeHandler(svc))
	})
}

type clientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type clientPatchRequest struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type clientResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Document      string    `json:"document"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	SpecimenCount int       `json:"specimen_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(c Client) clientResponse {
	return clientResponse{
		ID:            c.ID,
		Name:          c.Name,
		Document:      c.Document,
		Email:         c.Email,
		Phone:         c.Phone,
		SpecimenCount: c.SpecimenCount,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:     req.Name,
			Document: req.Document,
			Email:    req.Email,
			Phone:    req.Phone,
		})
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
		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clientID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "clientID"), UpdateInput{
			Name:     req.Name,
			Document: req.Document,
			Email:    req.Email,
			Phone:    req.Phone,
		})
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

		c, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "clientID"), Status(req.Status))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func deactivateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Deactivate(r.Context(), chi.URLParam(r, "clientID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func purgeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Purge(r.Context(), chi.URLParam(r, "clientID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
