package specimens

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/ejemplares", func(er chi.Router) {
		er.With(gate("ejemplares.crear")).Post("/", createHandler(svc))
		er.With(gate("ejemplares.ver")).Get("/", listHandler(svc))
		er.With(gate("ejemplares.ver")).Get("/{specimenID}", getHandler(svc))
		er.With(gate("ejemplares.editar")).Patch("/{specimenID}", updateHandler(svc))
		er.With(gate("ejemplares.mover")).Patch("/{specimenID}/mover", relocateHandler(svc))
		er.With(gate("ejemplares.eliminar")).Delete("/{specimenID}", deleteHandler(svc))
	})
}

type createSpecimenRequest struct {
	Name       string `json:"name"`
	Breed      string `json:"breed"`
	Color      string `json:"color"`
	BirthDate  string `json:"birth_date"` // YYYY-MM-DD opcional
	OwnerID    string `json:"owner_id"`
	CategoryID string `json:"category_id"`
	SedeID     string `json:"sede_id"`
}

type updateSpecimenRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string `json:"name"`
	Breed     *string `json:"breed"`
	Color     *string `json:"color"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD, "" limpia
	OwnerID   *string `json:"owner_id"`
}

type relocateRequest struct {
	CategoryID *string `json:"category_id"`
	SedeID     *string `json:"sede_id"` // "" des-asigna la sede
}

type specimenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Breed      string     `json:"breed"`
	Color      string     `json:"color"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	OwnerID    string     `json:"owner_id"`
	CategoryID string     `json:"category_id"`
	SedeID     *string    `json:"sede_id,omitempty"`
	ContractID *string    `json:"contract_id,omitempty"`
	Identifier string     `json:"identifier"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toResponse(sp Specimen) specimenResponse {
	return specimenResponse{
		ID:         sp.ID,
		Name:       sp.Name,
		Breed:      sp.Breed,
		Color:      sp.Color,
		BirthDate:  sp.BirthDate,
		OwnerID:    sp.OwnerID,
		CategoryID: sp.CategoryID,
		SedeID:     sp.SedeID,
		ContractID: sp.ContractID,
		Identifier: sp.Identifier,
		CreatedAt:  sp.CreatedAt,
		UpdatedAt:  sp.UpdatedAt,
	}
}

func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, apperrors.BadRequest("birth_date debe ser YYYY-MM-DD")
	}
	return &t, nil
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSpecimenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		bd, err := parseDate(req.BirthDate)
		if err != nil {
			web.WriteError(w, err)
			return
		}

		var sedeID *string
		if strings.TrimSpace(req.SedeID) != "" {
			t := strings.TrimSpace(req.SedeID)
			sedeID = &t
		}

		sp, err := svc.Create(r.Context(), CreateInput{
			Name:       req.Name,
			Breed:      req.Breed,
			Color:      req.Color,
			BirthDate:  bd,
			OwnerID:    req.OwnerID,
			CategoryID: req.CategoryID,
			SedeID:     sedeID,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toResponse(sp))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			OwnerID:    q.Get("cliente"),
			CategoryID: q.Get("categoria"),
			SedeID:     q.Get("sede"),
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]specimenResponse, 0, len(items))
		for _, sp := range items {
			out = append(out, toResponse(sp))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sp, err := svc.GetByID(r.Context(), chi.URLParam(r, "specimenID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(sp))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSpecimenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		in := UpdateInput{
			Name:    req.Name,
			Breed:   req.Breed,
			Color:   req.Color,
			OwnerID: req.OwnerID,
		}
		if req.BirthDate != nil {
			if strings.TrimSpace(*req.BirthDate) == "" {
				in.ClearBirthDate = true
			} else {
				bd, err := parseDate(*req.BirthDate)
				if err != nil {
					web.WriteError(w, err)
					return
				}
				in.BirthDate = bd
			}
		}

		sp, err := svc.Update(r.Context(), chi.URLParam(r, "specimenID"), in)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(sp))
	}
}

func relocateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req relocateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		sp, err := svc.Relocate(r.Context(), chi.URLParam(r, "specimenID"), RelocateInput{
			CategoryID: req.CategoryID,
			SedeID:     req.SedeID,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(sp))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "specimenID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
