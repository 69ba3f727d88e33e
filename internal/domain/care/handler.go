package care

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/cuidados", func(cr chi.Router) {
		cr.With(gate("cuidados.crear")).Post("/", createHandler(svc))
		cr.With(gate("cuidados.ver")).Get("/{recordID}", getHandler(svc))
		cr.With(gate("cuidados.editar")).Patch("/{recordID}", updateHandler(svc))
		cr.With(gate("cuidados.editar")).Patch("/{recordID}/estado", statusHandler(svc))
		cr.With(gate("cuidados.eliminar")).Delete("/{recordID}", deleteHandler(svc))
	})
	r.With(gate("cuidados.ver")).Get("/ejemplares/{specimenID}/cuidados", listBySpecimenHandler(svc))
}

type recordResponse struct {
	ID          string     `json:"id"`
	SpecimenID  string     `json:"specimen_id"`
	Kind        string     `json:"kind"`
	Name        string     `json:"name"`
	Dose        string     `json:"dose,omitempty"`
	Frequency   string     `json:"frequency,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:          rec.ID,
		SpecimenID:  rec.SpecimenID,
		Kind:        string(rec.Kind),
		Name:        rec.Name,
		Dose:        rec.Dose,
		Frequency:   rec.Frequency,
		Status:      string(rec.Status),
		ScheduledAt: rec.ScheduledAt,
		AppliedAt:   rec.AppliedAt,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SpecimenID  string `json:"specimen_id"`
			Kind        string `json:"kind"`
			Name        string `json:"name"`
			Dose        string `json:"dose"`
			Frequency   string `json:"frequency"`
			ScheduledAt string `json:"scheduled_at"`
			Notes       string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		var scheduled time.Time
		if req.ScheduledAt != "" {
			var err error
			scheduled, err = time.Parse(time.RFC3339, req.ScheduledAt)
			if err != nil {
				web.WriteError(w, apperrors.BadRequest("scheduled_at debe ser RFC3339"))
				return
			}
		}

		rec, err := svc.Create(r.Context(), CreateInput{
			SpecimenID:  req.SpecimenID,
			Kind:        Kind(req.Kind),
			Name:        req.Name,
			Dose:        req.Dose,
			Frequency:   req.Frequency,
			ScheduledAt: scheduled,
			Notes:       req.Notes,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.GetByID(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func listBySpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListBySpecimen(r.Context(),
			chi.URLParam(r, "specimenID"),
			Kind(r.URL.Query().Get("tipo")))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        *string `json:"name"`
			Dose        *string `json:"dose"`
			Frequency   *string `json:"frequency"`
			ScheduledAt *string `json:"scheduled_at"`
			Notes       *string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		in := UpdateInput{
			Name:      req.Name,
			Dose:      req.Dose,
			Frequency: req.Frequency,
			Notes:     req.Notes,
		}
		if req.ScheduledAt != nil {
			t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
			if err != nil {
				web.WriteError(w, apperrors.BadRequest("scheduled_at debe ser RFC3339"))
				return
			}
			in.ScheduledAt = &t
		}

		rec, err := svc.Update(r.Context(), chi.URLParam(r, "recordID"), in)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
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

		rec, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "recordID"), Status(req.Status))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "recordID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
