package contracts

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
	r.Route("/contratos", func(cr chi.Router) {
		cr.With(gate("contratos.crear")).Post("/", createHandler(svc))
		cr.With(gate("contratos.ver")).Get("/", listHandler(svc))
		cr.With(gate("contratos.ver")).Get("/{contractID}", detailHandler(svc))
		cr.With(gate("contratos.editar")).Patch("/{contractID}", updateHandler(svc))
		cr.With(gate("contratos.editar")).Patch("/{contractID}/estado", statusHandler(svc))
		cr.With(gate("contratos.eliminar")).Delete("/{contractID}", deleteHandler(svc))
	})
}

type createContractRequest struct {
	ClientID     string   `json:"client_id"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	MonthlyPrice float64  `json:"monthly_price"`
	Terms        string   `json:"terms"`
	SpecimenID   *string  `json:"specimen_id"`
	ServiceIDs   []string `json:"service_ids"`
}

type contractResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	StartDate    time.Time `json:"start_date"`
	MonthlyPrice float64   `json:"monthly_price"`
	Status       string    `json:"status"`
	Terms        string    `json:"terms"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type detailResponse struct {
	contractResponse
	Client         clientSummaryResponse     `json:"client"`
	Specimens      []specimenSummaryResponse `json:"specimens"`
	Services       []serviceSummaryResponse  `json:"services"`
	RecentPayments []paymentSummaryResponse  `json:"recent_payments"`
}

type clientSummaryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
}

type specimenSummaryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Breed      string `json:"breed"`
	Identifier string `json:"identifier"`
}

type serviceSummaryResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type paymentSummaryResponse struct {
	ID           string    `json:"id"`
	Amount       float64   `json:"amount"`
	Method       string    `json:"method"`
	PaymentMonth int       `json:"payment_month"`
	PaymentDate  time.Time `json:"payment_date"`
}

func toContractResponse(c Contract) contractResponse {
	return contractResponse{
		ID:           c.ID,
		ClientID:     c.ClientID,
		StartDate:    c.StartDate,
		MonthlyPrice: c.MonthlyPrice,
		Status:       string(c.Status),
		Terms:        c.Terms,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toDetailResponse(d Detail) detailResponse {
	out := detailResponse{
		contractResponse: toContractResponse(d.Contract),
		Client: clientSummaryResponse{
			ID:       d.Client.ID,
			Name:     d.Client.Name,
			Document: d.Client.Document,
			Email:    d.Client.Email,
		},
		Specimens:      make([]specimenSummaryResponse, 0, len(d.Specimens)),
		Services:       make([]serviceSummaryResponse, 0, len(d.Services)),
		RecentPayments: make([]paymentSummaryResponse, 0, len(d.RecentPayments)),
	}
	for _, sp := range d.Specimens {
		out.Specimens = append(out.Specimens, specimenSummaryResponse{
			ID: sp.ID, Name: sp.Name, Breed: sp.Breed, Identifier: sp.Identifier,
		})
	}
	for _, sv := range d.Services {
		out.Services = append(out.Services, serviceSummaryResponse{
			ID: sv.ID, Name: sv.Name, Price: sv.Price,
		})
	}
	for _, p := range d.RecentPayments {
		out.RecentPayments = append(out.RecentPayments, paymentSummaryResponse{
			ID: p.ID, Amount: p.Amount, Method: p.Method,
			PaymentMonth: p.PaymentMonth, PaymentDate: p.PaymentDate,
		})
	}
	return out
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createContractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		start, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
		if err != nil {
			web.WriteError(w, apperrors.BadRequest("start_date debe ser YYYY-MM-DD"))
			return
		}

		detail, err := svc.Create(r.Context(), CreateInput{
			ClientID:     req.ClientID,
			StartDate:    start,
			MonthlyPrice: req.MonthlyPrice,
			Terms:        req.Terms,
			SpecimenID:   req.SpecimenID,
			ServiceIDs:   req.ServiceIDs,
		})
		if err != nil {
			// PostCommit: la escritura SÍ ocurrió. Devolvemos el error con
			// su categoría propia para que el caller no reintente la creación.
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toDetailResponse(detail))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			ClientID: q.Get("cliente"),
			Status:   Status(q.Get("estado")),
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]contractResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toContractResponse(c))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func detailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDetail(r.Context(), chi.URLParam(r, "contractID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toDetailResponse(d))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decodificamos a map primero para distinguir "campo ausente" de
		// "campo presente" (service_ids vacío significa quitar todos) y
		// para rechazar client_id, que es inmutable.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}
		if _, exists := raw["client_id"]; exists {
			web.WriteError(w, apperrors.BadRequest("client_id es inmutable: no puede cambiarse el cliente de un contrato"))
			return
		}

		var in UpdateInput
		if v, ok := raw["start_date"]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				web.WriteError(w, apperrors.BadRequest("start_date debe ser YYYY-MM-DD"))
				return
			}
			t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
			if err != nil {
				web.WriteError(w, apperrors.BadRequest("start_date debe ser YYYY-MM-DD"))
				return
			}
			in.StartDate = &t
		}
		if v, ok := raw["monthly_price"]; ok {
			var p float64
			if err := json.Unmarshal(v, &p); err != nil {
				web.WriteError(w, apperrors.BadRequest("monthly_price debe ser numérico"))
				return
			}
			in.MonthlyPrice = &p
		}
		if v, ok := raw["terms"]; ok {
			var t string
			if err := json.Unmarshal(v, &t); err != nil {
				web.WriteError(w, apperrors.BadRequest("terms debe ser texto"))
				return
			}
			in.Terms = &t
		}
		if v, ok := raw["service_ids"]; ok {
			var ids []string
			if err := json.Unmarshal(v, &ids); err != nil {
				web.WriteError(w, apperrors.BadRequest("service_ids debe ser una lista de IDs"))
				return
			}
			if ids == nil {
				ids = []string{}
			}
			in.ServiceIDs = &ids
		}

		detail, err := svc.Update(r.Context(), chi.URLParam(r, "contractID"), in)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toDetailResponse(detail))
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

		c, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "contractID"), Status(req.Status))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toContractResponse(c))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "contractID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
