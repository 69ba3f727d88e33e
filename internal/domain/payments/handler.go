package payments

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/pagos", func(pr chi.Router) {
		pr.With(gate("pagos.crear")).Post("/", createHandler(svc))
		pr.With(gate("pagos.ver")).Get("/", listHandler(svc))
		pr.With(gate("pagos.ver")).Get("/{paymentID}", getHandler(svc))
		pr.With(gate("pagos.editar")).Patch("/{paymentID}", updateHandler(svc))
		pr.With(gate("pagos.eliminar")).Delete("/{paymentID}", deleteHandler(svc))
	})
	r.With(gate("pagos.ver")).Get("/contratos/{contractID}/pagos", listByContractHandler(svc))
}

type paymentResponse struct {
	ID           string    `json:"id"`
	ContractID   string    `json:"contract_id"`
	Amount       float64   `json:"amount"`
	Method       string    `json:"method"`
	PaymentMonth int       `json:"payment_month"`
	PaymentDate  time.Time `json:"payment_date"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toPaymentResponse(p Payment) paymentResponse {
	return paymentResponse{
		ID:           p.ID,
		ContractID:   p.ContractID,
		Amount:       p.Amount,
		Method:       string(p.Method),
		PaymentMonth: p.PaymentMonth,
		PaymentDate:  p.PaymentDate,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ContractID   string  `json:"contract_id"`
			Amount       float64 `json:"amount"`
			Method       string  `json:"method"`
			PaymentMonth int     `json:"payment_month"`
			PaymentDate  string  `json:"payment_date"`
			Notes        string  `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		var date time.Time
		if req.PaymentDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", req.PaymentDate)
			if err != nil {
				web.WriteError(w, apperrors.BadRequest("payment_date debe ser YYYY-MM-DD"))
				return
			}
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ContractID:   req.ContractID,
			Amount:       req.Amount,
			Method:       Method(req.Method),
			PaymentMonth: req.PaymentMonth,
			PaymentDate:  date,
			Notes:        req.Notes,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toPaymentResponse(p))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "paymentID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toPaymentResponse(p))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]paymentResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPaymentResponse(p))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func listByContractHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByContract(r.Context(), chi.URLParam(r, "contractID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]paymentResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPaymentResponse(p))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount       *float64 `json:"amount"`
			Method       *string  `json:"method"`
			PaymentMonth *int     `json:"payment_month"`
			PaymentDate  *string  `json:"payment_date"`
			Notes        *string  `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		var in UpdateInput
		in.Amount = req.Amount
		in.PaymentMonth = req.PaymentMonth
		in.Notes = req.Notes
		if req.Method != nil {
			m := Method(*req.Method)
			in.Method = &m
		}
		if req.PaymentDate != nil {
			date, err := time.Parse("2006-01-02", *req.PaymentDate)
			if err != nil {
				web.WriteError(w, apperrors.BadRequest("payment_date debe ser YYYY-MM-DD"))
				return
			}
			in.PaymentDate = &date
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "paymentID"), in)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toPaymentResponse(p))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "paymentID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
