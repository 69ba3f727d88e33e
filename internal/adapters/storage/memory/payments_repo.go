package memory

import (
	"context"
	"sort"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/domain/payments"
)

type paymentRepo struct {
	store *Store
}

func NewPaymentRepo(store *Store) payments.Repository {
	return &paymentRepo{store: store}
}

func (r *paymentRepo) Create(ctx context.Context, p payments.Payment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[p.ContractID]
	if !ok {
		return apperrors.NotFound("contrato " + p.ContractID + " no encontrado")
	}
	// Revalidación bajo el mismo lock: el estado pudo cambiar después del
	// chequeo del servicio.
	if c.Status != contracts.StatusActive {
		return apperrors.Conflict("solo se registran pagos sobre contratos activos")
	}
	// Unicidad (contract_id, payment_month) bajo el mismo lock: dos
	// registros concurrentes del mismo mes producen exactamente un pago.
	for _, existing := range s.payments {
		if existing.ContractID == p.ContractID && existing.PaymentMonth == p.PaymentMonth {
			return apperrors.Conflictf("el contrato ya tiene un pago registrado para el mes %d", p.PaymentMonth)
		}
	}
	s.payments[p.ID] = p
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (payments.Payment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return payments.Payment{}, apperrors.NotFound("pago " + id + " no encontrado")
	}
	return p, nil
}

func (r *paymentRepo) List(ctx context.Context) ([]payments.Payment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]payments.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PaymentDate.Before(out[j].PaymentDate)
	})
	return out, nil
}

func (r *paymentRepo) ListByContract(ctx context.Context, contractID string) ([]payments.Payment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]payments.Payment, 0)
	for _, p := range s.payments {
		if p.ContractID == contractID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PaymentMonth < out[j].PaymentMonth
	})
	return out, nil
}

func (r *paymentRepo) Update(ctx context.Context, p payments.Payment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.ID]; !ok {
		return apperrors.NotFound("pago " + p.ID + " no encontrado")
	}
	for _, other := range s.payments {
		if other.ID != p.ID && other.ContractID == p.ContractID && other.PaymentMonth == p.PaymentMonth {
			return apperrors.Conflictf("el contrato ya tiene un pago registrado para el mes %d", p.PaymentMonth)
		}
	}
	s.payments[p.ID] = p
	return nil
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[id]; !ok {
		return apperrors.NotFound("pago " + id + " no encontrado")
	}
	delete(s.payments, id)
	return nil
}
