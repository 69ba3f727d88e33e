package payments

import (
	"context"
	"testing"
	"time"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/platform/logger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Payment
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Payment{}}
}

func (r *testRepo) Create(ctx context.Context, p Payment) error {
	for _, other := range r.byID {
		if other.ContractID == p.ContractID && other.PaymentMonth == p.PaymentMonth {
			return apperrors.Conflict("el contrato ya tiene un pago para ese mes")
		}
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return Payment{}, apperrors.NotFound("pago no encontrado")
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Payment, error) {
	out := make([]Payment, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) ListByContract(ctx context.Context, contractID string) ([]Payment, error) {
	out := make([]Payment, 0)
	for _, p := range r.byID {
		if p.ContractID == contractID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Payment) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperrors.NotFound("pago no encontrado")
	}
	for _, other := range r.byID {
		if other.ID != p.ID && other.ContractID == p.ContractID && other.PaymentMonth == p.PaymentMonth {
			return apperrors.Conflict("el contrato ya tiene un pago para ese mes")
		}
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("pago no encontrado")
	}
	delete(r.byID, id)
	return nil
}

// stubContracts responde el estado fijado por contrato.
type stubContracts struct {
	status map[string]contracts.Status
}

func (s stubContracts) StatusOf(ctx context.Context, id string) (contracts.Status, error) {
	st, ok := s.status[id]
	if !ok {
		return "", apperrors.NotFound("contrato no encontrado")
	}
	return st, nil
}

func newTestService(repo *testRepo) *Service {
	return NewService(repo, stubContracts{status: map[string]contracts.Status{
		"contract-active":    contracts.StatusActive,
		"contract-finished":  contracts.StatusFinished,
		"contract-cancelled": contracts.StatusCancelled,
	}}, logger.Nop())
}

func validInput() CreateInput {
	return CreateInput{
		ContractID:   "contract-active",
		Amount:       150,
		Method:       MethodCash,
		PaymentMonth: 3,
		PaymentDate:  time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_OK(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("expected payment persisted")
	}
}

func TestService_Create_NonActiveContract_Conflict(t *testing.T) {
	svc := newTestService(newTestRepo())

	for _, contractID := range []string{"contract-finished", "contract-cancelled"} {
		in := validInput()
		in.ContractID = contractID
		_, err := svc.Create(context.Background(), in)
		if !apperrors.IsKind(err, apperrors.KindConflict) {
			t.Fatalf("contract %s: expected Conflict, got %v", contractID, err)
		}
	}
}

func TestService_Create_UnknownContract_NotFound(t *testing.T) {
	svc := newTestService(newTestRepo())

	in := validInput()
	in.ContractID = "missing"
	_, err := svc.Create(context.Background(), in)
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(newTestRepo())

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"monto cero", func(in *CreateInput) { in.Amount = 0 }},
		{"método inválido", func(in *CreateInput) { in.Method = "cheque" }},
		{"mes cero", func(in *CreateInput) { in.PaymentMonth = 0 }},
		{"mes trece", func(in *CreateInput) { in.PaymentMonth = 13 }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		if _, err := svc.Create(context.Background(), in); !apperrors.IsKind(err, apperrors.KindBadRequest) {
			t.Fatalf("%s: expected BadRequest, got %v", tc.name, err)
		}
	}
}

func TestService_Create_DuplicateMonth_Conflict(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	_, err := svc.Create(context.Background(), validInput())
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict for duplicate month, got %v", err)
	}
}

func TestService_Update_MoveToTakenMonth_Conflict(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}

	in := validInput()
	in.PaymentMonth = 4
	p2, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create #2 error: %v", err)
	}

	taken := 3
	_, err = svc.Update(context.Background(), p2.ID, UpdateInput{PaymentMonth: &taken})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict moving onto a taken month, got %v", err)
	}
}

func TestService_Update_DefaultsDateToNow(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	in := validInput()
	in.PaymentDate = time.Time{}
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.PaymentDate.IsZero() {
		t.Fatalf("expected payment date defaulted")
	}
}
