package catalog

import (
	"context"
	"testing"

	"pet-boarding-backend/internal/apperrors"
)

type testRepo struct {
	byID map[string]Service
}

func newTestRepo() *testRepo {
	return &testRepo{byID: make(map[string]Service)}
}

func (r *testRepo) Create(ctx context.Context, s Service) error {
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return Service{}, apperrors.NotFound("servicio " + id + " no encontrado")
	}
	return s, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Service, error) {
	out := make([]Service, 0)
	for _, s := range r.byID {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, s Service) error {
	if _, ok := r.byID[s.ID]; !ok {
		return apperrors.NotFound("servicio " + s.ID + " no encontrado")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("servicio " + id + " no encontrado")
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) Missing(ctx context.Context, ids []string) ([]string, error) {
	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := r.byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// -------------------------
// Precio
// -------------------------

// Un servicio gratuito (precio 0) es válido: promociones, cortesías.
func TestManager_Create_ZeroPrice_Allowed(t *testing.T) {
	mgr := NewManager(newTestRepo())

	svc, err := mgr.Create(context.Background(), CreateInput{
		Name:  "evaluación inicial",
		Price: 0,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if svc.Price != 0 {
		t.Fatalf("expected price 0, got %v", svc.Price)
	}
	if svc.Status != StatusActive {
		t.Fatalf("expected new service active, got %s", svc.Status)
	}
}

func TestManager_Create_NegativePrice_BadRequest(t *testing.T) {
	mgr := NewManager(newTestRepo())

	_, err := mgr.Create(context.Background(), CreateInput{
		Name:  "pensión",
		Price: -10,
	})
	if !apperrors.IsKind(err, apperrors.KindBadRequest) {
		t.Fatalf("expected BadRequest for negative price, got %v", err)
	}
}

func TestManager_Update_PriceToZero_Allowed(t *testing.T) {
	repo := newTestRepo()
	mgr := NewManager(repo)

	svc, err := mgr.Create(context.Background(), CreateInput{
		Name:  "paseo",
		Price: 25,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	zero := 0.0
	updated, err := mgr.Update(context.Background(), svc.ID, UpdateInput{Price: &zero})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Price != 0 {
		t.Fatalf("expected price 0 after update, got %v", updated.Price)
	}
}
