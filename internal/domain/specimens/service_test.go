package specimens

import (
	"context"
	"testing"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Specimen
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Specimen{}}
}

func (r *testRepo) Create(ctx context.Context, sp Specimen) error {
	if _, ok := r.byID[sp.ID]; ok {
		return apperrors.Conflict("ejemplar duplicado")
	}
	r.byID[sp.ID] = sp
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Specimen, error) {
	sp, ok := r.byID[id]
	if !ok {
		return Specimen{}, apperrors.NotFound("ejemplar no encontrado")
	}
	return sp, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Specimen, error) {
	out := make([]Specimen, 0)
	for _, sp := range r.byID {
		if f.OwnerID != "" && sp.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, sp)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, sp Specimen) error {
	if _, ok := r.byID[sp.ID]; !ok {
		return apperrors.NotFound("ejemplar no encontrado")
	}
	r.byID[sp.ID] = sp
	return nil
}

func (r *testRepo) Relocate(ctx context.Context, id string, categoryID *string, sedeID *string) error {
	sp, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound("ejemplar no encontrado")
	}
	if categoryID != nil {
		sp.CategoryID = *categoryID
	}
	if sedeID != nil {
		if *sedeID == "" {
			sp.SedeID = nil
		} else {
			v := *sedeID
			sp.SedeID = &v
		}
	}
	r.byID[id] = sp
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("ejemplar no encontrado")
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Stubs de directorios
// -------------------------

type stubClients struct{ exists bool }

func (s stubClients) Exists(ctx context.Context, id string) (bool, error) {
	return s.exists, nil
}

type stubCategories struct {
	active map[string]bool
}

func (s stubCategories) IsActive(ctx context.Context, id string) (bool, error) {
	active, ok := s.active[id]
	if !ok {
		return false, apperrors.NotFound("categoría no encontrada")
	}
	return active, nil
}

type stubSedes struct{ exists bool }

func (s stubSedes) Exists(ctx context.Context, id string) (bool, error) {
	return s.exists, nil
}

func newTestService(repo *testRepo) *Service {
	return NewService(
		repo,
		stubClients{exists: true},
		stubCategories{active: map[string]bool{"cat-1": true, "cat-2": true, "cat-frozen": false}},
		stubSedes{exists: true},
		logger.Nop(),
	)
}

func createOne(t *testing.T, svc *Service) Specimen {
	t.Helper()
	sp, err := svc.Create(context.Background(), CreateInput{
		Name:       "Rex",
		Breed:      "pastor alemán",
		OwnerID:    "client-1",
		CategoryID: "cat-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return sp
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_AssignsIdentifier(t *testing.T) {
	svc := newTestService(newTestRepo())
	sp := createOne(t, svc)

	if sp.Identifier == "" {
		t.Fatalf("expected a generated identifier")
	}
	if sp.ContractID != nil {
		t.Fatalf("expected new specimen to be free of contract")
	}
}

func TestService_Create_FrozenCategory_Rejected(t *testing.T) {
	svc := newTestService(newTestRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		Name:       "Luna",
		OwnerID:    "client-1",
		CategoryID: "cat-frozen",
	})
	if err == nil {
		t.Fatalf("expected error for inactive category")
	}
}

func TestService_Update_OwnerTransfer(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	sp := createOne(t, svc)

	newOwner := "client-2"
	updated, err := svc.Update(context.Background(), sp.ID, UpdateInput{OwnerID: &newOwner})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.OwnerID != newOwner {
		t.Fatalf("expected owner %s, got %s", newOwner, updated.OwnerID)
	}
}

func TestService_Update_EmptyOwner_BadRequest(t *testing.T) {
	svc := newTestService(newTestRepo())
	sp := createOne(t, svc)

	empty := "   "
	_, err := svc.Update(context.Background(), sp.ID, UpdateInput{OwnerID: &empty})
	if !apperrors.IsKind(err, apperrors.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestService_Relocate_NoFields_BadRequest(t *testing.T) {
	svc := newTestService(newTestRepo())
	sp := createOne(t, svc)

	_, err := svc.Relocate(context.Background(), sp.ID, RelocateInput{})
	if !apperrors.IsKind(err, apperrors.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestService_Relocate_SameDestination_Conflict(t *testing.T) {
	// Reubicar al mismo lugar no es idempotente silencioso: es Conflict.
	svc := newTestService(newTestRepo())
	sp := createOne(t, svc)

	same := sp.CategoryID
	_, err := svc.Relocate(context.Background(), sp.ID, RelocateInput{CategoryID: &same})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict for no-op relocation, got %v", err)
	}
}

func TestService_Relocate_ChangesCategory(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	sp := createOne(t, svc)

	target := "cat-2"
	moved, err := svc.Relocate(context.Background(), sp.ID, RelocateInput{CategoryID: &target})
	if err != nil {
		t.Fatalf("Relocate error: %v", err)
	}
	if moved.CategoryID != target {
		t.Fatalf("expected category %s, got %s", target, moved.CategoryID)
	}
	if moved.OwnerID != sp.OwnerID {
		t.Fatalf("relocation must not touch ownership")
	}
}

func TestService_Relocate_ClearsSede(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	sp := createOne(t, svc)

	// asignar sede primero
	sede := "sede-1"
	if _, err := svc.Relocate(context.Background(), sp.ID, RelocateInput{SedeID: &sede}); err != nil {
		t.Fatalf("Relocate (assign) error: %v", err)
	}

	// sede vacía explícita la des-asigna
	none := ""
	moved, err := svc.Relocate(context.Background(), sp.ID, RelocateInput{SedeID: &none})
	if err != nil {
		t.Fatalf("Relocate (clear) error: %v", err)
	}
	if moved.SedeID != nil {
		t.Fatalf("expected sede cleared, got %v", *moved.SedeID)
	}
}

func TestService_Delete_BoundToContract_Conflict(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	sp := createOne(t, svc)

	contractID := "contract-1"
	stored := repo.byID[sp.ID]
	stored.ContractID = &contractID
	repo.byID[sp.ID] = stored

	err := svc.Delete(context.Background(), sp.ID)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict deleting a bound specimen, got %v", err)
	}
	if _, ok := repo.byID[sp.ID]; !ok {
		t.Fatalf("expected specimen to survive the rejected delete")
	}
}

func TestService_IsBound(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	sp := createOne(t, svc)

	exists, bound, err := svc.IsBound(context.Background(), sp.ID)
	if err != nil || !exists || bound {
		t.Fatalf("expected exists && !bound, got exists=%v bound=%v err=%v", exists, bound, err)
	}

	contractID := "contract-1"
	stored := repo.byID[sp.ID]
	stored.ContractID = &contractID
	repo.byID[sp.ID] = stored

	_, bound, err = svc.IsBound(context.Background(), sp.ID)
	if err != nil || !bound {
		t.Fatalf("expected bound specimen, got bound=%v err=%v", bound, err)
	}

	exists, _, err = svc.IsBound(context.Background(), "missing")
	if err != nil || exists {
		t.Fatalf("expected exists=false for unknown id, got exists=%v err=%v", exists, err)
	}
}
