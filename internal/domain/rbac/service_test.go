package rbac

import (
	"context"
	"reflect"
	"testing"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Role
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Role{}}
}

func (r *testRepo) Create(ctx context.Context, role Role) error {
	for _, other := range r.byID {
		if other.Name == role.Name {
			return apperrors.Conflict("ya existe un rol con ese nombre")
		}
	}
	r.byID[role.ID] = role
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Role, error) {
	role, ok := r.byID[id]
	if !ok {
		return Role{}, apperrors.NotFound("rol no encontrado")
	}
	return role, nil
}

func (r *testRepo) GetByName(ctx context.Context, name string) (Role, error) {
	for _, role := range r.byID {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, apperrors.NotFound("rol no encontrado")
}

func (r *testRepo) List(ctx context.Context) ([]Role, error) {
	out := make([]Role, 0, len(r.byID))
	for _, role := range r.byID {
		out = append(out, role)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, role Role, replacePermissions bool) error {
	stored, ok := r.byID[role.ID]
	if !ok {
		return apperrors.NotFound("rol no encontrado")
	}
	if !replacePermissions {
		role.Permissions = stored.Permissions
	}
	r.byID[role.ID] = role
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("rol no encontrado")
	}
	delete(r.byID, id)
	return nil
}

// stubUsers mapea usuario -> rol para el resolver.
type stubUsers struct {
	roleByUser map[string]string
}

func (s stubUsers) RoleIDOf(ctx context.Context, userID string) (string, error) {
	roleID, ok := s.roleByUser[userID]
	if !ok {
		return "", apperrors.NotFound("usuario no encontrado")
	}
	return roleID, nil
}

func newTestService(repo *testRepo) *Service {
	return NewService(repo, logger.Nop())
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NormalizesPermissions(t *testing.T) {
	svc := newTestService(newTestRepo())

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "recepcionista",
		Permissions: []string{" clientes.ver ", "clientes.crear", "clientes.ver", "", "clientes.crear"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	want := []string{"clientes.crear", "clientes.ver"}
	if !reflect.DeepEqual(role.Permissions, want) {
		t.Fatalf("expected %v, got %v", want, role.Permissions)
	}
}

func TestService_Create_DuplicateName_Conflict(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{Name: "admin"}); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	_, err := svc.Create(context.Background(), CreateInput{Name: "admin"})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestService_Update_NilPermissions_LeavesSet(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "veterinario",
		Permissions: []string{"cuidados.ver", "cuidados.editar"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	desc := "atiende los cuidados"
	updated, err := svc.Update(context.Background(), role.ID, UpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	stored := repo.byID[role.ID]
	if len(stored.Permissions) != 2 {
		t.Fatalf("expected permissions untouched, got %v", stored.Permissions)
	}
	if updated.Description != desc {
		t.Fatalf("expected description updated")
	}
}

func TestService_Update_EmptyPermissions_ClearsSet(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "veterinario",
		Permissions: []string{"cuidados.ver"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	empty := []string{}
	if _, err := svc.Update(context.Background(), role.ID, UpdateInput{Permissions: &empty}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(repo.byID[role.ID].Permissions) != 0 {
		t.Fatalf("expected permissions cleared, got %v", repo.byID[role.ID].Permissions)
	}
}

func TestService_IsAssignable(t *testing.T) {
	svc := newTestService(newTestRepo())

	role, err := svc.Create(context.Background(), CreateInput{Name: "admin"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	ok, err := svc.IsAssignable(context.Background(), role.ID)
	if err != nil || !ok {
		t.Fatalf("expected active role assignable, got ok=%v err=%v", ok, err)
	}

	if _, err := svc.UpdateStatus(context.Background(), role.ID, StatusInactive); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	ok, err = svc.IsAssignable(context.Background(), role.ID)
	if err != nil || ok {
		t.Fatalf("expected inactive role not assignable, got ok=%v err=%v", ok, err)
	}

	ok, err = svc.IsAssignable(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected unknown role not assignable, got ok=%v err=%v", ok, err)
	}
}

func TestResolver_HasPermission(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "recepcionista",
		Permissions: []string{"clientes.ver"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	resolver := NewResolver(svc, stubUsers{roleByUser: map[string]string{"user-1": role.ID}})

	ok, err := resolver.HasPermission(context.Background(), "user-1", "clientes.ver")
	if err != nil || !ok {
		t.Fatalf("expected permission granted, got ok=%v err=%v", ok, err)
	}
	ok, err = resolver.HasPermission(context.Background(), "user-1", "clientes.eliminar")
	if err != nil || ok {
		t.Fatalf("expected permission denied, got ok=%v err=%v", ok, err)
	}
	// usuario desconocido: denegar sin error
	ok, err = resolver.HasPermission(context.Background(), "ghost", "clientes.ver")
	if err != nil || ok {
		t.Fatalf("expected unknown user denied, got ok=%v err=%v", ok, err)
	}
}

func TestResolver_PicksUpPermissionChanges(t *testing.T) {
	// Sin caché: quitar el permiso del rol aplica en el siguiente chequeo.
	repo := newTestRepo()
	svc := newTestService(repo)

	role, err := svc.Create(context.Background(), CreateInput{
		Name:        "recepcionista",
		Permissions: []string{"clientes.ver"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	resolver := NewResolver(svc, stubUsers{roleByUser: map[string]string{"user-1": role.ID}})

	ok, _ := resolver.HasPermission(context.Background(), "user-1", "clientes.ver")
	if !ok {
		t.Fatalf("expected permission before revocation")
	}

	empty := []string{}
	if _, err := svc.Update(context.Background(), role.ID, UpdateInput{Permissions: &empty}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	ok, _ = resolver.HasPermission(context.Background(), "user-1", "clientes.ver")
	if ok {
		t.Fatalf("expected revocation to apply immediately")
	}
}
