package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pet-boarding-backend/internal/adapters/storage/memory"
	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/catalog"
	"pet-boarding-backend/internal/domain/categories"
	"pet-boarding-backend/internal/domain/clients"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/domain/payments"
	"pet-boarding-backend/internal/domain/rbac"
	"pet-boarding-backend/internal/domain/sedes"
	"pet-boarding-backend/internal/domain/specimens"
	"pet-boarding-backend/internal/domain/users"
	"pet-boarding-backend/internal/platform/logger"
	"pet-boarding-backend/internal/ports/notify"
)

// fixture arma el grafo completo de servicios sobre un Store compartido,
// igual que lo hace el router en modo dev.
type fixture struct {
	store *memory.Store

	clients    *clients.Service
	categories *categories.Service
	sedes      *sedes.Service
	catalog    *catalog.Manager
	specimens  *specimens.Service
	contracts  *contracts.Service
	payments   *payments.Service
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := logger.Nop()

	clientsSvc := clients.NewService(memory.NewClientRepo(store))
	categoriesSvc := categories.NewService(memory.NewCategoryRepo(store))
	sedesSvc := sedes.NewService(memory.NewSedeRepo(store))
	catalogMgr := catalog.NewManager(memory.NewCatalogRepo(store))
	specimensSvc := specimens.NewService(memory.NewSpecimenRepo(store), clientsSvc, categoriesSvc, sedesSvc, log)
	contractsSvc := contracts.NewService(memory.NewContractRepo(store), clientsSvc, specimensSvc, catalogMgr, log)
	paymentsSvc := payments.NewService(memory.NewPaymentRepo(store), contractsSvc, log)

	return &fixture{
		store:      store,
		clients:    clientsSvc,
		categories: categoriesSvc,
		sedes:      sedesSvc,
		catalog:    catalogMgr,
		specimens:  specimensSvc,
		contracts:  contractsSvc,
		payments:   paymentsSvc,
	}
}

func (f *fixture) client(t *testing.T, document string) clients.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), clients.CreateInput{
		Name:     "Dueño " + document,
		Document: document,
		Email:    document + "@criadero.pe",
	})
	if err != nil {
		t.Fatalf("client create error: %v", err)
	}
	return c
}

func (f *fixture) category(t *testing.T, name string) categories.Category {
	t.Helper()
	cat, err := f.categories.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("category create error: %v", err)
	}
	return cat
}

func (f *fixture) specimen(t *testing.T, ownerID, categoryID, name string) specimens.Specimen {
	t.Helper()
	sp, err := f.specimens.Create(context.Background(), specimens.CreateInput{
		Name:       name,
		OwnerID:    ownerID,
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("specimen create error: %v", err)
	}
	return sp
}

func (f *fixture) count(t *testing.T, clientID string) int {
	t.Helper()
	c, err := f.clients.GetByID(context.Background(), clientID)
	if err != nil {
		t.Fatalf("client lookup error: %v", err)
	}
	return c.SpecimenCount
}

// -------------------------
// Contador derivado
// -------------------------

func TestStore_SpecimenCounter_CreateAndDelete(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "44556677")
	cat := f.category(t, "pastor alemán")

	sp1 := f.specimen(t, owner.ID, cat.ID, "Rex")
	f.specimen(t, owner.ID, cat.ID, "Luna")

	if got := f.count(t, owner.ID); got != 2 {
		t.Fatalf("expected count 2 after creates, got %d", got)
	}

	if err := f.specimens.Delete(context.Background(), sp1.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got := f.count(t, owner.ID); got != 1 {
		t.Fatalf("expected count 1 after delete, got %d", got)
	}
}

func TestStore_SpecimenCounter_OwnerTransfer(t *testing.T) {
	f := newFixture()
	from := f.client(t, "11111111")
	to := f.client(t, "22222222")
	cat := f.category(t, "bulldog")

	sp := f.specimen(t, from.ID, cat.ID, "Rocco")

	newOwner := to.ID
	if _, err := f.specimens.Update(context.Background(), sp.ID, specimens.UpdateInput{OwnerID: &newOwner}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if got := f.count(t, from.ID); got != 0 {
		t.Fatalf("expected previous owner at 0, got %d", got)
	}
	if got := f.count(t, to.ID); got != 1 {
		t.Fatalf("expected new owner at 1, got %d", got)
	}
}

func TestStore_SpecimenCreate_MidFailure_LeavesNothing(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "33333333")
	cat := f.category(t, "caniche")

	f.store.SetFailHook(func(op string) error {
		if op == "specimens.create" {
			return apperrors.Internal("fallo simulado", nil)
		}
		return nil
	})

	_, err := f.specimens.Create(context.Background(), specimens.CreateInput{
		Name:       "Fantasma",
		OwnerID:    owner.ID,
		CategoryID: cat.ID,
	})
	if err == nil {
		t.Fatalf("expected the injected failure")
	}
	f.store.SetFailHook(nil)

	// ni ejemplar insertado ni contador movido
	list, err := f.specimens.List(context.Background(), specimens.ListFilter{OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no specimen after rollback, got %d", len(list))
	}
	if got := f.count(t, owner.ID); got != 0 {
		t.Fatalf("expected counter untouched, got %d", got)
	}
}

func TestStore_OwnerTransfer_MidFailure_KeepsBothCounters(t *testing.T) {
	f := newFixture()
	from := f.client(t, "55555555")
	to := f.client(t, "66666666")
	cat := f.category(t, "galgo")
	sp := f.specimen(t, from.ID, cat.ID, "Flecha")

	f.store.SetFailHook(func(op string) error {
		if op == "specimens.update.owner" {
			return apperrors.Internal("fallo simulado", nil)
		}
		return nil
	})

	newOwner := to.ID
	_, err := f.specimens.Update(context.Background(), sp.ID, specimens.UpdateInput{OwnerID: &newOwner})
	if err == nil {
		t.Fatalf("expected the injected failure")
	}
	f.store.SetFailHook(nil)

	stored, err := f.specimens.GetByID(context.Background(), sp.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if stored.OwnerID != from.ID {
		t.Fatalf("expected ownership unchanged, got %s", stored.OwnerID)
	}
	if f.count(t, from.ID) != 1 || f.count(t, to.ID) != 0 {
		t.Fatalf("expected counters 1/0, got %d/%d", f.count(t, from.ID), f.count(t, to.ID))
	}
}

// -------------------------
// Contratos: atomicidad y exclusividad
// -------------------------

func (f *fixture) service(t *testing.T, name string) catalog.Service {
	t.Helper()
	sv, err := f.catalog.Create(context.Background(), catalog.CreateInput{
		Name:  name,
		Price: 50,
	})
	if err != nil {
		t.Fatalf("catalog create error: %v", err)
	}
	return sv
}

func (f *fixture) contract(t *testing.T, clientID string, specimenID *string, serviceIDs ...string) contracts.Detail {
	t.Helper()
	d, err := f.contracts.Create(context.Background(), contracts.CreateInput{
		ClientID:     clientID,
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		MonthlyPrice: 180,
		SpecimenID:   specimenID,
		ServiceIDs:   serviceIDs,
	})
	if err != nil {
		t.Fatalf("contract create error: %v", err)
	}
	return d
}

func TestStore_ContractCreate_BindsSpecimen(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "77777777")
	cat := f.category(t, "akita")
	sp := f.specimen(t, owner.ID, cat.ID, "Hachi")
	sv := f.service(t, "pensión completa")

	d := f.contract(t, owner.ID, &sp.ID, sv.ID)

	bound, err := f.specimens.GetByID(context.Background(), sp.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if bound.ContractID == nil || *bound.ContractID != d.ID {
		t.Fatalf("expected specimen bound to %s, got %v", d.ID, bound.ContractID)
	}
	if len(d.Services) != 1 {
		t.Fatalf("expected one associated service, got %d", len(d.Services))
	}
}

func TestStore_ContractCreate_MidFailure_LeavesNoPartialState(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "88888888")
	cat := f.category(t, "beagle")
	sp := f.specimen(t, owner.ID, cat.ID, "Toby")
	sv := f.service(t, "baño y corte")

	for _, failAt := range []string{"contracts.create.services", "contracts.create.bind"} {
		f.store.SetFailHook(func(op string) error {
			if op == failAt {
				return apperrors.Internal("fallo simulado", nil)
			}
			return nil
		})

		_, err := f.contracts.Create(context.Background(), contracts.CreateInput{
			ClientID:     owner.ID,
			StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			MonthlyPrice: 180,
			SpecimenID:   &sp.ID,
			ServiceIDs:   []string{sv.ID},
		})
		if err == nil {
			t.Fatalf("%s: expected the injected failure", failAt)
		}
		f.store.SetFailHook(nil)

		// sin contrato visible y el ejemplar sigue libre
		list, err := f.contracts.List(context.Background(), contracts.ListFilter{ClientID: owner.ID})
		if err != nil {
			t.Fatalf("%s: List error: %v", failAt, err)
		}
		if len(list) != 0 {
			t.Fatalf("%s: expected no contract after rollback, got %d", failAt, len(list))
		}
		free, err := f.specimens.GetByID(context.Background(), sp.ID)
		if err != nil {
			t.Fatalf("%s: GetByID error: %v", failAt, err)
		}
		if free.ContractID != nil {
			t.Fatalf("%s: expected specimen still free", failAt)
		}
	}
}

func TestStore_SpecimenExclusivity_SecondContract_Conflict(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "99999999")
	cat := f.category(t, "dálmata")
	sp := f.specimen(t, owner.ID, cat.ID, "Pongo")

	f.contract(t, owner.ID, &sp.ID)

	_, err := f.contracts.Create(context.Background(), contracts.CreateInput{
		ClientID:     owner.ID,
		StartDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MonthlyPrice: 200,
		SpecimenID:   &sp.ID,
	})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict binding an already bound specimen, got %v", err)
	}
}

func TestStore_SpecimenExclusivity_ConcurrentCreates_OneWinner(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "12121212")
	cat := f.category(t, "galgo")
	sp := f.specimen(t, owner.ID, cat.ID, "Rayo")

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.contracts.Create(context.Background(), contracts.CreateInput{
				ClientID:     owner.ID,
				StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				MonthlyPrice: 180,
				SpecimenID:   &sp.ID,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case !apperrors.IsKind(err, apperrors.KindConflict):
			t.Fatalf("goroutine %d: expected Conflict for the loser, got %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one contract to win the specimen, got %d", wins)
	}

	list, err := f.contracts.List(context.Background(), contracts.ListFilter{ClientID: owner.ID})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one persisted contract, got %d", len(list))
	}
}

func TestStore_ContractUpdate_MidFailure_RollsBackFieldsAndServices(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "13131313")
	svA := f.service(t, "guardería diurna")
	svB := f.service(t, "paseo diario")

	d := f.contract(t, owner.ID, nil, svA.ID)

	f.store.SetFailHook(func(op string) error {
		if op == "contracts.update.services" {
			return apperrors.Internal("fallo simulado", nil)
		}
		return nil
	})
	newPrice := 999.0
	replacement := []string{svB.ID}
	_, err := f.contracts.Update(context.Background(), d.ID, contracts.UpdateInput{
		MonthlyPrice: &newPrice,
		ServiceIDs:   &replacement,
	})
	if err == nil {
		t.Fatal("expected the injected failure")
	}
	f.store.SetFailHook(nil)

	// ni los campos ni las asociaciones deben haber cambiado
	after, err := f.contracts.GetDetail(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("GetDetail error: %v", err)
	}
	if after.MonthlyPrice != 180 {
		t.Fatalf("expected monthly price untouched, got %v", after.MonthlyPrice)
	}
	if len(after.Services) != 1 || after.Services[0].ID != svA.ID {
		t.Fatalf("expected original service association intact, got %+v", after.Services)
	}
}

func TestStore_ContractDelete_FreesSpecimen(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "10101010")
	cat := f.category(t, "collie")
	sp := f.specimen(t, owner.ID, cat.ID, "Lassie")
	sv := f.service(t, "adiestramiento")

	d := f.contract(t, owner.ID, &sp.ID, sv.ID)

	if err := f.contracts.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	free, err := f.specimens.GetByID(context.Background(), sp.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if free.ContractID != nil {
		t.Fatalf("expected specimen freed after contract delete")
	}
}

func TestStore_ContractDetailReadFails_PostCommit(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "12121212")

	f.store.SetFailHook(func(op string) error {
		if op == "contracts.detail" {
			return apperrors.Internal("fallo simulado", nil)
		}
		return nil
	})
	defer f.store.SetFailHook(nil)

	d, err := f.contracts.Create(context.Background(), contracts.CreateInput{
		ClientID:     owner.ID,
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		MonthlyPrice: 120,
	})
	if !apperrors.IsKind(err, apperrors.KindPostCommit) {
		t.Fatalf("expected PostCommit, got %v", err)
	}
	if d.Contract.ID == "" {
		t.Fatalf("expected the minimal contract in the response")
	}

	// el contrato quedó escrito a pesar del fallo de relectura
	f.store.SetFailHook(nil)
	if _, err := f.contracts.GetByID(context.Background(), d.Contract.ID); err != nil {
		t.Fatalf("expected contract persisted, got %v", err)
	}
}

// -------------------------
// Pagos y borrado de clientes
// -------------------------

func TestStore_Payments_UniqueMonthPerContract(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "13131313")
	d := f.contract(t, owner.ID, nil)

	in := payments.CreateInput{
		ContractID:   d.ID,
		Amount:       180,
		Method:       payments.MethodTransfer,
		PaymentMonth: 3,
	}
	if _, err := f.payments.Create(context.Background(), in); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	_, err := f.payments.Create(context.Background(), in)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict for duplicate month, got %v", err)
	}
}

func TestStore_Payments_OnlyActiveContracts(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "14141414")
	d := f.contract(t, owner.ID, nil)

	if _, err := f.contracts.UpdateStatus(context.Background(), d.ID, contracts.StatusFinished); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	_, err := f.payments.Create(context.Background(), payments.CreateInput{
		ContractID:   d.ID,
		Amount:       180,
		Method:       payments.MethodCash,
		PaymentMonth: 5,
	})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict paying a finished contract, got %v", err)
	}
}

// El repo revalida el estado bajo su propio lock: aunque el contrato se
// finalice después del chequeo del servicio, el insert directo no pasa.
func TestStore_Payments_RepoRechecksStatus(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "15151515")
	d := f.contract(t, owner.ID, nil)

	if _, err := f.contracts.UpdateStatus(context.Background(), d.ID, contracts.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	repo := memory.NewPaymentRepo(f.store)
	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	err := repo.Create(context.Background(), payments.Payment{
		ID:           "pago-directo",
		ContractID:   d.ID,
		Amount:       180,
		Method:       payments.MethodCash,
		PaymentMonth: 5,
		PaymentDate:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict from the repo status recheck, got %v", err)
	}
}

func TestStore_ClientEmail_Unique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.clients.Create(ctx, clients.CreateInput{
		Name:     "Rosa Quispe",
		Document: "11111111",
		Email:    "dup@criadero.pe",
	})
	if err != nil {
		t.Fatalf("first create error: %v", err)
	}

	_, err = f.clients.Create(ctx, clients.CreateInput{
		Name:     "Julia Quispe",
		Document: "22222222",
		Email:    "dup@criadero.pe",
	})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict for duplicate email, got %v", err)
	}

	// tampoco por la vía de actualización
	other := f.client(t, "33333333")
	taken := first.Email
	_, err = f.clients.Update(ctx, other.ID, clients.UpdateInput{Email: &taken})
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict moving to a taken email, got %v", err)
	}
}

func TestStore_ClientPurge_WithSpecimens_Conflict(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "15151515")
	cat := f.category(t, "boxer")
	sp := f.specimen(t, owner.ID, cat.ID, "Bruno")

	err := f.clients.Purge(context.Background(), owner.ID)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict purging an owner with specimens, got %v", err)
	}

	// sin ejemplares el purge físico procede
	if err := f.specimens.Delete(context.Background(), sp.ID); err != nil {
		t.Fatalf("specimen Delete error: %v", err)
	}
	if err := f.clients.Purge(context.Background(), owner.ID); err != nil {
		t.Fatalf("Purge error: %v", err)
	}
	if _, err := f.clients.GetByID(context.Background(), owner.ID); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected client gone, got %v", err)
	}
}

func TestStore_ClientDeactivate_KeepsHistory(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "16161616")
	cat := f.category(t, "labrador")
	f.specimen(t, owner.ID, cat.ID, "Max")

	// el borrado lógico funciona aunque tenga ejemplares
	if err := f.clients.Deactivate(context.Background(), owner.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	c, err := f.clients.GetByID(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if c.Status != clients.StatusInactive {
		t.Fatalf("expected inactivo, got %s", c.Status)
	}
	if c.SpecimenCount != 1 {
		t.Fatalf("expected history preserved, got count %d", c.SpecimenCount)
	}

	// desactivar dos veces es Conflict
	if err := f.clients.Deactivate(context.Background(), owner.ID); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("expected Conflict on double deactivation, got %v", err)
	}
}

// -------------------------
// Recuperación de contraseña
// -------------------------

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, n notify.Notification) error { return nil }

func TestStore_ConsumeReset_MidFailure_TokenStaysUsable(t *testing.T) {
	store := memory.NewStore()
	log := logger.Nop()
	rbacSvc := rbac.NewService(memory.NewRoleRepo(store), log)
	usersSvc := users.NewService(memory.NewUserRepo(store), rbacSvc, nil, noopNotifier{}, log)

	role, err := rbacSvc.Create(context.Background(), rbac.CreateInput{Name: "admin"})
	if err != nil {
		t.Fatalf("role create error: %v", err)
	}
	if _, err := usersSvc.Create(context.Background(), users.CreateInput{
		Username: "jperez",
		Email:    "jperez@criadero.pe",
		Password: "secreta123",
		RoleID:   role.ID,
	}); err != nil {
		t.Fatalf("user create error: %v", err)
	}

	tok, err := usersSvc.RequestPasswordReset(context.Background(), "jperez")
	if err != nil {
		t.Fatalf("RequestPasswordReset error: %v", err)
	}

	store.SetFailHook(func(op string) error {
		if op == "users.consume_reset" {
			return apperrors.Internal("fallo simulado", nil)
		}
		return nil
	})
	if err := usersSvc.ResetPassword(context.Background(), tok.Token, "nuevaclave9"); err == nil {
		t.Fatalf("expected the injected failure")
	}
	store.SetFailHook(nil)

	// el token no quedó consumido y el reintento procede
	if err := usersSvc.ResetPassword(context.Background(), tok.Token, "nuevaclave9"); err != nil {
		t.Fatalf("retry ResetPassword error: %v", err)
	}
}
