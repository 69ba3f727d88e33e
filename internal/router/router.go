package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mem "pet-boarding-backend/internal/adapters/storage/memory"
	pg "pet-boarding-backend/internal/adapters/storage/postgres"
	"pet-boarding-backend/internal/domain/care"
	"pet-boarding-backend/internal/domain/catalog"
	"pet-boarding-backend/internal/domain/categories"
	"pet-boarding-backend/internal/domain/clients"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/domain/payments"
	"pet-boarding-backend/internal/domain/rbac"
	"pet-boarding-backend/internal/domain/sedes"
	"pet-boarding-backend/internal/domain/specimens"
	"pet-boarding-backend/internal/domain/users"
	"pet-boarding-backend/internal/middleware"
	"pet-boarding-backend/internal/platform/logger"
	"pet-boarding-backend/internal/ports/auth"
	"pet-boarding-backend/internal/ports/notify"
)

type Options struct {
	AuthVerifier auth.Verifier // puede ser nil (modo dev)
	TokenIssuer  users.TokenIssuer
	Notifier     notify.Notifier
	Logger       logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// EnforcePermissions apaga el gate en dev cuando es false.
	EnforcePermissions bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		clientRepo   clients.Repository
		specimenRepo specimens.Repository
		categoryRepo categories.Repository
		sedeRepo     sedes.Repository
		catalogRepo  catalog.Repository
		contractRepo contracts.Repository
		paymentRepo  payments.Repository
		careRepo     care.Repository
		roleRepo     rbac.Repository
		userRepo     users.Repository
	)

	if opts.DB != nil {
		db := opts.DB
		clientRepo = pg.NewClientsRepo(db)
		specimenRepo = pg.NewSpecimensRepo(db)
		categoryRepo = pg.NewCategoriesRepo(db)
		sedeRepo = pg.NewSedesRepo(db)
		catalogRepo = pg.NewCatalogRepo(db)
		contractRepo = pg.NewContractsRepo(db)
		paymentRepo = pg.NewPaymentsRepo(db)
		careRepo = pg.NewCareRepo(db)
		roleRepo = pg.NewRolesRepo(db)
		userRepo = pg.NewUsersRepo(db)
	} else {
		store := mem.NewStore()
		clientRepo = mem.NewClientRepo(store)
		specimenRepo = mem.NewSpecimenRepo(store)
		categoryRepo = mem.NewCategoryRepo(store)
		sedeRepo = mem.NewSedeRepo(store)
		catalogRepo = mem.NewCatalogRepo(store)
		contractRepo = mem.NewContractRepo(store)
		paymentRepo = mem.NewPaymentRepo(store)
		careRepo = mem.NewCareRepo(store)
		roleRepo = mem.NewRoleRepo(store)
		userRepo = mem.NewUserRepo(store)
	}

	// Services por módulo
	sedesSvc := sedes.NewService(sedeRepo)
	categoriesSvc := categories.NewService(categoryRepo)
	catalogSvc := catalog.NewManager(catalogRepo)
	clientsSvc := clients.NewService(clientRepo)
	specimensSvc := specimens.NewService(specimenRepo, clientsSvc, categoriesSvc, sedesSvc, log)
	contractsSvc := contracts.NewService(contractRepo, clientsSvc, specimensSvc, catalogSvc, log)
	paymentsSvc := payments.NewService(paymentRepo, contractsSvc, log)
	careSvc := care.NewService(careRepo, specimensSvc, log)
	rbacSvc := rbac.NewService(roleRepo, log)
	usersSvc := users.NewService(userRepo, rbacSvc, opts.TokenIssuer, opts.Notifier, log)

	// Gate de permisos: resolver por petición contra el rol vigente.
	gate := middleware.AllowAll()
	if opts.EnforcePermissions {
		resolver := rbac.NewResolver(rbacSvc, usersSvc)
		gate = middleware.PermissionGate(resolver)
	}

	// Rutas por módulo
	sedes.RegisterRoutes(r, sedesSvc, gate)
	categories.RegisterRoutes(r, categoriesSvc, gate)
	catalog.RegisterRoutes(r, catalogSvc, gate)
	clients.RegisterRoutes(r, clientsSvc, gate)
	specimens.RegisterRoutes(r, specimensSvc, gate)
	contracts.RegisterRoutes(r, contractsSvc, gate)
	payments.RegisterRoutes(r, paymentsSvc, gate)
	care.RegisterRoutes(r, careSvc, gate)
	rbac.RegisterRoutes(r, rbacSvc, gate)
	users.RegisterRoutes(r, usersSvc, gate)
	users.RegisterAuthRoutes(r, usersSvc)

	return r
}
