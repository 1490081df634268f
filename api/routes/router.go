package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teafarmpro/teafarm-backend/api/controllers"
	"github.com/teafarmpro/teafarm-backend/api/middleware"
	"github.com/teafarmpro/teafarm-backend/internal/expenses"
	"github.com/teafarmpro/teafarm-backend/internal/identity"
	"github.com/teafarmpro/teafarm-backend/internal/inventory"
	"github.com/teafarmpro/teafarm-backend/internal/labours"
	"github.com/teafarmpro/teafarm-backend/internal/production"
	"github.com/teafarmpro/teafarm-backend/internal/reports"
	"github.com/teafarmpro/teafarm-backend/internal/sales"
	"github.com/teafarmpro/teafarm-backend/internal/tasks"
	"github.com/teafarmpro/teafarm-backend/pkg/auth/session"
	"github.com/teafarmpro/teafarm-backend/pkg/config"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
	"github.com/teafarmpro/teafarm-backend/pkg/metrics"
	"github.com/teafarmpro/teafarm-backend/pkg/redis"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Identity   identity.Service
	Labours    labours.Service
	Production production.Service
	Expenses   expenses.Service
	Inventory  inventory.Service
	Tasks      tasks.Service
	Sales      sales.Service
	Reports    reports.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if deps.Registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(deps.Registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Identity, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Identity, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Identity, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Identity, logg))
			r.Post("/password", controllers.AuthChangePassword(deps.Identity, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		// Employee principals can read their own productions and tasks;
		// everything else is farmer-only.
		r.Group(func(r chi.Router) {
			r.Get("/productions", controllers.ProductionList(deps.Production, logg))
			r.Get("/productions/{productionId}", controllers.ProductionDetail(deps.Production, logg))
			r.Get("/tasks", controllers.TaskList(deps.Tasks, logg))
			r.Get("/tasks/{taskId}", controllers.TaskDetail(deps.Tasks, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireFarmer(logg))

			r.Route("/employees", func(r chi.Router) {
				r.Post("/", controllers.EmployeeCreate(deps.Identity, logg))
				r.Get("/", controllers.EmployeeList(deps.Identity, logg))
				r.Get("/{employeeId}", controllers.EmployeeDetail(deps.Identity, logg))
				r.Put("/{employeeId}", controllers.EmployeeUpdate(deps.Identity, logg))
				r.Delete("/{employeeId}", controllers.EmployeeDelete(deps.Identity, logg))
			})

			r.Route("/labours", func(r chi.Router) {
				r.Post("/", controllers.LabourCreate(deps.Labours, logg))
				r.Get("/", controllers.LabourList(deps.Labours, logg))
				r.Get("/{labourId}", controllers.LabourDetail(deps.Labours, logg))
				r.Put("/{labourId}", controllers.LabourUpdate(deps.Labours, logg))
				r.Delete("/{labourId}", controllers.LabourDelete(deps.Labours, logg))
			})

			r.Post("/productions", controllers.ProductionCreate(deps.Production, logg))
			r.Get("/productions/total", controllers.ProductionTotal(deps.Production, logg))
			r.Put("/productions/{productionId}", controllers.ProductionUpdate(deps.Production, logg))
			r.Delete("/productions/{productionId}", controllers.ProductionDelete(deps.Production, logg))

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", controllers.ExpenseCreate(deps.Expenses, logg))
				r.Get("/", controllers.ExpenseList(deps.Expenses, logg))
				r.Get("/{expenseId}", controllers.ExpenseDetail(deps.Expenses, logg))
				r.Put("/{expenseId}", controllers.ExpenseUpdate(deps.Expenses, logg))
				r.Delete("/{expenseId}", controllers.ExpenseDelete(deps.Expenses, logg))
			})

			r.Route("/inventories", func(r chi.Router) {
				r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
				r.Get("/", controllers.InventoryList(deps.Inventory, logg))
				r.Get("/{itemId}", controllers.InventoryDetail(deps.Inventory, logg))
				r.Put("/{itemId}", controllers.InventorySetQuantity(deps.Inventory, logg))
				r.Post("/{itemId}/adjust", controllers.InventoryAdjust(deps.Inventory, logg))
				r.Delete("/{itemId}", controllers.InventoryDelete(deps.Inventory, logg))
			})

			r.Post("/tasks", controllers.TaskAssign(deps.Tasks, logg))
			r.Post("/tasks/{taskId}/status", controllers.TaskUpdateStatus(deps.Tasks, logg))
			r.Put("/tasks/{taskId}", controllers.TaskUpdate(deps.Tasks, logg))
			r.Delete("/tasks/{taskId}", controllers.TaskDelete(deps.Tasks, logg))

			r.Route("/sales", func(r chi.Router) {
				r.Post("/", controllers.SaleRecord(deps.Sales, logg))
				r.Get("/", controllers.SaleList(deps.Sales, logg))
				r.Get("/{saleId}", controllers.SaleDetail(deps.Sales, logg))
				r.Put("/{saleId}", controllers.SaleUpdate(deps.Sales, logg))
				r.Delete("/{saleId}", controllers.SaleDelete(deps.Sales, logg))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Post("/total_production", controllers.ReportTotalProduction(deps.Reports, logg))
				r.Post("/employee_performance", controllers.ReportEmployeePerformance(deps.Reports, logg))
				r.Post("/expenses", controllers.ReportExpenses(deps.Reports, logg))
				r.Post("/combined", controllers.ReportCombined(deps.Reports, logg))
			})
		})
	})

	return r
}
