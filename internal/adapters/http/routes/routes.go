package routes

import (
	"time"

	"library-ledger/internal/adapters/http/handlers"
	"library-ledger/internal/adapters/http/middleware"
	"library-ledger/internal/config"
	"library-ledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Dependencies are the services the process serves. Fields of services this
// process does not run are nil.
type Dependencies struct {
	Config *config.Config

	// catalog
	Catalog *services.CatalogService

	// lending
	Borrowers    *services.BorrowerService
	Ledger       *services.LedgerService
	BookLookup   services.BookLookup
	LendingFines services.FineCalculator
	Monitor      *services.OverdueMonitor

	// fines
	Fines services.FineCalculator

	HealthChecks map[string]handlers.CheckFunc
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Config, deps.Monitor)
	for name, check := range deps.HealthChecks {
		healthHandler.AddCheck(name, check)
	}

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	if deps.Catalog != nil {
		setupCatalogRoutes(apiV1, handlers.NewCatalogHandler(deps.Catalog))
	}
	if deps.Ledger != nil {
		setupLendingRoutes(apiV1,
			handlers.NewBorrowerHandler(deps.Borrowers),
			handlers.NewLendingHandler(deps.Ledger, deps.BookLookup, deps.Borrowers, deps.LendingFines),
		)
	}
	if deps.Fines != nil {
		setupFineRoutes(apiV1, handlers.NewFineHandler(deps.Fines))
	}
}

// setupCatalogRoutes configures catalog routes
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	books := router.Group("/books")
	books.Get("/", middleware.CacheControl(30*time.Second), handler.ListBooks)
	books.Get("/:id", middleware.CacheControl(30*time.Second), handler.GetBook)
	books.Post("/", handler.CreateBook)
	books.Put("/:id", handler.UpdateBook)
	books.Delete("/:id", handler.DeleteBook)
}

// setupLendingRoutes configures borrower and loan ledger routes
func setupLendingRoutes(router fiber.Router, borrowerHandler *handlers.BorrowerHandler, lendingHandler *handlers.LendingHandler) {
	users := router.Group("/users")
	users.Get("/", borrowerHandler.ListUsers)
	users.Get("/:id", borrowerHandler.GetUser)
	users.Post("/", borrowerHandler.RegisterUser)

	router.Post("/issue", lendingHandler.IssueBook)
	router.Post("/return", lendingHandler.ReturnBook)
	router.Get("/issued", middleware.NoStore(), lendingHandler.ListIssued)
	router.Get("/overdue", middleware.NoStore(), lendingHandler.ListOverdue)
	router.Get("/records/:user_id", middleware.NoStore(), lendingHandler.ListRecords)
	router.Post("/fine/:user_id", lendingHandler.UserFine)
}

// setupFineRoutes configures fine engine routes
func setupFineRoutes(router fiber.Router, handler *handlers.FineHandler) {
	router.Post("/calculate", handler.Calculate)
	router.Get("/calculate/:user_id", middleware.NoStore(), handler.CalculateUser)
}
