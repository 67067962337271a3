package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/auth"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/traceability"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/usecase"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	LotUC      *usecase.LotUseCase
	ProviderUC *usecase.ProviderUseCase
	CatalogUC  *usecase.CatalogUseCase
	QualityUC  *usecase.QualityUseCase
	Ledger     *inventory.StockLedgerUseCase
	Reporting  *inventory.ReportingUseCase
	StageUC    *traceability.StageUseCase
	SheetUC    *traceability.SheetUseCase
	DB         pinger
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", NewHealthHandler(deps.DB).Health)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Lots
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC, deps.Reporting)
	lots.Get("/", lotHandler.List)
	lots.Get("/master", lotHandler.Master)
	lots.Post("/", RequireRole(entity.RoleAdmin, entity.RoleOperador), lotHandler.Create)

	// Providers
	providers := protected.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Get("/", providerHandler.List)
	providers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleOperador), providerHandler.Create)
	providers.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleOperador), providerHandler.Update)
	providers.Delete("/:id", adminOnly, providerHandler.Delete)

	// Admin config: lectura para todos los roles, escritura solo admin.
	admin := protected.Group("/admin")
	for path, kind := range map[string]string{
		"/destinations": entity.CatalogDestinations,
		"/coffee-lines": entity.CatalogCoffeeLines,
		"/services":     entity.CatalogServices,
	} {
		h := NewCatalogHandler(deps.CatalogUC, kind)
		admin.Get(path, h.List)
		admin.Post(path, adminOnly, h.Create)
		admin.Put(path+"/:id", adminOnly, h.Update)
		admin.Delete(path+"/:id", adminOnly, h.Delete)
	}

	// Inventory
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Reporting)
	inv.Get("/summary", inventoryHandler.Summary)
	inv.Get("/movements", inventoryHandler.Movements)
	inv.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleOperador), inventoryHandler.RecordMovement)
	inv.Get("/lots/:lotId/stock", inventoryHandler.LotStock)
	inv.Post("/lots/:lotId/recalculate", adminOnly, inventoryHandler.Recalculate)

	// Traceability
	trace := protected.Group("/traceability")
	traceHandler := NewTraceabilityHandler(deps.StageUC, deps.SheetUC)
	trace.Post("/:lotId/intake", traceHandler.Intake)
	trace.Post("/:lotId/trilla", traceHandler.Trilla)
	trace.Post("/:lotId/tueste", traceHandler.Tueste)
	trace.Post("/:lotId/cata", traceHandler.Cata)
	trace.Post("/:lotId/empaque", traceHandler.Empaque)
	trace.Post("/:lotId/despacho", traceHandler.Despacho)
	trace.Post("/:lotId/inspeccion", traceHandler.Inspeccion)
	trace.Get("/:lotId/pdf/:stage", traceHandler.Sheet)

	// Quality
	quality := protected.Group("/quality")
	qualityHandler := NewQualityHandler(deps.QualityUC)
	quality.Get("/top-lots", qualityHandler.TopLots)
	quality.Get("/top-providers", qualityHandler.TopProviders)
	quality.Get("/provider-history/:providerId", qualityHandler.ProviderHistory)
	quality.Get("/cupping/:cuppingId", qualityHandler.Cupping)
	quality.Post("/cupping", RequireRole(entity.RoleAdmin, entity.RoleCatador), qualityHandler.SaveCupping)
	quality.Put("/cupping", RequireRole(entity.RoleAdmin, entity.RoleCatador), qualityHandler.SaveCupping)
}
