package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/report"
	"github.com/jhoicas/wms-api/internal/application/shipping"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	MovementUC *inventory.MovementUseCase
	ShipmentUC *shipping.ShipmentUseCase
	UserUC     *usecase.UserUseCase
	ReportUC   *report.ReportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: token válido y usuario todavía activo
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.UserUC))

	// Products. /stats y /low-stock antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/stats", productHandler.Stats)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movements (ledger)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Record)
	movements.Get("/stats", movementHandler.Stats)
	movements.Delete("/:id", movementHandler.Delete)

	// Shipments
	shipments := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipments.Get("/", shipmentHandler.List)
	shipments.Post("/", shipmentHandler.Create)
	shipments.Get("/stats", shipmentHandler.Stats)
	shipments.Delete("/items/:itemID", shipmentHandler.RemoveItem)
	shipments.Get("/:id", shipmentHandler.Get)
	shipments.Post("/:id/items", shipmentHandler.AddItem)
	shipments.Patch("/:id/status", shipmentHandler.UpdateStatus)
	shipments.Delete("/:id", shipmentHandler.Delete)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/users", reportHandler.UserStats)
	reports.Get("/movements", reportHandler.MovementSeries)
	reports.Get("/categories", reportHandler.StockByCategory)
	reports.Get("/activity", reportHandler.RecentActivity)
	reports.Get("/stock.pdf", reportHandler.StockPDF)
	reports.Get("/stock.csv", reportHandler.StockCSV)

	// Admin
	users := protected.Group("/admin/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Patch("/:id/toggle-status", userHandler.ToggleStatus)
}
