package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/Pankajol/aits-erp-core/internal/application/auth"
	"github.com/Pankajol/aits-erp-core/internal/application/document"
	"github.com/Pankajol/aits-erp-core/internal/application/inventory"
	"github.com/Pankajol/aits-erp-core/internal/application/usecase"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase
	ItemUC         *usecase.ItemUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	InventoryQuery *inventory.QueryUseCase
	Reorder        *inventory.ReorderUseCase
	SubmitDocument *document.SubmitDocumentUseCase
	DocumentQuery  *document.QueryUseCase
	Modules        *usecase.ModuleService
	JWTSecret      string
}

// rolesFor define qué roles pueden emitir documentos de cada módulo. Las consultas
// quedan abiertas a cualquier usuario autenticado de la empresa.
func rolesFor(module string) []string {
	if module == entity.ModulePurchasing {
		return []string{"admin", "bodeguero"}
	}
	return []string{"admin", "vendedor"}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: alta y consulta públicas (onboarding); módulos solo admin.
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id/modules", AuthMiddleware(deps.JWTSecret), RequireRole("admin"), companyHandler.SetModule)
	companies.Get("/:id/modules", AuthMiddleware(deps.JWTSecret), companyHandler.ListModules)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (protegido)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireRole("admin", "bodeguero"), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", RequireRole("admin", "bodeguero"), itemHandler.Update)
	items.Delete("/:id", RequireRole("admin"), itemHandler.Delete)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole("admin", "bodeguero"), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole("admin", "bodeguero"), warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole("admin"), warehouseHandler.Delete)

	// Inventario: consultas de niveles, kardex y reposición (módulo inventory).
	invGroup := protected.Group("/inventory", RequireModule(entity.ModuleInventory, deps.Modules))
	inventoryHandler := NewInventoryHandler(deps.InventoryQuery, deps.Reorder)
	invGroup.Get("/levels", inventoryHandler.LevelsByWarehouse)
	invGroup.Get("/items/:item_id/levels", inventoryHandler.LevelsByItem)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Get("/reorder-list", inventoryHandler.GetReorderList)

	// Documentos comerciales: un grupo por tipo, cada uno con su módulo SaaS.
	documentHandler := NewDocumentHandler(deps.SubmitDocument, deps.DocumentQuery)
	for _, route := range DocumentRoutes() {
		grp := protected.Group("/documents/"+route.Slug, RequireModule(route.Module, deps.Modules))
		grp.Post("/", RequireRole(rolesFor(route.Module)...), documentHandler.Submit(route.DocType))
		grp.Get("/", documentHandler.List(route.DocType))
		grp.Get("/:id", documentHandler.GetByID)
	}
}
