package server

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/cache"
	"github.com/yukikurage/farm-management-api/internal/config"
	"github.com/yukikurage/farm-management-api/internal/constants"
	"github.com/yukikurage/farm-management-api/internal/handlers"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/services"
	"github.com/yukikurage/farm-management-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the API is assembled from. Cache, Archive,
// Metrics and Suggestions are optional.
type Deps struct {
	DB          *gorm.DB
	Config      *config.Config
	Logger      *zap.Logger
	Sessions    sessions.Store
	Cache       cache.AnalyticsCache
	Archive     storage.Archive
	Metrics     *metrics.Metrics
	Suggestions *services.SuggestionService
}

// App is the assembled HTTP API plus the services background jobs need.
type App struct {
	Router      *gin.Engine
	Invitations *services.InvitationService
	Analytics   *services.AnalyticsService
}

type recordRepos struct {
	fields        *repository.ScopedRepository[models.Field, *models.Field]
	inventory     *repository.ScopedRepository[models.Inventory, *models.Inventory]
	tasks         *repository.ScopedRepository[models.Task, *models.Task]
	weather       *repository.ScopedRepository[models.WeatherRecord, *models.WeatherRecord]
	activities    *repository.ScopedRepository[models.FieldActivity, *models.FieldActivity]
	transactions  *repository.ScopedRepository[models.InventoryTransaction, *models.InventoryTransaction]
	production    *repository.ScopedRepository[models.ProductionRecord, *models.ProductionRecord]
	economic      *repository.ScopedRepository[models.EconomicRecord, *models.EconomicRecord]
	environmental *repository.ScopedRepository[models.EnvironmentalRecord, *models.EnvironmentalRecord]
	operational   *repository.ScopedRepository[models.OperationalRecord, *models.OperationalRecord]
}

func newRecordRepos(db *gorm.DB) recordRepos {
	return recordRepos{
		fields:        repository.NewScopedRepository[models.Field](db),
		inventory:     repository.NewScopedRepository[models.Inventory](db),
		tasks:         repository.NewScopedRepository[models.Task](db),
		weather:       repository.NewScopedRepository[models.WeatherRecord](db),
		activities:    repository.NewScopedRepository[models.FieldActivity](db),
		transactions:  repository.NewScopedRepository[models.InventoryTransaction](db),
		production:    repository.NewScopedRepository[models.ProductionRecord](db),
		economic:      repository.NewScopedRepository[models.EconomicRecord](db),
		environmental: repository.NewScopedRepository[models.EnvironmentalRecord](db),
		operational:   repository.NewScopedRepository[models.OperationalRecord](db),
	}
}

// New wires repositories, services, handlers and routes.
func New(deps Deps) *App {
	cfg := deps.Config
	log := deps.Logger
	db := deps.DB

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	repos := newRecordRepos(db)

	// Services
	authService := services.NewAuthService(userRepo, invitationRepo)
	tenantService := services.NewTenantService(userRepo, companyRepo)
	invitationService := services.NewInvitationService(invitationRepo)

	var analyticsCache cache.AnalyticsCache = cache.Noop{}
	if cfg.Analytics.CacheEnabled && deps.Cache != nil {
		analyticsCache = deps.Cache
	}
	analyticsService := services.NewAnalyticsService(services.AnalyticsRepositories{
		Production:    repos.production,
		Economic:      repos.economic,
		Environmental: repos.environmental,
		Operational:   repos.operational,
	}, analyticsCache, cfg.Analytics.CacheTTL, deps.Metrics, log)
	companyService := services.NewCompanyService(companyRepo, userRepo, analyticsService.Invalidate)

	suggestionService := deps.Suggestions
	if suggestionService == nil {
		suggestionService = services.NewSuggestionService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	exportService := services.NewExportService(exportSources(repos), deps.Archive, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tenantService, deps.Metrics, log)
	companyHandler := handlers.NewCompanyHandler(companyService, authService, log)
	userHandler := handlers.NewUserHandler(companyService, log)
	invitationHandler := handlers.NewInvitationHandler(invitationService, log)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, log)
	exportHandler := handlers.NewExportHandler(exportService, deps.Metrics, log)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService, log)
	healthHandler := handlers.NewHealthHandler(db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(deps.Metrics.Middleware())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.Sessions))

	r.GET("/health", healthHandler.Health)
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/invitation-codes/validate", invitationHandler.ValidateCode)

		// Authenticated routes that do not need a current company
		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/user", authHandler.GetCurrentUser)

			companies := authed.Group("/companies")
			{
				companies.GET("", companyHandler.ListCompanies)
				companies.POST("", companyHandler.CreateCompany)
				companies.GET("/:id", companyHandler.GetCompany)
				companies.PUT("/:id", companyHandler.UpdateCompany)
				companies.DELETE("/:id", companyHandler.DeleteCompany)
				companies.POST("/:id/switch", companyHandler.SwitchCompany)
			}
		}

		// Routes scoped to the current company
		tenant := authed.Group("")
		tenant.Use(middleware.RequireCompany(tenantService))
		{
			users := tenant.Group("/users", middleware.RequirePermission(models.PermUsers))
			{
				users.GET("", userHandler.ListUsers)
				users.PUT("/:id/permissions", userHandler.UpdateUserPermissions)
				users.DELETE("/:id", userHandler.RemoveUser)
			}

			codes := tenant.Group("/invitation-codes", middleware.RequirePermission(models.PermUsers))
			{
				codes.GET("", invitationHandler.ListCodes)
				codes.POST("", invitationHandler.CreateCode)
				codes.POST("/:id/deactivate", invitationHandler.DeactivateCode)
				codes.DELETE("/:id", invitationHandler.DeleteCode)
			}

			registerRecords(tenant, repos, analyticsService, log)

			tenant.POST("/tasks/suggest", middleware.RequirePermission(models.PermTasks), suggestionHandler.SuggestTasks)
			tenant.GET("/analytics/dashboard", middleware.RequirePermission(models.PermReports), analyticsHandler.Dashboard)
			tenant.GET("/export/:resource/:format", exportHandler.Export)
		}
	}

	return &App{
		Router:      r,
		Invitations: invitationService,
		Analytics:   analyticsService,
	}
}

func registerRecords(group *gin.RouterGroup, repos recordRepos, analyticsService *services.AnalyticsService, log *zap.Logger) {
	fieldsPerm := middleware.RequirePermission(models.PermFields)
	inventoryPerm := middleware.RequirePermission(models.PermInventory)
	reportsPerm := middleware.RequirePermission(models.PermReports)
	// Fields carry the crop the dashboard filters on, so their writes
	// invalidate the cache as well.
	invalidate := analyticsService.Invalidate

	handlers.NewRecordHandler(Fields, services.NewRecordService(repos.fields, invalidate), log).
		Register(group, fieldsPerm)
	handlers.NewRecordHandler(FieldActivities, services.NewRecordService(repos.activities), log).
		Register(group, fieldsPerm)
	handlers.NewRecordHandler(Inventory, services.NewRecordService(repos.inventory), log).
		Register(group, inventoryPerm)
	handlers.NewRecordHandler(InventoryTransactions, services.NewRecordService(repos.transactions), log).
		Register(group, inventoryPerm)
	handlers.NewRecordHandler(Tasks, services.NewRecordService(repos.tasks), log).
		Register(group, middleware.RequirePermission(models.PermTasks))
	handlers.NewRecordHandler(Weather, services.NewRecordService(repos.weather), log).
		Register(group, middleware.RequirePermission(models.PermWeather))

	// Writes to the analytics families drop the company's cached dashboards.
	handlers.NewRecordHandler(ProductionRecords, services.NewRecordService(repos.production, invalidate), log).
		Register(group, reportsPerm)
	handlers.NewRecordHandler(EconomicRecords, services.NewRecordService(repos.economic, invalidate), log).
		Register(group, reportsPerm)
	handlers.NewRecordHandler(EnvironmentalRecords, services.NewRecordService(repos.environmental, invalidate), log).
		Register(group, reportsPerm)
	handlers.NewRecordHandler(OperationalRecords, services.NewRecordService(repos.operational, invalidate), log).
		Register(group, reportsPerm)
}

func exportSources(repos recordRepos) map[string]services.ExportSource {
	return map[string]services.ExportSource{
		Fields.Path:                services.NewRecordExportSource("Fields", models.PermFields, Fields.OrderBy, repos.fields),
		FieldActivities.Path:       services.NewRecordExportSource("Field activities", models.PermFields, FieldActivities.OrderBy, repos.activities),
		Inventory.Path:             services.NewRecordExportSource("Inventory", models.PermInventory, Inventory.OrderBy, repos.inventory),
		InventoryTransactions.Path: services.NewRecordExportSource("Inventory transactions", models.PermInventory, InventoryTransactions.OrderBy, repos.transactions),
		Tasks.Path:                 services.NewRecordExportSource("Tasks", models.PermTasks, Tasks.OrderBy, repos.tasks),
		Weather.Path:               services.NewRecordExportSource("Weather", models.PermWeather, Weather.OrderBy, repos.weather),
		ProductionRecords.Path:     services.NewRecordExportSource("Production records", models.PermReports, ProductionRecords.OrderBy, repos.production),
		EconomicRecords.Path:       services.NewRecordExportSource("Economic records", models.PermReports, EconomicRecords.OrderBy, repos.economic),
		EnvironmentalRecords.Path:  services.NewRecordExportSource("Environmental records", models.PermReports, EnvironmentalRecords.OrderBy, repos.environmental),
		OperationalRecords.Path:    services.NewRecordExportSource("Operational records", models.PermReports, OperationalRecords.OrderBy, repos.operational),
	}
}
