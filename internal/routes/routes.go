package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/cache"
	"github.com/BruksfildServices01/gym-manager/internal/chatws"
	"github.com/BruksfildServices01/gym-manager/internal/config"
	domain "github.com/BruksfildServices01/gym-manager/internal/domain/schedule"
	"github.com/BruksfildServices01/gym-manager/internal/handlers"
	"github.com/BruksfildServices01/gym-manager/internal/imageproc"
	infraRepo "github.com/BruksfildServices01/gym-manager/internal/infra/repository"
	"github.com/BruksfildServices01/gym-manager/internal/metrics"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/notify"
	"github.com/BruksfildServices01/gym-manager/internal/payments"
	"github.com/BruksfildServices01/gym-manager/internal/storage"
	ucSchedule "github.com/BruksfildServices01/gym-manager/internal/usecase/schedule"
	ucStats "github.com/BruksfildServices01/gym-manager/internal/usecase/stats"
)

// Deps are the long lived services the API is wired with.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Audit    *audit.Dispatcher
	Notify   *notify.Service
	Stats    cache.StatsCache
	Storage  storage.Storage
	Payments payments.Gateway
	Hub      *chatws.Hub
	Metrics  *metrics.Metrics
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	statsRepo := infraRepo.NewStatsGormRepository(db)

	statsCache := d.Stats
	if statsCache == nil {
		statsCache = cache.NewMemoryStatsCache(cfg.StatsCacheTTL)
	}
	gymStatsUC := ucStats.NewGetGymStats(statsRepo, statsCache)

	avatars := handlers.NewAvatarUploader(
		d.Storage,
		imageproc.NewProcessor(imageproc.AvatarMaxSide, 80),
		cfg.AvatarMaxUploadBytes,
	)

	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)

	// ======================================================
	// 🧠 USE CASES — SCHEDULES
	// ======================================================
	createScheduleUC := ucSchedule.NewCreateSchedule(scheduleRepo, d.Audit, d.Notify, gymStatsUC)
	updateScheduleUC := ucSchedule.NewUpdateSchedule(scheduleRepo, d.Audit, gymStatsUC)
	transitionScheduleUC := ucSchedule.NewTransitionSchedule(scheduleRepo, d.Audit, d.Notify, gymStatsUC)
	deleteScheduleUC := ucSchedule.NewDeleteSchedule(scheduleRepo, d.Audit, gymStatsUC)
	listSchedulesByMonthUC := ucSchedule.NewListSchedulesByMonth(scheduleRepo)
	availabilityUC := ucSchedule.NewGetTrainerAvailability(scheduleRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg, avatars, d.Audit, gymStatsUC)
	profileHandler := handlers.NewMemberProfileHandler(db, d.Audit)
	packageHandler := handlers.NewPackageHandler(db, d.Audit, gymStatsUC)
	memberPackageHandler := handlers.NewMemberPackageHandler(db, d.Audit, d.Notify, gymStatsUC)

	scheduleHandler := handlers.NewScheduleHandler(
		db,
		scheduleRepo,
		createScheduleUC,
		updateScheduleUC,
		transitionScheduleUC,
		deleteScheduleUC,
		listSchedulesByMonthUC,
		availabilityUC,
	)

	reviewHandler := handlers.NewReviewHandler(db, d.Audit, d.Notify)
	progressHandler := handlers.NewProgressHandler(db, d.Audit, d.Notify)
	paymentHandler := handlers.NewPaymentHandler(db, d.Payments, d.Audit, d.Notify)
	notificationHandler := handlers.NewNotificationHandler(db, d.Notify, d.Audit)
	chatHandler := handlers.NewChatHandler(db, d.Hub, d.Audit)
	messageHandler := handlers.NewMessageHandler(db, d.Hub, d.Audit)

	adminHandler := handlers.NewAdminHandler(db, gymStatsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🩺 OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		r.Static("/uploads", local.BasePath())
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔓 PUBLIC
		// ------------------------------
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
		api.POST("/users", authLimiter.Middleware(), userHandler.Register)

		// ------------------------------
		// 🔐 AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/users/current-user", userHandler.CurrentUser)
			secured.PATCH("/users/current-user", userHandler.UpdateCurrentUser)
			secured.GET("/users/personal-trainers", userHandler.PersonalTrainers)
			secured.GET("/users/personal-trainers/:id/availability", scheduleHandler.TrainerAvailability)

			secured.GET("/member-profiles/me", profileHandler.Me)
			crud(secured, "/member-profiles", profileHandler)

			crud(secured, "/packages", packageHandler)
			crud(secured, "/member-packages", memberPackageHandler)

			// ------------------------------
			// SCHEDULES
			// ------------------------------
			secured.GET("/schedules/month", scheduleHandler.ListByMonth)
			crud(secured, "/schedules", scheduleHandler)
			secured.PATCH("/schedules/:id/approve", scheduleHandler.Transition(domain.ActionApprove))
			secured.PATCH("/schedules/:id/reject", scheduleHandler.Transition(domain.ActionReject))
			secured.PATCH("/schedules/:id/complete", scheduleHandler.Transition(domain.ActionComplete))
			secured.PATCH("/schedules/:id/cancel", scheduleHandler.Transition(domain.ActionCancel))

			crud(secured, "/reviews", reviewHandler)
			crud(secured, "/progress", progressHandler)

			crud(secured, "/payments", paymentHandler)
			secured.POST("/payments/:id/checkout", paymentHandler.Checkout)

			secured.POST("/notifications/read-all", notificationHandler.ReadAll)
			crud(secured, "/notifications", notificationHandler)
			secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

			crud(secured, "/chats", chatHandler)
			secured.GET("/chats/:id/messages", chatHandler.Messages)
			secured.GET("/chats/:id/ws", chatHandler.Subscribe)

			crud(secured, "/messages", messageHandler)

			// ------------------------------
			// ADMIN
			// ------------------------------
			adminAPI := secured.Group("/admin")
			{
				// trainers reach the schedule changelist; the registry scopes it
				adminAPI.GET("/resources/:name", middleware.RequireAdminOrTrainer(), adminHandler.ListResource)

				adminOnly := adminAPI.Group("/")
				adminOnly.Use(middleware.RequireAdmin())
				{
					adminOnly.GET("/resources", adminHandler.Resources)
					adminOnly.GET("/gym-stats", adminHandler.GymStats)
					adminOnly.GET("/audit-logs", auditLogsHandler.List)
				}
			}
		}
	}
}

type crudHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// crud registers the list/retrieve/create/update/delete routes of a resource.
// PUT and PATCH share the partial update handler.
func crud(g *gin.RouterGroup, path string, h crudHandler) {
	g.GET(path, h.List)
	g.GET(path+"/:id", h.Get)
	g.POST(path, h.Create)
	g.PUT(path+"/:id", h.Update)
	g.PATCH(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}
