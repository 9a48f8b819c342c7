package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/audit"
	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/backup"
	"github.com/salontid/salontid-api/internal/config"
	"github.com/salontid/salontid-api/internal/handlers"
	"github.com/salontid/salontid-api/internal/importer"
	infraRepo "github.com/salontid/salontid-api/internal/infra/repository"
	"github.com/salontid/salontid-api/internal/loyalty"
	"github.com/salontid/salontid-api/internal/middleware"
	"github.com/salontid/salontid-api/internal/monitoring"
	"github.com/salontid/salontid-api/internal/notify"
	"github.com/salontid/salontid-api/internal/payroll"
	"github.com/salontid/salontid-api/internal/pos"
	"github.com/salontid/salontid-api/internal/queue"
	"github.com/salontid/salontid-api/internal/saasadmin"
	ucAppointment "github.com/salontid/salontid-api/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(monitoring.RequestMetrics())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	posRepo := infraRepo.NewPOSGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	notifier := notify.NewDispatcher(
		notify.NewTwilioSMS(cfg),
		notify.NewSMTPEmail(cfg),
		log,
	)

	tokenService := auth.NewRefreshTokenService(db, log)
	loyaltyService := loyalty.NewService(db, log)
	queueService := queue.NewService(db, log)
	payrollService := payroll.NewService(db)
	posService := pos.NewService(posRepo, cfg.StripeAPIKey, log)
	importService := importer.NewCustomerImporter(db, log)
	backupService := backup.NewService(db, cfg, log)
	adminService := saasadmin.NewService(db, tokenService, log)
	statusService := monitoring.NewStatusService(db, rdb, log)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, notifier, log)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, log)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, notifier, log)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, loyaltyService, log)
	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(appointmentRepo, notifier, log)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, tokenService, log)
	meHandler := handlers.NewMeHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	employeeHandler := handlers.NewEmployeeHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db)
	onboardingHandler := handlers.NewOnboardingHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		confirmAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		rescheduleAppointmentUC,
		listAppointmentsUC,
	)

	queueHandler := handlers.NewQueueHandler(queueService)
	payrollHandler := handlers.NewPayrollHandler(payrollService)
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyService)
	posHandler := handlers.NewPOSHandler(db, posService, posRepo)
	importHandler := handlers.NewImportHandler(db, importService)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	monitoringHandler := handlers.NewMonitoringHandler(statusService)
	adminHandler := handlers.NewSaaSAdminHandler(db, cfg, adminService, backupService)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/healthz", monitoringHandler.Status)
	r.GET("/metrics", monitoring.MetricsHandler())

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/public/appointments/:token/reschedule", appointmentHandler.ReschedulePublic)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		secured.Use(middleware.AuditTrail(auditDispatcher))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/auth/logout-all", authHandler.LogoutAll)
			secured.GET("/auth/sessions", authHandler.Sessions)

			secured.POST("/onboarding/complete", onboardingHandler.Complete)

			// Customers
			secured.GET("/customers", customerHandler.List)
			secured.POST("/customers", customerHandler.Create)
			secured.GET("/customers/:id", customerHandler.Get)
			secured.PATCH("/customers/:id", customerHandler.Update)
			secured.DELETE("/customers/:id", customerHandler.Delete)

			secured.GET("/customers/:id/loyalty", loyaltyHandler.Balance)
			secured.POST("/customers/:id/loyalty/redeem", loyaltyHandler.Redeem)
			secured.GET("/customers/:id/loyalty/history", loyaltyHandler.History)

			// Services
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			// Employees
			secured.GET("/employees", employeeHandler.List)
			secured.POST("/employees", employeeHandler.Create)
			secured.PATCH("/employees/:id", employeeHandler.Update)
			secured.GET("/employees/:id/schedule", scheduleHandler.Get)
			secured.PUT("/employees/:id/schedule", scheduleHandler.Update)
			secured.POST("/employees/:id/leave", scheduleHandler.RequestLeave)
			secured.GET("/employees/:id/payroll", payrollHandler.ForEmployee)

			secured.GET("/leave", scheduleHandler.ListLeave)
			secured.PATCH("/leave/:leaveId/status", scheduleHandler.SetLeaveStatus)

			// Appointments
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id/history", appointmentHandler.History)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			// Walk-in queue
			secured.GET("/queue", queueHandler.List)
			secured.POST("/queue", queueHandler.Add)
			secured.GET("/queue/wait-times", queueHandler.WaitTimes)
			secured.PATCH("/queue/:id/start", queueHandler.StartService)
			secured.PATCH("/queue/:id/complete", queueHandler.CompleteService)
			secured.PATCH("/queue/:id/priority", queueHandler.UpdatePriority)
			secured.DELETE("/queue/:id", queueHandler.Remove)

			// Point of sale
			secured.GET("/orders", posHandler.ListOrders)
			secured.POST("/orders", posHandler.CreateOrder)
			secured.GET("/orders/:id", posHandler.GetOrder)
			secured.PATCH("/orders/:id/void", posHandler.VoidOrder)
			secured.POST("/orders/:id/payments", posHandler.TakePayment)
			secured.POST("/orders/:id/split", posHandler.PaySplit)
			secured.POST("/payments/:id/refund", posHandler.Refund)

			// Import
			secured.POST("/imports/customers", importHandler.ImportCustomers)
			secured.GET("/imports", importHandler.ListImports)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// PLATFORM ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg))
		admin.Use(middleware.RequireRole(middleware.RolePlatformOwner))
		{
			admin.GET("/tenants", adminHandler.ListTenants)
			admin.PATCH("/tenants/:id/suspend", adminHandler.Suspend)
			admin.PATCH("/tenants/:id/reactivate", adminHandler.Reactivate)
			admin.PATCH("/tenants/:id/cancel", adminHandler.Cancel)
			admin.PATCH("/tenants/:id/extend-trial", adminHandler.ExtendTrial)
			admin.DELETE("/tenants/:id", adminHandler.PermanentDelete)
			admin.POST("/tenants/:id/impersonate", adminHandler.Impersonate)
			admin.POST("/tenants/:id/revoke-tokens", adminHandler.RevokeTenantTokens)
			admin.POST("/tenants/:id/backup", adminHandler.BackupTenant)
		}
	}
}
