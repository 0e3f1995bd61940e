package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/config"
	"github.com/imobflow/imob-crm-api/internal/handlers"
	"github.com/imobflow/imob-crm-api/internal/jobs"
	"github.com/imobflow/imob-crm-api/internal/middleware"
	"github.com/imobflow/imob-crm-api/internal/payments"
	"github.com/imobflow/imob-crm-api/internal/storage"
	"github.com/imobflow/imob-crm-api/internal/whatsapp"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	redisClient := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	dashboardCache := cache.NewDashboard(redisClient, cfg.DashboardCacheTTL, logger)

	whatsappClient := whatsapp.NewClient(
		cfg.WhatsappAPIURL,
		cfg.WhatsappAPIKey,
		cfg.WhatsappInstance,
		cfg.WhatsappTimeout,
		logger,
	)

	jobRunner := jobs.NewRunner(
		whatsappClient,
		cfg.WhatsappSequentialPause,
		cfg.WhatsappMaxConsecFail,
		logger,
	)

	uploader := storage.NewUploader(
		cfg.S3Endpoint,
		cfg.S3Region,
		cfg.S3Bucket,
		cfg.S3AccessKey,
		cfg.S3SecretKey,
	)

	mp, err := payments.NewMercadoPago(cfg.MPAccessToken)
	if err != nil {
		logger.Warn().Err(err).Msg("mercado pago desligado")
		mp = nil
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	clienteHandler := handlers.NewClienteHandler(db, auditDispatcher, dashboardCache)
	noteHandler := handlers.NewClienteNoteHandler(db, auditDispatcher)

	appointmentHandler := handlers.NewAppointmentHandler(db, auditDispatcher, dashboardCache)
	visitHandler := handlers.NewVisitHandler(db, auditDispatcher, dashboardCache)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	saleHandler := handlers.NewSaleHandler(db, auditDispatcher, dashboardCache, mp)

	dashboardHandler := handlers.NewDashboardHandler(db, dashboardCache)
	reportsHandler := handlers.NewReportsHandler(db)

	whatsappHandler := handlers.NewWhatsappHandler(
		db,
		whatsappClient,
		jobRunner,
		uploader,
		auditDispatcher,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, auditDispatcher, dashboardCache)

	// ======================================================
	// 📈 OPERACIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.POST("/leads", publicHandler.CreateLead)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// CLIENTES (FUNIL)
			// ------------------------------
			secured.GET("/clientes", clienteHandler.List)
			secured.POST("/clientes", clienteHandler.Create)
			secured.GET("/clientes/:id", clienteHandler.Get)
			secured.PATCH("/clientes/:id", clienteHandler.Update)
			secured.PATCH("/clientes/:id/status", clienteHandler.UpdateStatus)
			secured.DELETE("/clientes/:id", clienteHandler.Delete)

			secured.GET("/clientes/:id/notes", noteHandler.List)
			secured.POST("/clientes/:id/notes", noteHandler.Create)
			secured.DELETE("/clientes/:id/notes/:noteId", noteHandler.Delete)

			secured.GET("/clientes/:id/visits", visitHandler.ListByCliente)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// VISITAS
			// ------------------------------
			secured.POST("/visits", visitHandler.Create)
			secured.GET("/visits", visitHandler.ListByDate)
			secured.GET("/visits/availability", visitHandler.Availability)
			secured.PATCH("/visits/:id", visitHandler.Update)
			secured.PATCH("/visits/:id/complete", visitHandler.Complete)
			secured.PATCH("/visits/:id/cancel", visitHandler.Cancel)
			secured.PATCH("/visits/:id/no-show", visitHandler.NoShow)
			secured.DELETE("/visits/:id", visitHandler.Delete)

			// ------------------------------
			// VENDAS
			// ------------------------------
			secured.POST("/sales", saleHandler.Create)
			secured.GET("/sales", saleHandler.List)
			secured.GET("/sales/:id", saleHandler.Get)
			secured.PATCH("/sales/:id", saleHandler.Update)
			secured.DELETE("/sales/:id", saleHandler.Delete)
			secured.POST("/sales/:id/confirm", saleHandler.Confirm)
			secured.POST("/sales/:id/cancel", saleHandler.Cancel)
			secured.POST("/sales/:id/payment-link", saleHandler.CreatePaymentLink)

			// ------------------------------
			// DASHBOARD
			// ------------------------------
			secured.GET("/dashboard/summary", dashboardHandler.Summary)

			// ------------------------------
			// WHATSAPP + JOBS SEQUENCIAIS
			// ------------------------------
			secured.GET("/whatsapp/connection", whatsappHandler.Connection)
			secured.POST("/whatsapp/connection/check", whatsappHandler.CheckConnection)
			secured.POST("/whatsapp/send", whatsappHandler.SendMessage)

			secured.POST("/whatsapp/jobs/:kind/start", whatsappHandler.StartJob)
			secured.POST("/whatsapp/jobs/:kind/stop", whatsappHandler.StopJob)
			secured.GET("/whatsapp/jobs/:kind/status", whatsappHandler.JobStatus)

			secured.GET("/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// 🔒 ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/reports/monthly", reportsHandler.Monthly)
				admin.GET("/reports/monthly/pdf", reportsHandler.MonthlyPDF)
			}
		}
	}
}
