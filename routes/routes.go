package routes

import (
	"os"
	"strings"

	"boutique-backend/config"
	"boutique-backend/controllers"
	"boutique-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Public booking surface: the customer-facing form posts here without
	// authentication.
	r.POST("/book", controllers.CreateAppointment)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.POST("/:id/cancel", controllers.CancelAppointment)
			appointments.POST("/:id/assign-staff", controllers.AssignStaff)
		}

		// Notification flow routes
		flows := api.Group("/flows", utils.AdminOnly())
		{
			flows.POST("", controllers.CreateFlow)
			flows.GET("", controllers.GetFlows)
			flows.GET("/:id", controllers.GetFlow)
			flows.PUT("/:id", controllers.UpdateFlow)
			flows.DELETE("/:id", controllers.DeleteFlow)
		}

		// Flow diagnostics: dry-run the matcher for a trigger/profile pair
		api.POST("/diagnostics/flows", utils.AdminOnly(), controllers.DiagnoseFlows)

		// Template routes
		templates := api.Group("/templates", utils.AdminOnly())
		{
			templates.POST("/whatsapp", controllers.CreateWhatsAppTemplate)
			templates.GET("/whatsapp", controllers.GetWhatsAppTemplates)
			templates.GET("/whatsapp/:id", controllers.GetWhatsAppTemplate)
			templates.GET("/whatsapp/:id/preview", controllers.PreviewWhatsAppTemplate)
			templates.PUT("/whatsapp/:id", controllers.UpdateWhatsAppTemplate)
			templates.DELETE("/whatsapp/:id", controllers.DeleteWhatsAppTemplate)

			templates.POST("/mail", controllers.CreateMailTemplate)
			templates.GET("/mail", controllers.GetMailTemplates)
			templates.GET("/mail/:id", controllers.GetMailTemplate)
			templates.PUT("/mail/:id", controllers.UpdateMailTemplate)
			templates.DELETE("/mail/:id", controllers.DeleteMailTemplate)

			templates.GET("/variables", controllers.GetMessageVariables)
		}

		// Message log and conversation routes
		messages := api.Group("/messages")
		{
			messages.GET("", controllers.GetMessages)
			messages.POST("/incoming", controllers.LogIncomingMessage)
		}

		conversations := api.Group("/conversations")
		{
			conversations.GET("", controllers.GetConversations)
			conversations.GET("/:phone", controllers.GetConversationThread)
			conversations.POST("/:phone/read", controllers.MarkConversationRead)
		}
	}

	return r
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
