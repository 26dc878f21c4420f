package main

import (
	"fmt"
	"log"
	"os"

	"boutique-backend/config"
	"boutique-backend/controllers"
	"boutique-backend/models"
	"boutique-backend/routes"
	"boutique-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.NotificationFlow{},
		&models.WhatsAppTemplate{},
		&models.MailTemplate{},
		&models.MessageLog{},
		&models.ReadMarker{},
	)
}

func main() {
	whatsapp := services.NewCloudAPISender()
	mail := services.NewSMTPSender()
	sms := services.NewTwilioSender()

	dispatcher := services.NewDispatchService(config.DB, whatsapp, mail, sms, config.Log)
	controllers.UseDispatcher(dispatcher)
	controllers.UseChatService(services.NewChatService(config.DB, services.NewGormReadMarkers(config.DB)))
	controllers.UseFlowService(services.NewFlowService(config.DB))

	reminders := services.NewReminderService(config.DB, dispatcher, config.Log)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
