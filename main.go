package main

import (
	"log"
	"net/http"
	"os"

	"hoa/config"
	"hoa/jobs"
	"hoa/routes"
	"hoa/services"
	"hoa/services/logger"
	"hoa/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	// if err := config.DB.AutoMigrate(&models.User{}, &models.Unit{}, &models.AssignedUnit{}, &models.MonthlyBill{}, &models.PaymentMethod{}, &models.PaymentRecord{}); err != nil {
	// 	panic("Failed to migrate tables: " + err.Error())
	// }
}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	rates := services.DefaultRateTable()
	billingService := services.NewBillingService(services.BillingServiceOptions{
		DB:       config.DB,
		Rates:    &rates,
		Clock:    services.SystemClock(),
		Logger:   logger.NewDefaultLogger(logger.InfoLevel),
		Notifier: notification.NewMelodyService(m),
	})
	jobs.SetBillScheduler(billingService)

	migrateTables()

	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(router, config.DB, config.RedisClient, config.Cloudinary, m)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
