package routes

import (
	"log"
	"net/url"

	"hoa/constants"
	"hoa/controllers"
	middlewares "hoa/middleware"
	"hoa/services"
	"hoa/services/notification"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) {

	notifier := notification.NewMelodyService(m)

	rates := services.DefaultRateTable()
	clock := services.SystemClock()

	_ = services.NewBillingService(services.BillingServiceOptions{
		DB:       db,
		Rates:    &rates,
		Clock:    clock,
		Notifier: notifier,
	})
	billService := services.NewBillService(services.BillServiceOptions{
		DB:       db,
		Clock:    clock,
		Notifier: notifier,
	})
	advanceService := services.NewAdvanceService(services.AdvanceServiceOptions{
		DB:    db,
		Rates: &rates,
	})
	paymentService := services.NewPaymentService(services.PaymentServiceOptions{
		DB:        db,
		Clock:     clock,
		Bills:     billService,
		Allocator: advanceService,
	})
	unitService := services.NewUnitService(services.UnitServiceOptions{DB: db})

	billController := controllers.NewBillController(db, redisCli, billService)
	paymentController := controllers.NewPaymentController(db, paymentService, advanceService)
	unitController := controllers.NewUnitController(db, unitService)

	v1 := router.Group("/api/v1")

	v1.GET("/bills", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), billController.GetBills)
	v1.GET("/bills/:id", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), billController.GetBillDetail)
	v1.GET("/bills/summary", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant), billController.GetMonthlySummary)
	v1.GET("/bills/yearly", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant), billController.GetYearlySummary)
	v1.GET("/bills/overdue-users", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant), billController.GetOverdueUsers)

	v1.POST("/payments", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), paymentController.CreatePayment)
	v1.GET("/payments", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), paymentController.GetPayments)
	v1.GET("/payments/:id", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), paymentController.GetPaymentDetail)
	v1.PUT("/paymentStatus", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant), paymentController.UpdatePaymentStatus)
	v1.POST("/payments/calculate-advance", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), paymentController.CalculateAdvancePayment)
	v1.POST("/img/upload", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleAccountant, constants.RoleResident), paymentController.UploadProof)

	v1.GET("/payment-methods", paymentController.GetPaymentMethods)
	v1.POST("/payment-methods", middlewares.AuthMiddleware(constants.RoleAdmin), paymentController.CreatePaymentMethod)
	v1.PUT("/payment-methods/:id", middlewares.AuthMiddleware(constants.RoleAdmin), paymentController.UpdatePaymentMethod)
	v1.DELETE("/payment-methods/:id", middlewares.AuthMiddleware(constants.RoleAdmin), paymentController.DeletePaymentMethod)

	v1.GET("/units", unitController.GetUnits)
	v1.GET("/units/:id", unitController.GetUnitDetail)
	v1.GET("/units/search", unitController.SearchUnits)
	v1.POST("/units", middlewares.AuthMiddleware(constants.RoleAdmin), unitController.CreateUnit)
	v1.PUT("/unitUpdate", middlewares.AuthMiddleware(constants.RoleAdmin), unitController.UpdateUnit)
	v1.DELETE("/units/:id", middlewares.AuthMiddleware(constants.RoleAdmin), unitController.DeleteUnit)
	v1.POST("/assignUnit", middlewares.AuthMiddleware(constants.RoleAdmin), unitController.AssignUnit)
	v1.PUT("/moveOut/:id", middlewares.AuthMiddleware(constants.RoleAdmin), unitController.MoveOut)

	setupWebSocket(router, m)
}

// setupWebSocket gắn endpoint /ws; client kết nối kèm ?token= và session
// được gắn userID để nhận thông báo hóa đơn riêng
func setupWebSocket(router *gin.Engine, m *melody.Melody) {
	router.GET("/ws", func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})

	m.HandleConnect(func(s *melody.Session) {
		query, err := url.ParseQuery(s.Request.URL.RawQuery)
		if err != nil {
			s.Close()
			return
		}
		token := query.Get("token")
		if token == "" {
			s.Close()
			return
		}

		userID, err := services.GetIDFromToken(token)
		if err != nil {
			log.Println("WebSocket: token không hợp lệ, đóng kết nối")
			s.Close()
			return
		}
		s.Set(notification.SessionUserKey, userID)
	})
}
