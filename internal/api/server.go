package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/confaro/confaro-api/docs"
	v1 "github.com/confaro/confaro-api/internal/api/handler/v1"
	"github.com/confaro/confaro-api/internal/api/middleware"
	"github.com/confaro/confaro-api/internal/config"
	"github.com/confaro/confaro-api/internal/notify"
	"github.com/confaro/confaro-api/internal/repository"
	"github.com/confaro/confaro-api/internal/repository/dao"
	"github.com/confaro/confaro-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	ticketHandler := s.initTicketHandler(db)
	purchaseHandler := s.initPurchaseHandler(db)
	paymentHandler := s.initPaymentHandler(db)
	adminHandler := s.initAdminTicketHandler(db)
	conversionHandler := s.initAdminConversionHandler(db)
	s.MountHandlers(ticketHandler, purchaseHandler, paymentHandler, adminHandler, conversionHandler)

	return s
}

func (s *Server) notifier() notify.Notifier {
	if s.Config.Kafka != nil && s.Config.Kafka.Enabled {
		return notify.NewKafkaNotifier(s.Config.Kafka.Brokers, s.Config.Kafka.ConfirmationTopic)
	}

	return notify.NewLogNotifier()
}

func (s *Server) initTicketHandler(db *gorm.DB) *v1.TicketHandler {
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	confSvc := service.NewConferenceService(repository.NewConferenceRepository(dao.NewConferenceDAO(db)))
	svc := service.NewTicketService(ticketRepo)
	handler := v1.NewTicketHandler(svc, confSvc)

	return handler
}

func (s *Server) initPurchaseHandler(db *gorm.DB) *v1.PurchaseHandler {
	purchaseRepo := repository.NewPurchaseRepository(dao.NewTicketPurchaseDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	rateRepo := repository.NewCurrencyRepository(dao.NewCurrencyConversionDAO(db))
	fulfillment := service.NewFulfillmentService(purchaseRepo, s.notifier())
	svc := service.NewPurchaseService(purchaseRepo, ticketRepo, rateRepo, fulfillment)
	confSvc := service.NewConferenceService(repository.NewConferenceRepository(dao.NewConferenceDAO(db)))
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewPurchaseHandler(svc, confSvc, uSvc)

	return handler
}

func (s *Server) initPaymentHandler(db *gorm.DB) *v1.PaymentHandler {
	purchaseRepo := repository.NewPurchaseRepository(dao.NewTicketPurchaseDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	fulfillment := service.NewFulfillmentService(purchaseRepo, s.notifier())
	svc := service.NewPaymentService(paymentRepo, purchaseRepo, fulfillment)
	confSvc := service.NewConferenceService(repository.NewConferenceRepository(dao.NewConferenceDAO(db)))
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewPaymentHandler(svc, confSvc, uSvc)

	return handler
}

func (s *Server) initAdminTicketHandler(db *gorm.DB) *v1.AdminTicketHandler {
	purchaseRepo := repository.NewPurchaseRepository(dao.NewTicketPurchaseDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	rateRepo := repository.NewCurrencyRepository(dao.NewCurrencyConversionDAO(db))
	conferenceRepo := repository.NewConferenceRepository(dao.NewConferenceDAO(db))
	fulfillment := service.NewFulfillmentService(purchaseRepo, s.notifier())
	giver := service.NewAdminTicketService(purchaseRepo, ticketRepo, conferenceRepo, fulfillment)
	tickets := service.NewTicketService(ticketRepo)
	purchases := service.NewPurchaseService(purchaseRepo, ticketRepo, rateRepo, fulfillment)
	confSvc := service.NewConferenceService(conferenceRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewAdminTicketHandler(tickets, giver, purchases, confSvc, uSvc)

	return handler
}

func (s *Server) initAdminConversionHandler(db *gorm.DB) *v1.AdminConversionHandler {
	rateRepo := repository.NewCurrencyRepository(dao.NewCurrencyConversionDAO(db))
	svc := service.NewCurrencyService(rateRepo)
	confSvc := service.NewConferenceService(repository.NewConferenceRepository(dao.NewConferenceDAO(db)))
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewAdminConversionHandler(svc, confSvc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(ticketHandler *v1.TicketHandler, purchaseHandler *v1.PurchaseHandler, paymentHandler *v1.PaymentHandler, adminHandler *v1.AdminTicketHandler, conversionHandler *v1.AdminConversionHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/conferences/:shortTitle/tickets", ticketHandler.HandleListVisibleTickets)
	}

	purchases := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		purchases.POST("/conferences/:shortTitle/purchases", purchaseHandler.HandlePurchaseTickets)
		purchases.GET("/conferences/:shortTitle/purchases", purchaseHandler.HandleListUnpaidPurchases)
		purchases.POST("/conferences/:shortTitle/payments", paymentHandler.HandleStartPayment)
		purchases.POST("/conferences/:shortTitle/payments/:paymentID/confirm", paymentHandler.HandleConfirmPayment)
	}

	admin := s.Router.Group(basePath+"/admin", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.GET("/conferences/:shortTitle/tickets", adminHandler.HandleListTickets)
		admin.POST("/conferences/:shortTitle/tickets", adminHandler.HandleCreateTicket)
		admin.GET("/conferences/:shortTitle/tickets/:ticketID", adminHandler.HandleGetTicket)
		admin.PUT("/conferences/:shortTitle/tickets/:ticketID", adminHandler.HandleUpdateTicket)
		admin.DELETE("/conferences/:shortTitle/tickets/:ticketID", adminHandler.HandleDeleteTicket)
		admin.POST("/conferences/:shortTitle/tickets/:ticketID/give", adminHandler.HandleGiveTicket)
		admin.DELETE("/conferences/:shortTitle/purchases/:purchaseID", adminHandler.HandleRemovePurchase)
		admin.GET("/conferences/:shortTitle/conversions", conversionHandler.HandleListConversions)
		admin.POST("/conferences/:shortTitle/conversions", conversionHandler.HandleCreateConversion)
		admin.DELETE("/conferences/:shortTitle/conversions/:conversionID", conversionHandler.HandleDeleteConversion)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Confaro Ticketing API"
	docs.SwaggerInfo.Description = "Conference ticket sales, fulfillment and administration."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
