package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pedidos-service/internal/config"
	"pedidos-service/internal/controller"
	"pedidos-service/internal/jobs"
	"pedidos-service/internal/maps"
	"pedidos-service/internal/middleware"
	"pedidos-service/internal/notifier"
	"pedidos-service/internal/rabbit"
	"pedidos-service/internal/repository"
	"pedidos-service/internal/service"
	"pedidos-service/internal/storage"
)

func main() {
	cfg := config.Load()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositorios
	orderRepo := repository.NewMongoOrderRepository(db)
	zoneRepo := repository.NewMongoZoneRepository(db)
	courierRepo := repository.NewMongoCourierRepository(db)
	outboxRepo := repository.NewMongoOutboxRepository(db)

	// Servicios
	resolver := service.NewAssignmentResolver(orderRepo, zoneRepo)
	orderService := service.NewOrderService(orderRepo, outboxRepo, courierRepo, resolver)
	zoneService := service.NewZoneService(zoneRepo)
	courierService := service.NewCourierService(courierRepo)
	authService := service.NewAuthService()

	// Colaboradores externos
	mailer := notifier.NewNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	mapsClient := maps.NewStaticMapClient(cfg.MapsURL, cfg.MapsAPIKey)
	storageClient := storage.NewClient(cfg.StorageURL)

	// Handlers
	orderCtl := controller.NewOrderController(orderService, mapsClient)
	zoneCtl := controller.NewZoneController(zoneService)
	courierCtl := controller.NewCourierController(courierService, storageClient)

	// Router
	r := gin.Default()

	// Rutas públicas: checkout y seguimiento del cliente
	r.POST("/businesses/:businessId/orders", orderCtl.CreateOrder)
	r.GET("/orders/:orderId", orderCtl.GetOrder)
	r.GET("/orders/:orderId/stream", orderCtl.StreamOrder)
	r.GET("/orders/:orderId/map", orderCtl.GetOrderMap)

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.PATCH("/orders/:orderId/status", orderCtl.UpdateStatus)
	auth.PUT("/orders/:orderId/assign", orderCtl.AssignCourier)

	// Panel del negocio
	business := auth.Group("/business")
	business.Use(middleware.BusinessOnly())
	business.GET("/orders", orderCtl.GetBusinessOrders)
	business.GET("/orders/state/:state", orderCtl.GetBusinessOrdersByState)
	business.GET("/orders/unassigned", orderCtl.GetUnassigned)
	business.GET("/zones", zoneCtl.List)
	business.POST("/zones", zoneCtl.Create)
	business.PUT("/zones/:zoneId", zoneCtl.Update)
	business.DELETE("/zones/:zoneId", zoneCtl.Delete)
	business.GET("/reports/summary", orderCtl.ReportSummary)
	business.GET("/reports/delivery-times", orderCtl.ReportDeliveryTimes)

	// Rutas admin de plataforma
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/deliveries", courierCtl.List)
	admin.POST("/deliveries", courierCtl.Create)
	admin.PUT("/deliveries/:deliveryId", courierCtl.Update)
	admin.PATCH("/deliveries/:deliveryId/estado", courierCtl.SetEstado)
	admin.POST("/deliveries/:deliveryId/photo", courierCtl.UploadPhoto)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	publisher, err := rabbit.NewPublisher(ch)
	if err != nil {
		log.Fatalf("Error declarando exchange en RabbitMQ: %v", err)
	}

	rabbit.SetupConsumers(ch,
		rabbit.NewNotificationConsumer(orderService, mailer),
		rabbit.NewAssignmentConsumer(resolver),
	)

	// Jobs en background: barrido del outbox y pedidos programados
	jobManager := jobs.NewJobManager(outboxRepo, publisher, orderService)
	if err := jobManager.StartAll(); err != nil {
		log.Fatal(err)
	}
	defer jobManager.StopAll()

	// Ejecutar servidor
	log.Printf("Pedidos Service ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
