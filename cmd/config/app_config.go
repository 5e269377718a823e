package config

import (
	"os"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/internal/api/handlers"
	"modmaster-backend/internal/api/routes"
	"modmaster-backend/internal/middleware"
	"modmaster-backend/internal/utils"
	"modmaster-backend/internal/utils/storage"
	"modmaster-backend/pkg/inference"
	"modmaster-backend/pkg/jwt"
	"modmaster-backend/pkg/marketplace"
	"modmaster-backend/pkg/part"
	"modmaster-backend/pkg/recommendation"
	"modmaster-backend/pkg/scan"
	"modmaster-backend/pkg/subscription"
	"modmaster-backend/pkg/user"
	"modmaster-backend/pkg/vehicle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	inferenceClient := inference.NewClient()
	summaryCache := marketplace.NewSummaryCache(domain.PriceSummaryCacheTTLMin * time.Minute)

	// Repository
	userRepository := user.NewUserRepository(db)
	vehicleRepository := vehicle.NewVehicleRepository(db)
	partRepository := part.NewPartRepository(db)
	scanRepository := scan.NewScanRepository(db)
	recommendationRepository := recommendation.NewRecommendationRepository(db)
	marketplaceRepository := marketplace.NewMarketplaceRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	vehicleService := vehicle.NewVehicleService(vehicleRepository)
	partService := part.NewPartService(partRepository)
	marketplaceService := marketplace.NewMarketplaceService(
		marketplaceRepository,
		partRepository,
		summaryCache,
	)
	recommendationService := recommendation.NewRecommendationService(
		recommendationRepository,
		partRepository,
		vehicleRepository,
		userRepository,
		marketplaceService,
	)
	scanService := scan.NewScanService(
		scanRepository,
		userRepository,
		inferenceClient,
		recommendationService,
		s3,
	)
	subscriptionService := subscription.NewSubscriptionService(
		subscriptionRepository,
		userRepository,
	)

	// Background sweeper for scans whose worker callback never arrived
	sweeper := scan.NewSweeper(scanRepository, inferenceClient)
	sweeper.Start()

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, validator)
	partHandler := handlers.NewPartHandler(partService)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, validator)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, validator)

	// routes
	routesConfig := routes.Config{
		App:                   app,
		UserHandler:           userHandler,
		VehicleHandler:        vehicleHandler,
		PartHandler:           partHandler,
		ScanHandler:           scanHandler,
		RecommendationHandler: recommendationHandler,
		MarketplaceHandler:    marketplaceHandler,
		SubscriptionHandler:   subscriptionHandler,
		Middleware:            middlewares,
		JWTService:            jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
