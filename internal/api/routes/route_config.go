package routes

import (
	"modmaster-backend/internal/api/handlers"
	"modmaster-backend/internal/middleware"
	"modmaster-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                   *fiber.App
	UserHandler           handlers.UserHandler
	VehicleHandler        handlers.VehicleHandler
	PartHandler           handlers.PartHandler
	ScanHandler           handlers.ScanHandler
	RecommendationHandler handlers.RecommendationHandler
	MarketplaceHandler    handlers.MarketplaceHandler
	SubscriptionHandler   handlers.SubscriptionHandler
	Middleware            middleware.Middleware
	JWTService            jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Vehicles()
	c.Parts()
	c.Scans()
	c.Recommendations()
	c.Marketplace()
	c.GuestRoute()
	c.InternalRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/preferences", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdatePreferences)
		user.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.CreateUpgrade)
	}
}

func (c *Config) Vehicles() {
	vehicles := c.App.Group("/api/v1/vehicles", c.Middleware.AuthMiddleware(c.JWTService))

	vehicles.Post("", c.VehicleHandler.AddVehicle)
	vehicles.Get("", c.VehicleHandler.GetVehicles)
	vehicles.Put("/:id", c.VehicleHandler.UpdateVehicle)
	vehicles.Delete("/:id", c.VehicleHandler.DeleteVehicle)
	vehicles.Post("/:id/parts", c.VehicleHandler.InstallPart)
}

func (c *Config) Parts() {
	parts := c.App.Group("/api/v1/parts", c.Middleware.AuthMiddleware(c.JWTService))

	parts.Get("", c.PartHandler.GetParts)
	parts.Get("/:id", c.PartHandler.GetPartDetail)
	parts.Get("/:id/prices", c.MarketplaceHandler.GetPriceSummary)
	parts.Get("/:id/price-history", c.MarketplaceHandler.GetPriceHistory)
	parts.Post("/:id/refresh-prices", c.MarketplaceHandler.RefreshPrices)
}

func (c *Config) Scans() {
	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))

	scans.Post("", c.ScanHandler.CreateScan)
	scans.Get("", c.ScanHandler.GetScans)
	scans.Get("/:id", c.ScanHandler.GetScan)
	scans.Get("/:id/status", c.ScanHandler.GetScanStatus)
	scans.Delete("/:id", c.ScanHandler.DeleteScan)
	scans.Post("/:id/retry", c.ScanHandler.RetryScan)
	scans.Post("/:id/feedback", c.ScanHandler.SubmitFeedback)
}

func (c *Config) Recommendations() {
	recs := c.App.Group("/api/v1/recommendations", c.Middleware.AuthMiddleware(c.JWTService))

	recs.Post("/generate", c.RecommendationHandler.GenerateRecommendations)
	recs.Get("", c.RecommendationHandler.GetRecommendations)
	recs.Post("/:id/interactions", c.RecommendationHandler.RecordInteraction)
}

func (c *Config) Marketplace() {
	marketplace := c.App.Group("/api/v1/marketplace", c.Middleware.AuthMiddleware(c.JWTService))

	marketplace.Get("/deals", c.MarketplaceHandler.GetDeals)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.SubscriptionHandler.MidtransWebhook)
}

// InternalRoute carries the worker callback, authenticated by shared key.
func (c *Config) InternalRoute() {
	internal := c.App.Group("/api/v1/internal", c.Middleware.InternalAPIKeyMiddleware())

	internal.Post("/scans/:id/results", c.ScanHandler.ReconcileResult)
}
