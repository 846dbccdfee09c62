package routes

import (
	"PlantDoc-Backend/internal/api/handlers"
	"PlantDoc-Backend/internal/middleware"
	"PlantDoc-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	AnalysisHandler handlers.AnalysisHandler
	ChatHandler     handlers.ChatHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Analysis()
	c.Chat()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Analysis() {
	analysis := c.App.Group("/api/v1/analysis", c.Middleware.AuthMiddleware(c.JWTService))
	analysis.Post("", c.AnalysisHandler.Analyze)
	analysis.Get("/history", c.AnalysisHandler.GetHistory)
	analysis.Get("/dashboard", c.AnalysisHandler.GetDashboard)
}

func (c *Config) Chat() {
	chat := c.App.Group("/api/v1/chat", c.Middleware.AuthMiddleware(c.JWTService))
	chat.Post("", c.ChatHandler.Chat)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
