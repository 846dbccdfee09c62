package config

import (
	"PlantDoc-Backend/internal/api/handlers"
	"PlantDoc-Backend/internal/api/routes"
	"PlantDoc-Backend/internal/middleware"
	"PlantDoc-Backend/internal/utils"
	"PlantDoc-Backend/internal/utils/storage"
	"PlantDoc-Backend/pkg/analysis"
	"PlantDoc-Backend/pkg/analytics"
	"PlantDoc-Backend/pkg/gemini"
	"PlantDoc-Backend/pkg/inference"
	"PlantDoc-Backend/pkg/jwt"
	"PlantDoc-Backend/pkg/user"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

const defaultGeminiTimeout = 30 * time.Second

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         20 * 1024 * 1024,
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
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// classifier loads once; the engine is read-only afterwards
	engine, err := inference.NewEngine(utils.GetConfig("MODEL_PATH"))
	if err != nil {
		return nil, err
	}

	geminiTimeout := defaultGeminiTimeout
	if raw := utils.GetConfig("GEMINI_TIMEOUT_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			geminiTimeout = time.Duration(seconds) * time.Second
		}
	}
	geminiClient := gemini.NewClient(
		utils.GetConfig("GEMINI_API_KEY"),
		utils.GetConfig("GEMINI_MODEL"),
		geminiTimeout,
	)

	// Repository
	userRepository := user.NewUserRepository(db)
	analysisRepository := analysis.NewAnalysisRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	geminiService := gemini.NewGeminiService(geminiClient)
	analysisService := analysis.NewAnalysisService(analysisRepository, engine, geminiService, s3)
	analyticsService := analytics.NewAnalyticsService(analysisRepository, userRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, analyticsService, validator)
	chatHandler := handlers.NewChatHandler(geminiService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		AnalysisHandler: analysisHandler,
		ChatHandler:     chatHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
