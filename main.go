package main

import (
	"PlantDoc-Backend/cmd/config"
	migration "PlantDoc-Backend/cmd/database/migrate"
	"PlantDoc-Backend/internal/utils"
	"log"
)

func main() {
	utils.LoadConfig()

	// The external model credential is required at process start.
	if utils.GetConfig("GEMINI_API_KEY") == "" {
		log.Fatal("GEMINI_API_KEY not found in configuration")
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("error setting up app: %v", err)
	}

	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("error running server: %v", err)
	}
}
