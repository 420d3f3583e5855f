package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Osmankaankorkmaz/Tonica/config"
	"github.com/Osmankaankorkmaz/Tonica/controllers"
	"github.com/Osmankaankorkmaz/Tonica/helpers"
	"github.com/Osmankaankorkmaz/Tonica/routes"
	"github.com/Osmankaankorkmaz/Tonica/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	client, err := config.ConnectDB(context.Background(), cfg.MongoURI, logger)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB)

	tokens := helpers.NewTokenManager(cfg.JWTSecret, 0)
	store := services.NewMongoStore(db)
	focusService := services.NewFocusService(store, store, logger)

	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	routes.SetupRoutes(api, routes.Controllers{
		Users:  controllers.NewUserController(db, tokens),
		Tasks:  controllers.NewTaskController(db),
		Focus:  controllers.NewFocusController(focusService),
		Tokens: tokens,
	})

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
