package main

import (
	"log"

	"tourism-booking/cmd"
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/notify"
	"tourism-booking/internal/wire"
	"tourism-booking/pkg/cache"
	"tourism-booking/pkg/crypto"
	"tourism-booking/pkg/database"
	"tourism-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	cipher, err := crypto.NewFieldCipher(config.Cipher.Key)
	if err != nil {
		logger.Fatal("Failed to init field cipher", zap.Error(err))
	}
	if !cipher.Enabled() {
		logger.Warn("Field cipher disabled, writes of sensitive attributes will fail")
	}

	// Redis is optional: without it the rate limiter fails open.
	redisClient, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	repos := repository.NewRepository(db, cipher, logger)
	notifier := notify.NewPublisher(config.AMQP.URL, logger)

	app := wire.Wiring(db, repos, notifier, redisClient, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
