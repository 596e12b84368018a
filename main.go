package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tiffin-market-api/config"
	"tiffin-market-api/database"
	"tiffin-market-api/handlers"
	"tiffin-market-api/mailer"
	"tiffin-market-api/middleware"
	"tiffin-market-api/routes"
)

func initLogger(cfg config.App) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	log.Logger = log.With().Str("service", "tiffin-market-api").Logger()
}

func newMailer(cfg config.App) mailer.Mailer {
	if cfg.EmailAPIURL != "" && cfg.EmailAPIKey != "" {
		return mailer.NewHTTP(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	}
	log.Warn().Msg("no email provider configured, mail goes to console")
	return mailer.NewConsole()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	initLogger(cfg)
	gin.SetMode(cfg.GinMode)

	handle := database.NewHandle(cfg)
	db, err := handle.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	h := handlers.New(db, newMailer(cfg), cfg)

	limiter, err := middleware.NewRateLimiter(10, time.Minute, 1024)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build rate limiter")
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for the frontend
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Tiffin Market API",
			"version": "1.0.0",
		})
	})

	routes.Setup(r, h, cfg, limiter)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
