package main

import (
	"context"
	"net/http"

	_ "abr-geocoder/docs"
	"abr-geocoder/internal/config"
	"abr-geocoder/internal/handler"
	"abr-geocoder/internal/logger"
	"abr-geocoder/internal/repository"
	"abr-geocoder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title		ABR Geocoder API
//	@version	1.0
//	@BasePath	/

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(config.LogLevel, config.LogFormat)

	// Database connection
	repo, err := repository.Connect(context.Background(), config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.DBDriver).Msg("cannot connect to db")
	}
	defer repo.Close()

	// Initialize layers
	opts := []service.Option{service.WithWorkers(config.Workers)}
	if ch, ok := config.Fuzzy(); ok {
		opts = append(opts, service.WithFuzzy(ch))
	}
	geoCodeService := service.NewGeoCodeService(repo, opts...)
	reverseGeocodeService := service.NewReverseGeoCodeService(repo)

	geoCodeHandler := handler.NewGeoCodeHandler(geoCodeService)
	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(reverseGeocodeService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/geocode", geoCodeHandler.GeoCode)
	r.POST("/geocode/batch", handler.RateLimit(config.RateLimit, 1), geoCodeHandler.GeoCodeBatch)
	r.GET("/reverse-geocode", reverseGeocodeHandler.ReverseGeocode)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("address", config.ServerAddress).Str("driver", config.DBDriver).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
