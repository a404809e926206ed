package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"ppa-simulator/internal/api/handlers"
	"ppa-simulator/internal/api/middleware"
	"ppa-simulator/internal/config"
	"ppa-simulator/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	flag.Parse()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log := setupLogger(cfg.Log)

	store, err := data.NewStore(cfg.Database)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	regions, err := data.LoadRegionIndex(data.GetDefaultRegionsPath())
	if err != nil {
		log.Fatalf("load regions: %v", err)
	}

	// Price and wind series are shared across requests; cache them.
	src := data.NewCachedSource(store, time.Hour)

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(src, store, regions, cfg, log)
	profilesHandler := handlers.NewProfilesHandler(store, regions)
	rankHandler := handlers.NewRankHandler(store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.Simulate)
		api.GET("/profiles", profilesHandler.List)
		api.GET("/profiles/:id", profilesHandler.Get)
		api.GET("/rank", rankHandler.Rank)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	addr := fmt.Sprintf(":%s", port)
	log.Infof("starting API server on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) *logrus.Entry {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logrus.NewEntry(logger)
}
