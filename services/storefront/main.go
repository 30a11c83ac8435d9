package main

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/shopkit/storefront/internal/backend"
	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/catalog"
	"github.com/shopkit/storefront/internal/checkout"
	"github.com/shopkit/storefront/internal/config"
	"github.com/shopkit/storefront/internal/session"
)

func init() {
	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := session.OpenStore(cfg.SessionDBPath)
	if err != nil {
		log.Fatal("Failed to open session storage: ", err)
	}
	defer store.Close()

	holder, err := session.NewHolder(store, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("Failed to initialize session holder: ", err)
	}
	holder.Restore()

	client := backend.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	app := &app{
		cfg:       cfg,
		sessions:  holder,
		backend:   client,
		catalog:   catalog.New(client, cfg.IsDevelopment()),
		cart:      cart.NewStore(),
		checkouts: checkout.NewManager(client),
	}

	router := app.router()

	log.WithFields(log.Fields{
		"api_base_url": cfg.APIBaseURL,
		"environment":  cfg.AppEnvironment,
	}).Info("Storefront starting on ", cfg.ListenAddr)

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
