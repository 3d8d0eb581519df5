package main

import (
	"log"
	"net/http"

	"localmart-be/internal/config"
	"localmart-be/internal/db"
	"localmart-be/internal/logger"
	"localmart-be/internal/notify"
	"localmart-be/internal/order"
	"localmart-be/internal/product"
	"localmart-be/internal/router"
	"localmart-be/internal/user"
	"localmart-be/internal/vendor"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	hub := notify.NewHub()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, hub)

	vendorRepo := vendor.NewRepository(database)
	vendorSvc := vendor.NewService(vendorRepo)

	mux := router.New(router.Handlers{
		User:    user.NewHandler(userSvc),
		Product: product.NewHandler(productSvc),
		Order:   order.NewHandler(orderSvc),
		Vendor:  vendor.NewHandler(vendorSvc),
		Hub:     hub,
	})

	log.Printf("LocalMart API listening on http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, mux))
}
