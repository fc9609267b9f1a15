package main

import (
	"log"
	"time"

	"dk-delivery/config"
	httpapi "dk-delivery/internal/api/http"
	"dk-delivery/internal/service"
	"dk-delivery/internal/storage"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter("orders")
	defer kafkaWriter.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	marker := storage.NewRedisLoyaltyMarker(rdb, 30*24*time.Hour)
	publisher := storage.NewKafkaPublisher(kafkaWriter)
	cartStore := storage.NewRedisKV(rdb)

	qrEncoder := service.TrackingQRGenerator{
		BaseURL: config.Env("PUBLIC_BASE_URL", "http://localhost"),
	}

	orderSvc := service.NewOrderService(repo, repo, repo, marker, publisher, qrEncoder)
	restSvc := service.NewRestaurantService(repo)
	authSvc := service.NewAuthService(repo)

	auth := httpapi.NewAuthenticator(config.JWTSecret())
	handler := httpapi.NewHandler(orderSvc, restSvc, authSvc, cartStore)
	router := httpapi.NewRouter(handler, auth)

	httpapi.StartServer(":"+config.Env("PORT", "8080"), router)
}
