package main

import (
	"log"
	"net/http"
	"time"

	"tablebook/api-gateway/internal/gateway"
	"tablebook/config"

	"github.com/rs/cors"
)

func main() {
	settings := config.Load(":8080")

	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:   settings.OrderSvcURL,
		BookingSvcURL: settings.BookingSvcURL,
		RateSvcURL:    settings.RateSvcURL,
	}, &http.Client{Timeout: 15 * time.Second})

	r := gw.SetupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Actor-ID", "X-Actor-Role", "X-Request-ID", "X-Guest-Cart"},
		ExposedHeaders: []string{"X-Request-ID", "X-Guest-Cart"},
	})
	handler := c.Handler(r)

	log.Printf("API Gateway starting on %s", settings.HTTPAddr)
	log.Fatal(http.ListenAndServe(settings.HTTPAddr, handler))
}
