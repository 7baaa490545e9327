package main

import (
	"log"

	"tablebook/config"
	httpapi "tablebook/order-svc/internal/api/http"
	"tablebook/order-svc/internal/service"
	"tablebook/order-svc/internal/storage"
)

func main() {
	settings := config.Load(":8081")

	db := config.MustInitPostgres(settings)
	defer db.Close()
	config.MustMigrate(db)

	rdb := config.MustInitRedis(settings)
	defer rdb.Close()

	repo := storage.NewPostgresRepository(db)
	guests := storage.NewGuestCartStore(rdb, settings.GuestCartTTL)
	qr := service.DefaultQRGenerator{BaseURL: settings.PublicBaseURL}

	vendorSvc := service.NewVendorService(repo)
	menuSvc := service.NewMenuService(repo)
	cartSvc := service.NewCartService(repo, guests, repo)
	orderSvc := service.NewOrderService(repo, repo, repo, qr)

	handler := httpapi.NewHandler(vendorSvc, menuSvc, cartSvc, orderSvc)
	log.Printf("Guest carts expire after %s", settings.GuestCartTTL)
	httpapi.StartServer(settings.HTTPAddr, httpapi.NewRouter(handler))
}
