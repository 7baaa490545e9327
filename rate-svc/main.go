package main

import (
	"time"

	httpapi "tablebook/rate-svc/internal/api/http"
	"tablebook/rate-svc/internal/service"
	"tablebook/rate-svc/internal/storage"
	"tablebook/config"
)

// Markers only short-circuit duplicate submissions; the unique index on
// reviews is authoritative once they expire.
const reviewMarkerTTL = 30 * 24 * time.Hour

func main() {
	settings := config.Load(":8083")

	db := config.MustInitPostgres(settings)
	defer db.Close()
	config.MustMigrate(db)

	rdb := config.MustInitRedis(settings)
	defer rdb.Close()

	writer := config.NewKafkaWriter(settings)
	defer writer.Close()

	reviewSvc := service.NewReviewService(
		storage.NewPostgresRepository(db),
		storage.NewRedisCache(rdb, reviewMarkerTTL),
		storage.NewKafkaPublisher(writer),
	)

	handler := httpapi.NewHandler(reviewSvc)
	httpapi.StartServer(settings.HTTPAddr, httpapi.NewRouter(handler))
}
