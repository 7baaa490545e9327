package main

import (
	"log"

	httpapi "tablebook/booking-svc/internal/api/http"
	"tablebook/booking-svc/internal/service"
	"tablebook/booking-svc/internal/storage"
	"tablebook/config"
)

func main() {
	settings := config.Load(":8082")

	var (
		schedules    service.ScheduleRepository
		reservations service.ReservationStore
	)
	switch settings.BookingStore {
	case "memory":
		store := storage.NewMemoryStore()
		schedules, reservations = store, store
		log.Println("Booking store: in-memory")
	default:
		db := config.MustInitPostgres(settings)
		defer db.Close()
		config.MustMigrate(db)
		repo := storage.NewPostgresRepository(db)
		schedules, reservations = repo, repo
		log.Println("Booking store: postgres")
	}

	scheduleSvc := service.NewScheduleService(schedules, reservations)
	reservationSvc := service.NewReservationService(schedules, reservations, settings.AllocateRetries)

	handler := httpapi.NewHandler(scheduleSvc, reservationSvc)
	httpapi.StartServer(settings.HTTPAddr, httpapi.NewRouter(handler))
}
