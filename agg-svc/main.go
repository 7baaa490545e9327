package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tablebook/agg-svc/internal/service"
	"tablebook/agg-svc/internal/storage"
	"tablebook/config"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func healthRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "healthy",
			"service":   "agg-svc",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}).Methods("GET")
	return r
}

func main() {
	settings := config.Load(":8084")

	db := config.MustInitPostgres(settings)
	defer db.Close()
	config.MustMigrate(db)

	rdb := config.MustInitRedis(settings)
	defer rdb.Close()

	reader := config.NewKafkaReader(settings, "agg-svc")
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(db, rdb, settings.RatingCacheTTL))
	server := &http.Server{Addr: settings.HTTPAddr, Handler: healthRouter()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(ctx)
	})
	g.Go(func() error {
		log.Printf("Aggregation Service health endpoint on %s", settings.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Aggregation Service stopped:", err)
	}
}
