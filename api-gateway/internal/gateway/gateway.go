package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker/v2"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL   string
	BookingSvcURL string
	RateSvcURL    string

	// FailureThreshold consecutive failures open a backend's breaker for
	// OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

var errUpstreamStatus = errors.New("upstream server error")

type backend struct {
	name    string
	url     string
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

type Gateway struct {
	client  HTTPClient
	order   *backend
	booking *backend
	rate    *backend
}

func NewGateway(config Config, client HTTPClient) *Gateway {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.OpenTimeout == 0 {
		config.OpenTimeout = 30 * time.Second
	}
	return &Gateway{
		client:  client,
		order:   newBackend("order-svc", config.OrderSvcURL, config),
		booking: newBackend("booking-svc", config.BookingSvcURL, config),
		rate:    newBackend("rate-svc", config.RateSvcURL, config),
	}
}

func newBackend(name, url string, config Config) *backend {
	threshold := config.FailureThreshold
	return &backend{
		name: name,
		url:  strings.TrimRight(url, "/"),
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     config.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("[GATEWAY] breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":      "healthy",
		"service":     "api-gateway",
		"order-svc":   g.order.breaker.State().String(),
		"booking-svc": g.booking.breaker.State().String(),
		"rate-svc":    g.rate.breaker.State().String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, target *backend) {
	log.Printf("PROXY: %s %s -> %s%s", r.Method, r.URL.Path, target.url, r.URL.Path)

	url := target.url + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.Printf("ERROR: Failed to create request: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := target.breaker.Execute(func() (*http.Response, error) {
		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errUpstreamStatus
		}
		return resp, nil
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Printf("ERROR: %s unavailable: %v", target.name, err)
		http.Error(w, fmt.Sprintf("%s is unavailable", target.name), http.StatusServiceUnavailable)
		return
	case err != nil && resp == nil:
		log.Printf("ERROR: Failed to proxy to %s: %v", target.url, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("ERROR: Failed to copy response: %v", err)
	}
}

// backendFor picks the service owning path, or nil when no service does.
func (g *Gateway) backendFor(path string) *backend {
	switch {
	case hasSegmentPrefix(path, "/api/cart"), hasSegmentPrefix(path, "/api/orders"):
		return g.order
	case hasSegmentPrefix(path, "/api/reservations"):
		return g.booking
	case hasSegmentPrefix(path, "/api/reviews"), path == "/api/vendors/top":
		return g.rate
	case path == "/api/vendors":
		return g.order
	}

	// /api/vendors/{id}[/{resource}...]
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "vendors" {
		return nil
	}
	if len(parts) == 3 {
		return g.order
	}
	switch parts[3] {
	case "menu":
		return g.order
	case "schedule", "slots":
		return g.booking
	case "rating", "reviews":
		return g.rate
	}
	return nil
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("ROUTE: %s %s", r.Method, r.URL.Path)

	target := g.backendFor(r.URL.Path)
	if target == nil {
		log.Printf("[GATEWAY] Unmatched API route: %s", r.URL.Path)
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID)
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	return r
}
