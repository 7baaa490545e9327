package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tablebook/access"
	"tablebook/booking-svc/internal/domain"
	"tablebook/booking-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Schedules    service.ScheduleServiceInterface
	Reservations service.ReservationServiceInterface
}

func NewHandler(scheduleSvc service.ScheduleServiceInterface, reservationSvc service.ReservationServiceInterface) *Handler {
	return &Handler{
		Schedules:    scheduleSvc,
		Reservations: reservationSvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	authed := func(f http.HandlerFunc) http.Handler { return access.Middleware(f) }

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/vendors/{vendorId}/schedule", h.getSchedule).Methods("GET")
	r.Handle("/api/vendors/{vendorId}/schedule/{weekday}", authed(h.updateScheduleDay)).Methods("PUT")
	r.HandleFunc("/api/vendors/{vendorId}/slots", h.getSlots).Methods("GET")

	r.Handle("/api/reservations", authed(h.createReservation)).Methods("POST")
	r.Handle("/api/reservations", authed(h.getReservations)).Methods("GET")
	r.Handle("/api/reservations/{id}/cancel", authed(h.cancelReservation)).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "booking-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var validationErr domain.ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, domain.ErrInvalidSchedule):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, access.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSlotFull), errors.Is(err, domain.ErrVendorClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func pathInt(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	week, err := h.Schedules.Week(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

type dayRequest struct {
	IsOpen              bool         `json:"is_open"`
	OpenTime            domain.Clock `json:"open_time"`
	CloseTime           domain.Clock `json:"close_time"`
	SlotDurationMinutes int          `json:"slot_duration_minutes"`
	MaxOrdersPerSlot    int          `json:"max_orders_per_slot"`
}

func (h *Handler) updateScheduleDay(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendorID, err := pathInt(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	weekday, err := pathInt(r, "weekday")
	if err != nil {
		writeError(w, err)
		return
	}
	var req dayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	day, err := h.Schedules.UpdateDay(r.Context(), actor, domain.DaySchedule{
		VendorID:            vendorID,
		Weekday:             int(weekday),
		IsOpen:              req.IsOpen,
		OpenTime:            req.OpenTime,
		CloseTime:           req.CloseTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		MaxOrdersPerSlot:    req.MaxOrdersPerSlot,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (h *Handler) getSlots(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	slots, err := h.Schedules.Slots(r.Context(), vendorID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req domain.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.Reservations.Allocate(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Reservations.Cancel(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) getReservations(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendorID, err := queryInt(r, "vendor_id")
	if err != nil {
		writeError(w, err)
		return
	}
	customerID, err := queryInt(r, "customer_id")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.Reservations.List(r.Context(), actor, domain.ReservationFilter{
		VendorID:         vendorID,
		CustomerID:       customerID,
		Date:             r.URL.Query().Get("date"),
		IncludeCancelled: r.URL.Query().Get("include_cancelled") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
