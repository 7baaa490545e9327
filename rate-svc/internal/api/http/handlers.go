package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tablebook/access"
	"tablebook/rate-svc/internal/domain"
	"tablebook/rate-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Reviews service.ReviewServiceInterface
}

func NewHandler(reviews service.ReviewServiceInterface) *Handler {
	return &Handler{Reviews: reviews}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	authed := func(f http.HandlerFunc) http.Handler { return access.Middleware(f) }

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.Handle("/api/reviews", authed(h.createReview)).Methods("POST")
	r.Handle("/api/reviews/{id}", authed(h.updateReview)).Methods("PUT")
	r.Handle("/api/reviews/{id}", authed(h.deleteReview)).Methods("DELETE")
	r.Handle("/api/reviews/{id}/status", authed(h.setReviewStatus)).Methods("POST")

	r.HandleFunc("/api/vendors/top", h.getTopRated).Methods("GET")
	r.HandleFunc("/api/vendors/{vendorId}/reviews", h.getVendorReviews).Methods("GET")
	r.HandleFunc("/api/vendors/{vendorId}/rating", h.getVendorRating).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "rate-svc",
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
	case errors.As(err, &validationErr), errors.Is(err, domain.ErrOrderNotReviewable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, access.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateReview):
		http.Error(w, err.Error(), http.StatusConflict)
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

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ValidationError{Field: "body", Message: "invalid JSON payload"}
	}
	return nil
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req domain.CreateReviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.VendorID <= 0 || req.OrderID <= 0 {
		writeError(w, domain.ValidationError{Field: "order_id", Message: "vendor_id and order_id are required"})
		return
	}

	review, err := h.Reviews.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reviewID, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateReviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.Reviews.Update(r.Context(), actor, reviewID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reviewID, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Reviews.Delete(r.Context(), actor, reviewID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setReviewStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reviewID, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Status domain.ReviewStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.Reviews.SetStatus(r.Context(), actor, reviewID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) getVendorReviews(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}

	reviews, err := h.Reviews.ListVendorReviews(r.Context(), vendorID, domain.ReviewStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) getVendorRating(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}

	rating, err := h.Reviews.VendorRating(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (h *Handler) getTopRated(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, domain.ValidationError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	ratings, err := h.Reviews.TopRated(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}
