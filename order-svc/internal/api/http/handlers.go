package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tablebook/access"
	"tablebook/order-svc/internal/domain"
	"tablebook/order-svc/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const HeaderGuestCart = "X-Guest-Cart"

type Handler struct {
	Vendors service.VendorServiceInterface
	Menu    service.MenuServiceInterface
	Carts   service.CartServiceInterface
	Orders  service.OrderServiceInterface
}

func NewHandler(vendorSvc service.VendorServiceInterface, menuSvc service.MenuServiceInterface, cartSvc service.CartServiceInterface, orderSvc service.OrderServiceInterface) *Handler {
	return &Handler{
		Vendors: vendorSvc,
		Menu:    menuSvc,
		Carts:   cartSvc,
		Orders:  orderSvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	authed := func(f http.HandlerFunc) http.Handler { return access.Middleware(f) }

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/vendors", h.getVendors).Methods("GET")
	r.Handle("/api/vendors", authed(h.createVendor)).Methods("POST")
	r.HandleFunc("/api/vendors/{vendorId}", h.getVendor).Methods("GET")
	r.Handle("/api/vendors/{vendorId}", authed(h.updateVendor)).Methods("PUT")

	r.HandleFunc("/api/vendors/{vendorId}/menu", h.getMenu).Methods("GET")
	r.Handle("/api/vendors/{vendorId}/menu", authed(h.createMenuItem)).Methods("POST")
	r.Handle("/api/vendors/{vendorId}/menu/{itemId}", authed(h.updateMenuItem)).Methods("PUT")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{itemId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")
	r.Handle("/api/cart/merge", authed(h.mergeCart)).Methods("POST")

	r.Handle("/api/orders", authed(h.createOrder)).Methods("POST")
	r.Handle("/api/orders", authed(h.getOrders)).Methods("GET")
	r.Handle("/api/orders/{id}", authed(h.getOrder)).Methods("GET")
	r.Handle("/api/orders/{id}/status", authed(h.updateOrderStatus)).Methods("POST")
	r.Handle("/api/orders/{id}/qrcode", authed(h.getOrderQRCode)).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
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
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, access.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrLineNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrCartChanged):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
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

type vendorRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (req vendorRequest) toVendor() *domain.Vendor {
	return &domain.Vendor{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
}

func (h *Handler) getVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Vendors.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	vendor, err := h.Vendors.Get(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req vendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	vendor := req.toVendor()
	if err := h.Vendors.Create(r.Context(), actor, vendor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req vendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	vendor := req.toVendor()
	vendor.ID = vendorID
	if err := h.Vendors.Update(r.Context(), actor, vendor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

type menuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Available   *bool           `json:"available"`
}

func (req menuItemRequest) toItem(vendorID int64) *domain.MenuItem {
	item := &domain.MenuItem{
		VendorID:    vendorID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	return item
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.Menu.List(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	item := req.toItem(vendorID)
	if err := h.Menu.Create(r.Context(), actor, item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	item := req.toItem(vendorID)
	item.ID = itemID
	if err := h.Menu.Update(r.Context(), actor, item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// cartOwner resolves whose cart a request addresses. Authenticated customers
// get their durable cart; requests carrying no identity headers at all fall
// back to the guest session header. Vendors and admins have no cart.
func cartOwner(r *http.Request) (service.CartOwner, error) {
	sessionID := r.Header.Get(HeaderGuestCart)
	if r.Header.Get(access.HeaderActorID) == "" && r.Header.Get(access.HeaderActorRole) == "" {
		if sessionID != "" {
			if _, parseErr := uuid.Parse(sessionID); parseErr != nil {
				return service.CartOwner{}, domain.ValidationError{Field: "session_id", Message: "invalid guest cart session"}
			}
		}
		return service.CartOwner{SessionID: sessionID}, nil
	}
	actor, err := access.FromRequest(r)
	if err != nil {
		return service.CartOwner{}, err
	}
	if !actor.Is(access.RoleCustomer) {
		return service.CartOwner{}, access.ErrForbidden
	}
	return service.CartOwner{CustomerID: actor.ID}, nil
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	owner, err := cartOwner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if owner.IsGuest() && owner.SessionID == "" {
		writeJSON(w, http.StatusOK, domain.NewGuestCart(""))
		return
	}
	cart, err := h.Carts.Get(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type addCartItemRequest struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	owner, err := cartOwner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if owner.IsGuest() && owner.SessionID == "" {
		owner.SessionID = uuid.NewString()
	}

	cart, err := h.Carts.AddItem(r.Context(), owner, req.MenuItemID, req.Quantity, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	if owner.IsGuest() {
		w.Header().Set(HeaderGuestCart, owner.SessionID)
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	owner, err := cartOwner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	cart, err := h.Carts.UpdateQuantity(r.Context(), owner, itemID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	owner, err := cartOwner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, err)
		return
	}

	cart, err := h.Carts.RemoveItem(r.Context(), owner, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	owner, err := cartOwner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Carts.Clear(r.Context(), owner); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mergeCart(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !actor.Is(access.RoleCustomer) {
		writeError(w, access.ErrForbidden)
		return
	}
	sessionID := r.Header.Get(HeaderGuestCart)
	if _, err := uuid.Parse(sessionID); err != nil {
		writeError(w, domain.ValidationError{Field: "session_id", Message: "invalid guest cart session"})
		return
	}

	cart, err := h.Carts.MergeGuestCart(r.Context(), actor.ID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.Orders.Get(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	customerID, err := queryID(r, "customer_id")
	if err != nil {
		writeError(w, err)
		return
	}
	vendorID, err := queryID(r, "vendor_id")
	if err != nil {
		writeError(w, err)
		return
	}

	orders, err := h.Orders.List(r.Context(), actor, domain.OrderFilter{
		CustomerID: customerID,
		VendorID:   vendorID,
		Status:     domain.Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status domain.Status `json:"status"`
	Note   string        `json:"note"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Transition(r.Context(), actor, orderID, req.Status, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	actor, err := access.RequestActor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	qrCode, err := h.Orders.GetQRCode(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(qrCode) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}
